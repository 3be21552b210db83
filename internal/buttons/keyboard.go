package buttons

import (
	"context"

	"github.com/rook-computer/carousel/internal/system"
)

// DefaultKeymap maps keys on an attached keyboard to events.
var DefaultKeymap = map[uint16]Event{
	system.KeyG:  Generate,
	system.KeyB:  Back,
	system.KeyF4: Exit,
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// KeyboardButtons turns evdev key presses into events.
type KeyboardButtons struct {
	Keymap map[uint16]Event
	Logger logger

	ch     chan Event
	cancel context.CancelFunc
}

func NewKeyboardButtons(l logger) *KeyboardButtons {
	return &KeyboardButtons{Keymap: DefaultKeymap, Logger: l, ch: make(chan Event, 8)}
}

func (k *KeyboardButtons) Start(ctx context.Context) error {
	watchCtx, cancel := context.WithCancel(ctx)
	k.cancel = cancel
	codes := make([]uint16, 0, len(k.Keymap))
	for code := range k.Keymap {
		codes = append(codes, code)
	}
	return system.WatchKeys(watchCtx, k.Logger, codes, func(code uint16) {
		ev, ok := k.Keymap[code]
		if !ok {
			return
		}
		select {
		case k.ch <- ev:
		default:
			if k.Logger != nil {
				k.Logger.Infof("input", "dropping %s, queue full", ev)
			}
		}
	})
}

func (k *KeyboardButtons) Stop() error {
	if k.cancel != nil {
		k.cancel()
	}
	return nil
}

func (k *KeyboardButtons) Events() <-chan Event { return k.ch }
