//go:build !linux

package system

import "context"

func WatchKeys(ctx context.Context, logger Logger, codes []uint16, onPress func(code uint16)) error {
	if logger != nil {
		logger.Infof("input", "evdev keys unsupported on this platform")
	}
	return nil
}
