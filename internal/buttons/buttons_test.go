package buttons

import (
	"testing"
)

func TestChanButtonsQueuesUntilFull(t *testing.T) {
	b := NewChanButtons()
	for i := 0; i < cap(b.ch); i++ {
		if !b.Press(Generate) {
			t.Fatalf("press %d rejected", i)
		}
	}
	if b.Press(Back) {
		t.Fatalf("press accepted on a full queue")
	}
	if ev := <-b.Events(); ev != Generate {
		t.Fatalf("event = %q", ev)
	}
}

func TestChanButtonsPressAfterStop(t *testing.T) {
	b := NewChanButtons()
	if err := b.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := b.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if b.Press(Exit) {
		t.Fatalf("press accepted after stop")
	}
	if _, ok := <-b.Events(); ok {
		t.Fatalf("events channel still open")
	}
}

func TestDefaultKeymap(t *testing.T) {
	want := map[Event]bool{Generate: false, Back: false, Exit: false}
	for _, ev := range DefaultKeymap {
		if _, ok := want[ev]; !ok {
			t.Fatalf("unexpected event %q in keymap", ev)
		}
		want[ev] = true
	}
	for ev, seen := range want {
		if !seen {
			t.Fatalf("event %q has no key", ev)
		}
	}
}
