//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// WatchKeys reads every /dev/input/event* device and calls onPress for each
// key-down whose code is in codes. Readers stop when ctx is done.
//
// It is best-effort: without input devices it logs and returns nil.
func WatchKeys(ctx context.Context, logger Logger, codes []uint16, onPress func(code uint16)) error {
	if onPress == nil || len(codes) == 0 {
		return nil
	}
	wanted := make(map[uint16]bool, len(codes))
	for _, c := range codes {
		wanted[c] = true
	}

	tvSize := int(binary.Size(unix.Timeval{}))
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if logger != nil {
			logger.Infof("input", "no evdev devices found, keys disabled")
		}
		return nil
	}

	for _, path := range paths {
		go readDevice(ctx, logger, path, tvSize, func(code uint16) {
			if wanted[code] {
				onPress(code)
			}
		})
	}
	return nil
}

func readDevice(ctx context.Context, logger Logger, path string, tvSize int, onPress func(uint16)) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer f.Close()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			if logger != nil {
				logger.Errorf("input", "%s gone: %v", path, err)
			}
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, code := range parseKeyPresses(buf[:n], tvSize) {
			onPress(code)
		}
	}
}
