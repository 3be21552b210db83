package system

import "encoding/binary"

// Linux input-event-codes.h
const (
	evKey = 0x01

	KeyB  uint16 = 48
	KeyG  uint16 = 34
	KeyF4 uint16 = 62
)

type Logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// parseKeyPresses decodes a buffer of input_event records (timeval, u16 type,
// u16 code, s32 value) and returns the codes of key-down events.
func parseKeyPresses(buf []byte, tvSize int) []uint16 {
	eventSize := tvSize + 2 + 2 + 4
	var codes []uint16
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ == evKey && value == 1 {
			codes = append(codes, code)
		}
	}
	return codes
}
