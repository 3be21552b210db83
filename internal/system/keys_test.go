package system

import (
	"encoding/binary"
	"reflect"
	"testing"
)

func event(tvSize int, typ, code uint16, value int32) []byte {
	rec := make([]byte, tvSize+8)
	binary.LittleEndian.PutUint16(rec[tvSize:], typ)
	binary.LittleEndian.PutUint16(rec[tvSize+2:], code)
	binary.LittleEndian.PutUint32(rec[tvSize+4:], uint32(value))
	return rec
}

func TestParseKeyPresses(t *testing.T) {
	const tvSize = 16
	var buf []byte
	buf = append(buf, event(tvSize, evKey, KeyG, 1)...)
	buf = append(buf, event(tvSize, evKey, KeyG, 0)...)  // release
	buf = append(buf, event(tvSize, 0x00, 0, 0)...)      // EV_SYN
	buf = append(buf, event(tvSize, evKey, KeyF4, 2)...) // autorepeat
	buf = append(buf, event(tvSize, evKey, KeyB, 1)...)
	buf = append(buf, 1, 2, 3) // partial record

	got := parseKeyPresses(buf, tvSize)
	if want := []uint16{KeyG, KeyB}; !reflect.DeepEqual(got, want) {
		t.Fatalf("parseKeyPresses = %v, want %v", got, want)
	}
}
