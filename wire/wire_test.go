package wire_test

import (
	"bufio"
	"bytes"
	"math"
	"testing"

	"github.com/bamboo-mc/bamboo/wire"
)

func TestVarIntRoundTrip(t *testing.T) {
	tt := []struct {
		decoded wire.VarInt
		encoded []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xff, 0x01}},
		{2097151, []byte{0xff, 0xff, 0x7f}},
		{2147483647, []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
		{-1, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{-2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	}

	for _, tc := range tt {
		got := tc.decoded.Encode()
		if !bytes.Equal(got, tc.encoded) {
			t.Errorf("Encode(%d) = % x; want % x", tc.decoded, got, tc.encoded)
		}

		decoded, err := wire.ReadVarInt(bufio.NewReader(bytes.NewReader(tc.encoded)))
		if err != nil {
			t.Fatalf("ReadVarInt: %v", err)
		}
		if decoded != tc.decoded {
			t.Errorf("ReadVarInt(% x) = %d; want %d", tc.encoded, decoded, tc.decoded)
		}
	}
}

func TestVarIntTruncationNeverProducesWrongValue(t *testing.T) {
	full := wire.VarInt(300).Encode() // two bytes
	_, err := wire.ReadVarInt(bufio.NewReader(bytes.NewReader(full[:1])))
	if err == nil {
		t.Fatalf("expected an error decoding a truncated VarInt, got none")
	}
}

func TestVarIntTooLong(t *testing.T) {
	bad := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x01}
	_, err := wire.ReadVarInt(bufio.NewReader(bytes.NewReader(bad)))
	if err != wire.ErrVarIntTooBig {
		t.Fatalf("got %v; want ErrVarIntTooBig", err)
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	vals := []wire.VarLong{0, 1, -1, 1 << 40, -(1 << 40), math.MaxInt64, math.MinInt64}
	for _, v := range vals {
		encoded := v.Encode()
		decoded, err := wire.ReadVarLong(bufio.NewReader(bytes.NewReader(encoded)))
		if err != nil {
			t.Fatalf("ReadVarLong: %v", err)
		}
		if decoded != v {
			t.Errorf("VarLong round trip: got %d; want %d", decoded, v)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	s := wire.String("hello, bamboo")
	encoded := s.Encode()
	decoded, err := wire.ReadString(bufio.NewReader(bytes.NewReader(encoded)), 0)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if decoded != s {
		t.Errorf("got %q; want %q", decoded, s)
	}
}

func TestFrameCodecComposition(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x00},
		bytes.Repeat([]byte{0xAB}, 4096),
	}
	for _, p := range payloads {
		encoded := wire.EncodeFrame(p)
		frame, rest, ok, err := wire.DecodeFrame(encoded)
		if err != nil {
			t.Fatalf("DecodeFrame: %v", err)
		}
		if !ok {
			t.Fatalf("DecodeFrame did not recognize a complete frame")
		}
		if !bytes.Equal(frame, p) {
			t.Errorf("got %v; want %v", frame, p)
		}
		if len(rest) != 0 {
			t.Errorf("expected no leftover bytes, got %d", len(rest))
		}
	}
}

func TestFrameCodecPartialRead(t *testing.T) {
	payload := bytes.Repeat([]byte{0x42}, 10)
	encoded := wire.EncodeFrame(payload)

	_, rest, ok, err := wire.DecodeFrame(encoded[:len(encoded)-1])
	if err != nil {
		t.Fatalf("unexpected error on partial frame: %v", err)
	}
	if ok {
		t.Fatalf("DecodeFrame reported a complete frame from partial bytes")
	}
	if !bytes.Equal(rest, encoded[:len(encoded)-1]) {
		t.Errorf("partial decode must not consume input it didn't commit to")
	}
}

func TestFrameCodecOversize(t *testing.T) {
	over := wire.VarInt(wire.MaxFrameSize + 1).Encode()
	_, _, ok, err := wire.DecodeFrame(over)
	if ok || err != wire.ErrOversize {
		t.Fatalf("got ok=%v err=%v; want ok=false err=ErrOversize", ok, err)
	}
}

func TestPositionModernRoundTrip(t *testing.T) {
	positions := []wire.Position{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 64, Z: 2},
		{X: -33554432, Y: -2048, Z: 33554431},
	}
	for _, p := range positions {
		got := wire.DecodeModernPosition(p.EncodeModern())
		if got != p {
			t.Errorf("modern position round trip: got %+v; want %+v", got, p)
		}
	}
}

func TestPositionLegacyRoundTrip(t *testing.T) {
	p := wire.Position{X: 1, Y: 64, Z: 2}
	got := wire.DecodeLegacyPosition(p.EncodeLegacy())
	if got != p {
		t.Errorf("legacy position round trip: got %+v; want %+v", got, p)
	}
}
