package cipher

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/bamboo-mc/bamboo/wire"
)

// DisableCompression is the threshold value meaning compression is off.
const DisableCompression = -1

// Compression implements the framing described in spec §4.2: once
// enabled, any outgoing frame whose uncompressed payload is >=
// threshold is zlib-deflated and prefixed with a VarInt of the
// uncompressed length; smaller frames carry a leading VarInt 0 and the
// raw payload. A threshold of 0 means "compress everything" (spec §9
// open question resolution); DisableCompression (-1) turns the stage
// into a pass-through.
type Compression struct {
	Threshold int
}

// Pack turns a logical packet payload into the bytes that should be
// length-prefixed and written to the wire (spec §4.2, C2).
func (c Compression) Pack(payload []byte) ([]byte, error) {
	if c.Threshold < 0 {
		return payload, nil
	}
	if len(payload) < c.Threshold {
		out := wire.VarInt(0).Encode()
		return append(out, payload...), nil
	}

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		return nil, fmt.Errorf("cipher: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("cipher: compress: %w", err)
	}

	out := wire.VarInt(len(payload)).Encode()
	out = append(out, buf.Bytes()...)
	return out, nil
}

// Unpack is the inverse of Pack, given one frame's full payload bytes.
// The leading VarInt gives the decompression bomb bound directly: a
// declared uncompressed length over wire.MaxFrameSize is rejected
// before inflating.
func (c Compression) Unpack(framePayload []byte) ([]byte, error) {
	if c.Threshold < 0 {
		return framePayload, nil
	}

	r := bytes.NewReader(framePayload)
	uncompressedLen, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wire.ErrMalformed, err)
	}
	rest := framePayload[len(framePayload)-r.Len():]

	if uncompressedLen == 0 {
		return rest, nil
	}
	if int(uncompressedLen) > wire.MaxFrameSize {
		return nil, wire.ErrOversize
	}

	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, fmt.Errorf("cipher: decompress: %w", err)
	}
	defer zr.Close()

	out := make([]byte, uncompressedLen)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("cipher: decompress: %w", err)
	}
	return out, nil
}
