package codec

import (
	"bytes"

	"github.com/bamboo-mc/bamboo/wire"
)

// decodeLegacySection reads the pre-1.13 chunk section format: a flat
// array of 4096 big-endian shorts, each (blockID<<4)|meta — the same
// packing registry.legacyBlock produces, so no extra translation is
// needed between this and the version-block-ID space.
func decodeLegacySection(r *bytes.Reader) ([]int32, error) {
	out := make([]int32, sectionVolume)
	for i := range out {
		v, err := wire.ReadInt16(r)
		if err != nil {
			return nil, err
		}
		out[i] = int32(uint16(v))
	}
	return out, nil
}

func encodeLegacySection(buf *bytes.Buffer, values []int32) {
	for _, v := range values {
		buf.Write(wire.EncodeInt16(int16(uint16(v))))
	}
}
