package codec

import (
	"bytes"
	"fmt"

	"github.com/bamboo-mc/bamboo/wire"
)

// sectionVolume is the number of block positions in a section:
// 16*16*16 = 4096.
const sectionVolume = 16 * 16 * 16

const maxIndirectPaletteBits = 8

// decodePalettedSection reads a 1.13+ paletted container and expands it
// into one canonical-ready version-local block ID per position, mirroring
// Versifine-Locus's ParsePalettedContainer: a bits-per-entry byte, an
// optional indirect palette, then a long-array of packed indices.
// compacted selects which of the two packed-long layouts the caller's
// version uses (spec §8 scenario 5): pre-1.16 clients pad each long so
// entries never straddle a 64-bit boundary, while 1.16+ clients pack
// entries back to back across longs whenever bitsPerEntry doesn't
// divide 64 evenly.
func decodePalettedSection(r *bytes.Reader, compacted bool) ([]int32, error) {
	bitsB, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	bits := int(bitsB)
	if bits > 32 {
		return nil, fmt.Errorf("codec: palette bits per entry too large: %d", bits)
	}

	if bits == 0 {
		v, err := wire.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		out := make([]int32, sectionVolume)
		for i := range out {
			out[i] = int32(v)
		}
		// the single-value form still carries a (zero-length) data array
		// per the wire format; consume and discard it.
		if _, err := wire.ReadVarInt(r); err != nil {
			return nil, err
		}
		return out, nil
	}

	indirect := bits <= maxIndirectPaletteBits
	var palette []int32
	if indirect {
		n, err := wire.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		if n < 0 || n > sectionVolume {
			return nil, fmt.Errorf("codec: invalid palette length %d", n)
		}
		palette = make([]int32, n)
		for i := range palette {
			v, err := wire.ReadVarInt(r)
			if err != nil {
				return nil, err
			}
			palette[i] = int32(v)
		}
	}

	longCount, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if longCount < 0 || longCount > sectionVolume {
		return nil, fmt.Errorf("codec: invalid packed long count %d", longCount)
	}
	packed := make([]uint64, longCount)
	for i := range packed {
		v, err := wire.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		packed[i] = uint64(v)
	}

	indices, err := unpackIndices(packed, bits, sectionVolume, compacted)
	if err != nil {
		return nil, err
	}

	out := make([]int32, sectionVolume)
	if !indirect {
		copy(out, indices)
		return out, nil
	}
	for i, idx := range indices {
		if int(idx) >= len(palette) {
			return nil, fmt.Errorf("codec: palette index %d out of range (len %d)", idx, len(palette))
		}
		out[i] = palette[idx]
	}
	return out, nil
}

// encodePalettedSection writes back a direct (non-indirect) paletted
// container: bits-per-entry wide enough for the value range, no
// palette table, one packed long array. Simpler than a real server's
// indirect-palette compaction but wire-compatible, since bits-per-entry
// >8 always signals "direct" to a vanilla client. compacted picks the
// same packed-long layout decodePalettedSection expects back from this
// version (see its doc comment).
func encodePalettedSection(buf *bytes.Buffer, values []int32, compacted bool) {
	bits := bitsNeededFor(values)
	buf.WriteByte(byte(bits))

	packed := packIndices(values, bits, compacted)
	buf.Write(wire.VarInt(len(packed)).Encode())
	for _, v := range packed {
		buf.Write(wire.EncodeInt64(int64(v)))
	}
}

func bitsNeededFor(values []int32) int {
	var max int32
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	// Always encode direct (no indirect palette table) so the encoder
	// never has to decide on a palette; maxIndirectPaletteBits+1 is the
	// smallest width a vanilla client still reads as direct.
	bits := maxIndirectPaletteBits + 1
	for (int32(1) << uint(bits)) <= max {
		bits++
	}
	return bits
}

// unpackIndices expands a packed-long array into count bitsPerEntry-wide
// indices, in either layout a vanilla client uses (spec §8 scenario 5).
// Ported from Versifine-Locus's unpackPadded/unpackCompacted pair; unlike
// that code this build never has to guess which layout it's reading
// (ParsePalettedContainer infers it from the array length because it
// serves one dialect across all versions), since the caller already
// knows its version's layout from GenericPlayCodec.CompactedPalette.
func unpackIndices(data []uint64, bitsPerEntry, count int, compacted bool) ([]int32, error) {
	if bitsPerEntry <= 0 || bitsPerEntry > 64 {
		return nil, fmt.Errorf("codec: invalid bits per entry %d", bitsPerEntry)
	}
	if compacted {
		return unpackCompacted(data, bitsPerEntry, count)
	}
	return unpackPadded(data, bitsPerEntry, count)
}

// unpackPadded is the pre-1.16 layout: entries never straddle a 64-bit
// boundary, so any bits left over at the top of each long go unused.
func unpackPadded(data []uint64, bitsPerEntry, count int) ([]int32, error) {
	valuesPerLong := 64 / bitsPerEntry
	mask := uint64(1)<<uint(bitsPerEntry) - 1
	out := make([]int32, count)
	for i := 0; i < count; i++ {
		longIndex := i / valuesPerLong
		if longIndex >= len(data) {
			return nil, fmt.Errorf("codec: packed data ended early at entry %d", i)
		}
		offset := uint((i % valuesPerLong) * bitsPerEntry)
		out[i] = int32((data[longIndex] >> offset) & mask)
	}
	return out, nil
}

// unpackCompacted is the 1.16+ layout: entries are packed back to back
// with no per-long padding, so an entry may straddle two longs whenever
// bitsPerEntry doesn't divide 64 evenly.
func unpackCompacted(data []uint64, bitsPerEntry, count int) ([]int32, error) {
	mask := uint64(1)<<uint(bitsPerEntry) - 1
	out := make([]int32, count)
	for i := 0; i < count; i++ {
		bitIndex := i * bitsPerEntry
		longIndex := bitIndex / 64
		bitOffset := uint(bitIndex % 64)
		if longIndex >= len(data) {
			return nil, fmt.Errorf("codec: packed data ended early at entry %d", i)
		}
		value := data[longIndex] >> bitOffset
		if bitOffset+uint(bitsPerEntry) > 64 {
			if longIndex+1 >= len(data) {
				return nil, fmt.Errorf("codec: packed data ended early at entry %d", i)
			}
			value |= data[longIndex+1] << (64 - bitOffset)
		}
		out[i] = int32(value & mask)
	}
	return out, nil
}

func packIndices(values []int32, bitsPerEntry int, compacted bool) []uint64 {
	if compacted {
		return packCompacted(values, bitsPerEntry)
	}
	return packPadded(values, bitsPerEntry)
}

func packPadded(values []int32, bitsPerEntry int) []uint64 {
	valuesPerLong := 64 / bitsPerEntry
	longCount := (len(values) + valuesPerLong - 1) / valuesPerLong
	out := make([]uint64, longCount)
	for i, v := range values {
		longIndex := i / valuesPerLong
		offset := uint((i % valuesPerLong) * bitsPerEntry)
		out[longIndex] |= uint64(uint32(v)) << offset
	}
	return out
}

func packCompacted(values []int32, bitsPerEntry int) []uint64 {
	longCount := (len(values)*bitsPerEntry + 63) / 64
	out := make([]uint64, longCount)
	for i, v := range values {
		bitIndex := i * bitsPerEntry
		longIndex := bitIndex / 64
		bitOffset := uint(bitIndex % 64)
		out[longIndex] |= uint64(uint32(v)) << bitOffset
		if bitOffset+uint(bitsPerEntry) > 64 {
			out[longIndex+1] |= uint64(uint32(v)) >> (64 - bitOffset)
		}
	}
	return out
}
