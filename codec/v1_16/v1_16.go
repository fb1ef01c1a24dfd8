// Package v1_16 wires the codec package's generic play-state machinery
// for protocol 751 (Minecraft 1.16.4–1.16.5): flattened block states,
// modern block-position packing, and the first version to switch chunk
// sections from the padded packed-long layout to the compacted one
// (spec §8 scenario 5).
package v1_16

import (
	"github.com/bamboo-mc/bamboo/codec"
	"github.com/bamboo-mc/bamboo/registry"
)

func init() {
	codec.Register(registry.V1_16, codec.GenericPlayCodec{
		Blocks:           registry.BlockTableFor(registry.BlockV1_16),
		ModernPos:        true,
		PalettedChunk:    true,
		CompactedPalette: true,
	})
}
