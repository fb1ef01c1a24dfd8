// Package v1_14 wires the codec package's generic play-state machinery
// for protocol 477 (Minecraft 1.14–1.17.1): flattened block states,
// modern block-position packing (introduced in 1.14), paletted chunk
// sections.
package v1_14

import (
	"github.com/bamboo-mc/bamboo/codec"
	"github.com/bamboo-mc/bamboo/registry"
)

func init() {
	codec.Register(registry.V1_14, codec.GenericPlayCodec{
		Blocks:           registry.BlockTableFor(registry.BlockV1_14),
		ModernPos:        true,
		PalettedChunk:    true,
		CompactedPalette: false,
	})
}
