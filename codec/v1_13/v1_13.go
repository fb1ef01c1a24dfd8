// Package v1_13 wires the codec package's generic play-state machinery
// for protocol 393 (Minecraft 1.13–1.13.2): flattened block states in
// 1.13's own numeric range, legacy block-position packing (the position
// format didn't change until 1.14), and paletted chunk sections.
package v1_13

import (
	"github.com/bamboo-mc/bamboo/codec"
	"github.com/bamboo-mc/bamboo/registry"
)

func init() {
	codec.Register(registry.V1_13, codec.GenericPlayCodec{
		Blocks:           registry.BlockTableFor(registry.BlockV1_13),
		ModernPos:        false,
		PalettedChunk:    true,
		CompactedPalette: false,
	})
}
