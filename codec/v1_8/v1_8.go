// Package v1_8 wires the codec package's generic play-state machinery
// for protocol 47 (Minecraft 1.8–1.12.2): legacy block-ID+meta states,
// legacy block-position packing, and the flat (non-paletted) chunk
// section format.
package v1_8

import (
	"github.com/bamboo-mc/bamboo/codec"
	"github.com/bamboo-mc/bamboo/registry"
)

func init() {
	codec.Register(registry.V1_8, codec.GenericPlayCodec{
		Blocks:        registry.BlockTableFor(registry.BlockV1_8),
		ModernPos:     false,
		PalettedChunk: false, // legacy flat section array, no palette to compact
	})
}
