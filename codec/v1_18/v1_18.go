// Package v1_18 wires the codec package's generic play-state machinery
// for protocol 757 (Minecraft 1.18–1.18.2), using the compacted
// packed-long layout introduced in 1.16.
package v1_18

import (
	"github.com/bamboo-mc/bamboo/codec"
	"github.com/bamboo-mc/bamboo/registry"
)

func init() {
	codec.Register(registry.V1_18, codec.GenericPlayCodec{
		Blocks:           registry.BlockTableFor(registry.BlockV1_18),
		ModernPos:        true,
		PalettedChunk:    true,
		CompactedPalette: true,
	})
}
