// Package v1_20 wires the codec package's generic play-state machinery
// for protocol 763 (Minecraft 1.20–1.20.1), the newest version this
// build supports; uses the compacted packed-long layout introduced in
// 1.16.
package v1_20

import (
	"github.com/bamboo-mc/bamboo/codec"
	"github.com/bamboo-mc/bamboo/registry"
)

func init() {
	codec.Register(registry.V1_20, codec.GenericPlayCodec{
		Blocks:           registry.BlockTableFor(registry.BlockV1_20),
		ModernPos:        true,
		PalettedChunk:    true,
		CompactedPalette: true,
	})
}
