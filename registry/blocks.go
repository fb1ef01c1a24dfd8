package registry

// Canonical ("latest") block state IDs. A real build generates these
// from a vanilla data dump (explicitly out of scope, spec §1); this is
// a small literal table standing in for that generator, large enough to
// exercise translation, fallback, and the stairs/metadata scenario from
// spec §8 scenario 4.
const (
	LatestAir      int32 = 0
	LatestStone    int32 = 1
	LatestOakLog   int32 = 2 // axis=y
	latestStairsBase int32 = 10
)

// Facing and Half enumerate the property values used to build a stairs
// state ID; order fixed so the encoding below is stable.
type Facing int

const (
	FacingNorth Facing = iota
	FacingSouth
	FacingWest
	FacingEast
)

type Half int

const (
	HalfBottom Half = iota
	HalfTop
)

// OakStairsState returns the canonical block-state ID for an oak stairs
// block with the given facing/half, e.g. OakStairsState(FacingEast,
// HalfBottom) is the ID spec §8 scenario 4 builds a BlockChange from.
func OakStairsState(facing Facing, half Half) int32 {
	return latestStairsBase + int32(facing)*2 + int32(half)
}

// legacyBlock is the pre-1.13 representation: a numeric block ID plus a
// 4-bit metadata/damage value, packed into one version-block-id as
// (id<<4)|meta so registry's generic int32->int32 tables don't need a
// separate type. The packed value is what goes on the wire: package
// codec writes it unchanged in BlockChange and in legacy chunk sections.
func legacyBlock(id byte, meta byte) int32 { return int32(id)<<4 | int32(meta&0xF) }

// BlockTable is the per-version pair of dense lookup maps described in
// spec §4.3: to_latest_block and to_version_block. Unknown IDs resolve
// to the sentinel fallback (air on decode, stone on encode) per §4.4
// rule 1, never an error.
type BlockTable struct {
	toLatest  map[int32]int32
	toVersion map[int32]int32
	// stoneFallback is this version's encoding of LatestStone, used
	// whenever ToVersion is asked for a latest ID it has no mapping for.
	stoneFallback int32
}

func (t *BlockTable) ToLatestBlock(versionID int32) int32 {
	if lid, ok := t.toLatest[versionID]; ok {
		return lid
	}
	return LatestAir
}

func (t *BlockTable) ToVersionBlock(latestID int32) int32 {
	if vid, ok := t.toVersion[latestID]; ok {
		return vid
	}
	return t.stoneFallback
}

func newBlockTable(pairs map[int32]int32, stoneFallback int32) *BlockTable {
	t := &BlockTable{
		toLatest:      make(map[int32]int32, len(pairs)),
		toVersion:     make(map[int32]int32, len(pairs)),
		stoneFallback: stoneFallback,
	}
	for latest, version := range pairs {
		t.toVersion[latest] = version
		t.toLatest[version] = latest
	}
	return t
}

// BlockTableFor returns the block translation table for a block
// version. Every table is fully built during package initialization
// and is immutable afterwards, so callers never see a partially built
// table.
func BlockTableFor(bv BlockVersion) *BlockTable {
	switch bv {
	case BlockV1_8:
		return blockTableV1_8
	case BlockV1_13:
		return blockTableV1_13
	case BlockV1_14, BlockV1_16, BlockV1_18, BlockV1_20:
		return blockTableFlattened
	default:
		return blockTableFlattened
	}
}

var blockTableV1_8 = newBlockTable(map[int32]int32{
	LatestAir:    legacyBlock(0, 0),
	LatestStone:  legacyBlock(1, 0),
	LatestOakLog: legacyBlock(17, 0),
	OakStairsState(FacingEast, HalfBottom):  legacyBlock(53, 0),
	OakStairsState(FacingWest, HalfBottom):  legacyBlock(53, 1),
	OakStairsState(FacingSouth, HalfBottom): legacyBlock(53, 2),
	OakStairsState(FacingNorth, HalfBottom): legacyBlock(53, 3),
	OakStairsState(FacingEast, HalfTop):     legacyBlock(53, 4),
	OakStairsState(FacingWest, HalfTop):     legacyBlock(53, 5),
	OakStairsState(FacingSouth, HalfTop):    legacyBlock(53, 6),
	OakStairsState(FacingNorth, HalfTop):    legacyBlock(53, 7),
}, legacyBlock(1, 0))

// BlockV1_13 flattened the palette into single state IDs, but assigned
// different numeric ranges than later versions because new blocks were
// inserted between 1.13 and 1.14; modeled here with its own table
// rather than reusing blockTableFlattened.
var blockTableV1_13 = newBlockTable(map[int32]int32{
	LatestAir:    0,
	LatestStone:  1,
	LatestOakLog: 30,
	OakStairsState(FacingEast, HalfBottom):  40,
	OakStairsState(FacingWest, HalfBottom):  41,
	OakStairsState(FacingSouth, HalfBottom): 42,
	OakStairsState(FacingNorth, HalfBottom): 43,
	OakStairsState(FacingEast, HalfTop):     44,
	OakStairsState(FacingWest, HalfTop):     45,
	OakStairsState(FacingSouth, HalfTop):    46,
	OakStairsState(FacingNorth, HalfTop):    47,
}, 1)

// blockTableFlattened serves 1.14, 1.16, 1.18 and 1.20: these versions
// keep growing the global palette but never renumber the IDs this
// table cares about, so one table can serve all four block versions
// here.
var blockTableFlattened = newBlockTable(map[int32]int32{
	LatestAir:    0,
	LatestStone:  1,
	LatestOakLog: 50,
	OakStairsState(FacingEast, HalfBottom):  200,
	OakStairsState(FacingWest, HalfBottom):  201,
	OakStairsState(FacingSouth, HalfBottom): 202,
	OakStairsState(FacingNorth, HalfBottom): 203,
	OakStairsState(FacingEast, HalfTop):     204,
	OakStairsState(FacingWest, HalfTop):     205,
	OakStairsState(FacingSouth, HalfTop):    206,
	OakStairsState(FacingNorth, HalfTop):    207,
}, 1)
