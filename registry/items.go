package registry

// Canonical item IDs, same generated-table stand-in rationale as blocks.go.
const (
	LatestEmptyItem int32 = 0
	LatestStick     int32 = 1
	LatestDiamond   int32 = 2
)

// ItemTable behaves identically to BlockTable (spec §4.3: "Item tables
// behave identically"), with the empty stack as its fallback sentinel.
type ItemTable struct {
	toLatest  map[int32]int32
	toVersion map[int32]int32
}

func (t *ItemTable) ToLatestItem(versionID int32) int32 {
	if lid, ok := t.toLatest[versionID]; ok {
		return lid
	}
	return LatestEmptyItem
}

func (t *ItemTable) ToVersionItem(latestID int32) int32 {
	if vid, ok := t.toVersion[latestID]; ok {
		return vid
	}
	return 0
}

func newItemTable(pairs map[int32]int32) *ItemTable {
	t := &ItemTable{toLatest: make(map[int32]int32, len(pairs)), toVersion: make(map[int32]int32, len(pairs))}
	for latest, version := range pairs {
		t.toVersion[latest] = version
		t.toLatest[version] = latest
	}
	return t
}

func ItemTableFor(bv BlockVersion) *ItemTable {
	switch bv {
	case BlockV1_8:
		return itemTableV1_8
	default:
		return itemTableModern
	}
}

var itemTableV1_8 = newItemTable(map[int32]int32{
	LatestEmptyItem: 0,
	LatestStick:     280,
	LatestDiamond:   264,
})

var itemTableModern = newItemTable(map[int32]int32{
	LatestEmptyItem: 0,
	LatestStick:     600,
	LatestDiamond:   601,
})
