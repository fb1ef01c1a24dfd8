// Package registry holds the per-version block/item/packet-ID
// translation tables (spec §4.3, C3). Tables are built once at process
// start from literal Go data (standing in for the spec's build-time
// code generator over vanilla data dumps, which is explicitly out of
// scope) and are immutable afterward: no locks, no allocation on the
// lookup hot path.
package registry

// ProtocolVersion is the integer a client advertises in its Handshake.
type ProtocolVersion int32

// BlockVersion identifies which block/item table a protocol version
// resolves to; several protocol versions can share one block version
// when they didn't change the block palette.
type BlockVersion int32

const (
	V1_8  ProtocolVersion = 47
	V1_13 ProtocolVersion = 393
	V1_14 ProtocolVersion = 477
	V1_16 ProtocolVersion = 751
	V1_18 ProtocolVersion = 757
	V1_20 ProtocolVersion = 763

	BlockV1_8  BlockVersion = 8
	BlockV1_13 BlockVersion = 13
	BlockV1_14 BlockVersion = 14
	BlockV1_16 BlockVersion = 16
	BlockV1_18 BlockVersion = 18
	BlockV1_20 BlockVersion = 20
)

// Supported lists every protocol version this build understands, in
// ascending order; Resolve returns ok=false for anything else.
var Supported = []ProtocolVersion{V1_8, V1_13, V1_14, V1_16, V1_18, V1_20}

var blockVersionOf = map[ProtocolVersion]BlockVersion{
	V1_8:  BlockV1_8,
	V1_13: BlockV1_13,
	V1_14: BlockV1_14,
	V1_16: BlockV1_16,
	V1_18: BlockV1_18,
	V1_20: BlockV1_20,
}

// Resolve maps a wire protocol version to the block version whose
// tables it should use, and reports whether the version is supported
// at all.
func Resolve(v ProtocolVersion) (BlockVersion, bool) {
	bv, ok := blockVersionOf[v]
	return bv, ok
}

// IsSupported reports whether v is one this build can serve.
func IsSupported(v ProtocolVersion) bool {
	_, ok := blockVersionOf[v]
	return ok
}
