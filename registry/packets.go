package registry

import "github.com/bamboo-mc/bamboo/proto"

// Direction distinguishes clientbound from serverbound wire IDs, which
// are independently numbered per spec §4.4 ("wire IDs are reused across
// states" and, within a state, across direction).
type Direction uint8

const (
	Serverbound Direction = iota
	Clientbound
)

// State mirrors the four-state connection lifecycle (spec §3), used
// here only as a lookup key, not as the conn package's own state type.
type State uint8

const (
	StateHandshaking State = iota
	StateStatus
	StateLogin
	StatePlay
)

type packetKey struct {
	version   ProtocolVersion
	state     State
	dir       Direction
	wireID    int32
}

type kindKey struct {
	version ProtocolVersion
	state   State
	dir     Direction
	kind    proto.Kind
}

// kindToWire and wireToKind map canonical kinds to wire IDs and back,
// per spec §4.3's packet_id_for / kind_for pair: two package-wide maps
// keyed by protocol version, state and direction, filled at init time.
var (
	kindToWire = map[kindKey]int32{}
	wireToKind = map[packetKey]proto.Kind{}
)

func register(version ProtocolVersion, state State, dir Direction, wireID int32, kind proto.Kind) {
	kindToWire[kindKey{version, state, dir, kind}] = wireID
	wireToKind[packetKey{version, state, dir, wireID}] = kind
}

func init() {
	for _, v := range Supported {
		register(v, StateHandshaking, Serverbound, 0x00, proto.KindHandshake)

		register(v, StateStatus, Serverbound, 0x00, proto.KindStatusRequest)
		register(v, StateStatus, Serverbound, 0x01, proto.KindPing)
		register(v, StateStatus, Clientbound, 0x00, proto.KindStatusResponse)
		register(v, StateStatus, Clientbound, 0x01, proto.KindPong)

		register(v, StateLogin, Serverbound, 0x00, proto.KindLoginStart)
		register(v, StateLogin, Serverbound, 0x01, proto.KindEncryptionResponse)
		register(v, StateLogin, Clientbound, 0x00, proto.KindDisconnect)
		register(v, StateLogin, Clientbound, 0x01, proto.KindEncryptionRequest)
		register(v, StateLogin, Clientbound, 0x02, proto.KindLoginSuccess)
		register(v, StateLogin, Clientbound, 0x03, proto.KindSetCompression)
	}

	// Play-state wire IDs are where versions actually diverge; these are
	// the subset exercised by the codec package's version families.
	registerPlayIDsV1_8()
	registerPlayIDsV1_13()
	registerPlayIDsV1_14()
	registerPlayIDsV1_16()
	registerPlayIDsV1_18()
	registerPlayIDsV1_20()
}

func registerPlayIDsV1_8() {
	v := V1_8
	register(v, StatePlay, Clientbound, 0x00, proto.KindKeepAliveClientbound)
	register(v, StatePlay, Clientbound, 0x01, proto.KindJoinGame)
	register(v, StatePlay, Clientbound, 0x21, proto.KindChunkData)
	register(v, StatePlay, Clientbound, 0x23, proto.KindBlockChange)
	register(v, StatePlay, Clientbound, 0x3F, proto.KindPluginMessage)
	register(v, StatePlay, Serverbound, 0x00, proto.KindKeepAliveServerbound)
	register(v, StatePlay, Serverbound, 0x17, proto.KindPluginMessage)
}

func registerPlayIDsV1_13() {
	v := V1_13
	register(v, StatePlay, Clientbound, 0x1F, proto.KindKeepAliveClientbound)
	register(v, StatePlay, Clientbound, 0x25, proto.KindJoinGame)
	register(v, StatePlay, Clientbound, 0x22, proto.KindChunkData)
	register(v, StatePlay, Clientbound, 0x0B, proto.KindBlockChange)
	register(v, StatePlay, Clientbound, 0x19, proto.KindPluginMessage)
	register(v, StatePlay, Serverbound, 0x0E, proto.KindKeepAliveServerbound)
	register(v, StatePlay, Serverbound, 0x0A, proto.KindPluginMessage)
}

func registerPlayIDsV1_14() {
	v := V1_14
	register(v, StatePlay, Clientbound, 0x20, proto.KindKeepAliveClientbound)
	register(v, StatePlay, Clientbound, 0x25, proto.KindJoinGame)
	register(v, StatePlay, Clientbound, 0x21, proto.KindChunkData)
	register(v, StatePlay, Clientbound, 0x0B, proto.KindBlockChange)
	register(v, StatePlay, Clientbound, 0x18, proto.KindPluginMessage)
	register(v, StatePlay, Serverbound, 0x0F, proto.KindKeepAliveServerbound)
	register(v, StatePlay, Serverbound, 0x0B, proto.KindPluginMessage)
}

func registerPlayIDsV1_16() {
	v := V1_16
	register(v, StatePlay, Clientbound, 0x1F, proto.KindKeepAliveClientbound)
	register(v, StatePlay, Clientbound, 0x24, proto.KindJoinGame)
	register(v, StatePlay, Clientbound, 0x20, proto.KindChunkData)
	register(v, StatePlay, Clientbound, 0x0B, proto.KindBlockChange)
	register(v, StatePlay, Clientbound, 0x17, proto.KindPluginMessage)
	register(v, StatePlay, Serverbound, 0x10, proto.KindKeepAliveServerbound)
	register(v, StatePlay, Serverbound, 0x0A, proto.KindPluginMessage)
}

func registerPlayIDsV1_18() {
	v := V1_18
	register(v, StatePlay, Clientbound, 0x21, proto.KindKeepAliveClientbound)
	register(v, StatePlay, Clientbound, 0x26, proto.KindJoinGame)
	register(v, StatePlay, Clientbound, 0x22, proto.KindChunkData)
	register(v, StatePlay, Clientbound, 0x0C, proto.KindBlockChange)
	register(v, StatePlay, Clientbound, 0x18, proto.KindPluginMessage)
	register(v, StatePlay, Serverbound, 0x0F, proto.KindKeepAliveServerbound)
	register(v, StatePlay, Serverbound, 0x0A, proto.KindPluginMessage)
}

func registerPlayIDsV1_20() {
	v := V1_20
	register(v, StatePlay, Clientbound, 0x23, proto.KindKeepAliveClientbound)
	register(v, StatePlay, Clientbound, 0x28, proto.KindJoinGame)
	register(v, StatePlay, Clientbound, 0x24, proto.KindChunkData)
	register(v, StatePlay, Clientbound, 0x0C, proto.KindBlockChange)
	register(v, StatePlay, Clientbound, 0x18, proto.KindPluginMessage)
	register(v, StatePlay, Serverbound, 0x12, proto.KindKeepAliveServerbound)
	register(v, StatePlay, Serverbound, 0x0D, proto.KindPluginMessage)
}

// PacketIDFor returns the wire ID a version uses for a canonical kind
// in the given state and direction (spec §4.3 packet_id_for).
func PacketIDFor(version ProtocolVersion, state State, dir Direction, kind proto.Kind) (int32, bool) {
	id, ok := kindToWire[kindKey{version, state, dir, kind}]
	return id, ok
}

// KindFor is the inverse lookup (spec §4.3 kind_for); the caller treats
// a false ok as UnknownPacket (non-fatal, ignored) per spec §7.
func KindFor(version ProtocolVersion, state State, dir Direction, wireID int32) (proto.Kind, bool) {
	k, ok := wireToKind[packetKey{version, state, dir, wireID}]
	return k, ok
}
