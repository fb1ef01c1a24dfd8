package conn

import (
	"fmt"

	"github.com/bamboo-mc/bamboo/codec"
	"github.com/bamboo-mc/bamboo/proto"
	"github.com/bamboo-mc/bamboo/registry"
)

// ErrUnsupportedVersion is returned by Handshake when the client's
// declared protocol version is not in registry.Supported (spec §4.5 edge
// case: "handshake declares an unsupported protocol version").
var ErrUnsupportedVersion = fmt.Errorf("conn: unsupported protocol version")

// Handshake reads the client's first packet, records the negotiated
// version and requested next state, and advances c.State accordingly.
// The handshake body's shape is identical across every supported
// version, so it decodes against an arbitrary registered version
// (registry.V1_8) before c.Version is known.
func (c *Conn) Handshake() (proto.Handshake, error) {
	wireID, body, err := c.ReadRaw()
	if err != nil {
		return proto.Handshake{}, fmt.Errorf("conn: reading handshake: %w", err)
	}
	if wireID != 0 {
		return proto.Handshake{}, fmt.Errorf("conn: handshake wire id %d, want 0", wireID)
	}

	decoded, err := codec.Decode(registry.V1_8, registry.StateHandshaking, registry.Serverbound, 0, body)
	if err != nil {
		return proto.Handshake{}, fmt.Errorf("conn: decoding handshake: %w", err)
	}
	pkt := decoded.(proto.Handshake)

	version := registry.ProtocolVersion(pkt.ProtocolVersion)
	if !registry.IsSupported(version) {
		return pkt, fmt.Errorf("%w: %d", ErrUnsupportedVersion, pkt.ProtocolVersion)
	}
	c.Version = version

	switch pkt.Next {
	case proto.NextStatus:
		c.State = Status
	case proto.NextLogin:
		c.State = Login
	default:
		return pkt, fmt.Errorf("conn: handshake requested invalid next state %d", pkt.Next)
	}
	return pkt, nil
}
