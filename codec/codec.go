// Package codec turns wire bytes for one packet, plus the connection's
// negotiated protocol version and state, into a canonical proto.Packet
// and back (spec §4.4, C4). Handshake/status/login framing is identical
// across every supported version so it lives once in this package;
// per-version subpackages (v1_8, v1_13, v1_14, v1_16, v1_18, v1_20) hold only
// the play-state codecs where versions actually diverge.
package codec

import (
	"bytes"
	"fmt"

	"github.com/bamboo-mc/bamboo/proto"
	"github.com/bamboo-mc/bamboo/registry"
	"github.com/bamboo-mc/bamboo/wire"
)

// ErrUnknownPacket is returned by Decode for a wire ID this build has no
// mapping for; callers treat it as non-fatal per spec §7 and skip the
// packet rather than closing the connection.
var ErrUnknownPacket = fmt.Errorf("codec: unknown packet")

// PlayCodec is implemented once per version family and handles only the
// play-state packets that differ across versions (chunk sections, block
// state IDs, position packing, play-state wire IDs).
type PlayCodec interface {
	Decode(kind proto.Kind, body []byte) (proto.Packet, error)
	Encode(pkt proto.Packet) ([]byte, error)
}

var playCodecs = map[registry.ProtocolVersion]PlayCodec{}

// Register is called from each version subpackage's init() to install
// its PlayCodec, keeping codec itself free of a direct import cycle
// against codec/v1_8 etc.
func Register(version registry.ProtocolVersion, c PlayCodec) {
	playCodecs[version] = c
}

func playCodecFor(version registry.ProtocolVersion) (PlayCodec, bool) {
	c, ok := playCodecs[version]
	return c, ok
}

// Decode reads one packet body (post frame/compression/decryption,
// spec §4.4 pipeline) into a canonical packet, given the wire ID the
// state machine read off the front of the body.
func Decode(version registry.ProtocolVersion, state registry.State, dir registry.Direction, wireID int32, body []byte) (proto.Packet, error) {
	kind, ok := registry.KindFor(version, state, dir, wireID)
	if !ok {
		return nil, ErrUnknownPacket
	}

	switch state {
	case registry.StateHandshaking:
		return decodeHandshake(body)
	case registry.StateStatus:
		return decodeStatus(kind, body)
	case registry.StateLogin:
		return decodeLogin(kind, body)
	case registry.StatePlay:
		pc, ok := playCodecFor(version)
		if !ok {
			return nil, fmt.Errorf("codec: no play codec registered for version %d", version)
		}
		return pc.Decode(kind, body)
	default:
		return nil, fmt.Errorf("codec: unknown state %d", state)
	}
}

// Encode writes a canonical packet's body and resolves its wire ID for
// the given version/state/direction. The caller (package conn) prefixes
// the returned body with the VarInt wire ID before framing.
func Encode(version registry.ProtocolVersion, state registry.State, dir registry.Direction, pkt proto.Packet) (wireID int32, body []byte, err error) {
	id, ok := registry.PacketIDFor(version, state, dir, pkt.Kind())
	if !ok {
		return 0, nil, fmt.Errorf("%w: %s has no wire ID in state %d for version %d", ErrUnknownPacket, pkt.Kind(), state, version)
	}

	if state == registry.StatePlay {
		pc, ok := playCodecFor(version)
		if !ok {
			return 0, nil, fmt.Errorf("codec: no play codec registered for version %d", version)
		}
		body, err = pc.Encode(pkt)
		return id, body, err
	}

	body, err = encodeCommon(pkt)
	return id, body, err
}

func decodeHandshake(body []byte) (proto.Packet, error) {
	r := bytes.NewReader(body)
	pv, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	addr, err := wire.ReadString(r, 255)
	if err != nil {
		return nil, err
	}
	port, err := wire.ReadInt16(r)
	if err != nil {
		return nil, err
	}
	next, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return proto.Handshake{
		ProtocolVersion: int32(pv),
		ServerAddress:   string(addr),
		ServerPort:      uint16(port),
		Next:            proto.NextState(next),
	}, nil
}

func decodeStatus(kind proto.Kind, body []byte) (proto.Packet, error) {
	r := bytes.NewReader(body)
	switch kind {
	case proto.KindStatusRequest:
		return proto.StatusRequest{}, nil
	case proto.KindPing:
		v, err := wire.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		return proto.Ping{Payload: v}, nil
	case proto.KindStatusResponse:
		j, err := wire.ReadString(r, 0)
		if err != nil {
			return nil, err
		}
		return proto.StatusResponse{JSON: string(j)}, nil
	case proto.KindPong:
		v, err := wire.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		return proto.Pong{Payload: v}, nil
	default:
		return nil, fmt.Errorf("%w: status kind %s", ErrUnknownPacket, kind)
	}
}

func decodeLogin(kind proto.Kind, body []byte) (proto.Packet, error) {
	r := bytes.NewReader(body)
	switch kind {
	case proto.KindLoginStart:
		name, err := wire.ReadString(r, 16)
		if err != nil {
			return nil, err
		}
		return proto.LoginStart{Username: string(name)}, nil
	case proto.KindEncryptionResponse:
		secret, err := wire.ReadByteArray(r)
		if err != nil {
			return nil, err
		}
		token, err := wire.ReadByteArray(r)
		if err != nil {
			return nil, err
		}
		return proto.EncryptionResponse{EncryptedSharedSecret: secret, EncryptedVerifyToken: token}, nil
	case proto.KindDisconnect:
		reason, err := wire.ReadString(r, 0)
		if err != nil {
			return nil, err
		}
		return proto.Disconnect{Reason: string(reason)}, nil
	case proto.KindEncryptionRequest:
		serverID, err := wire.ReadString(r, 20)
		if err != nil {
			return nil, err
		}
		pubKey, err := wire.ReadByteArray(r)
		if err != nil {
			return nil, err
		}
		token, err := wire.ReadByteArray(r)
		if err != nil {
			return nil, err
		}
		return proto.EncryptionRequest{ServerID: string(serverID), PublicKey: pubKey, VerifyToken: token}, nil
	case proto.KindLoginSuccess:
		id, err := wire.ReadUUID(r)
		if err != nil {
			return nil, err
		}
		name, err := wire.ReadString(r, 16)
		if err != nil {
			return nil, err
		}
		return proto.LoginSuccess{UUID: [16]byte(id), Username: string(name)}, nil
	case proto.KindSetCompression:
		v, err := wire.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		return proto.SetCompression{Threshold: int32(v)}, nil
	default:
		return nil, fmt.Errorf("%w: login kind %s", ErrUnknownPacket, kind)
	}
}

func encodeCommon(pkt proto.Packet) ([]byte, error) {
	var buf bytes.Buffer
	switch p := pkt.(type) {
	case proto.Handshake:
		buf.Write(wire.VarInt(p.ProtocolVersion).Encode())
		buf.Write(wire.String(p.ServerAddress).Encode())
		buf.Write(wire.EncodeInt16(int16(p.ServerPort)))
		buf.Write(wire.VarInt(p.Next).Encode())
	case proto.StatusRequest:
	case proto.Ping:
		buf.Write(wire.EncodeInt64(p.Payload))
	case proto.StatusResponse:
		buf.Write(wire.String(p.JSON).Encode())
	case proto.Pong:
		buf.Write(wire.EncodeInt64(p.Payload))
	case proto.LoginStart:
		buf.Write(wire.String(p.Username).Encode())
	case proto.EncryptionResponse:
		buf.Write(wire.EncodeByteArray(p.EncryptedSharedSecret))
		buf.Write(wire.EncodeByteArray(p.EncryptedVerifyToken))
	case proto.Disconnect:
		buf.Write(wire.String(p.Reason).Encode())
	case proto.EncryptionRequest:
		buf.Write(wire.String(p.ServerID).Encode())
		buf.Write(wire.EncodeByteArray(p.PublicKey))
		buf.Write(wire.EncodeByteArray(p.VerifyToken))
	case proto.LoginSuccess:
		buf.Write(wire.UUID(p.UUID).Encode())
		buf.Write(wire.String(p.Username).Encode())
	case proto.SetCompression:
		buf.Write(wire.VarInt(p.Threshold).Encode())
	default:
		return nil, fmt.Errorf("codec: no common encoder for %T", pkt)
	}
	return buf.Bytes(), nil
}
