package codec

import (
	"bytes"
	"fmt"

	"github.com/bamboo-mc/bamboo/proto"
	"github.com/bamboo-mc/bamboo/registry"
	"github.com/bamboo-mc/bamboo/wire"
)

// GenericPlayCodec implements PlayCodec for the play-state packets that
// only vary across versions in two axes: block-position packing
// (legacy vs modern, spec §4.4.2) and block-state representation
// (legacy ID+meta vs flattened, spec §4.4.1/§4.4.3). Every version
// subpackage builds one of these with its own axis choices rather than
// reimplementing KeepAlive/JoinGame/BlockChange/PluginMessage six times.
type GenericPlayCodec struct {
	Blocks        *registry.BlockTable
	ModernPos     bool // true: 1.14+ position packing; false: 1.8-1.13
	PalettedChunk bool // true: 1.13+ paletted container; false: legacy flat array
	// CompactedPalette selects the 1.16+ packed-long layout (entries may
	// straddle a 64-bit boundary) over the pre-1.16 padded layout (spec
	// §8 scenario 5). Meaningless when PalettedChunk is false.
	CompactedPalette bool
}

func (c GenericPlayCodec) encodePosition(p proto.Position) int64 {
	wp := wire.Position{X: p.X, Y: p.Y, Z: p.Z}
	if c.ModernPos {
		return wp.EncodeModern()
	}
	return wp.EncodeLegacy()
}

func (c GenericPlayCodec) decodePosition(v int64) proto.Position {
	var wp wire.Position
	if c.ModernPos {
		wp = wire.DecodeModernPosition(v)
	} else {
		wp = wire.DecodeLegacyPosition(v)
	}
	return proto.Position{X: wp.X, Y: wp.Y, Z: wp.Z}
}

func (c GenericPlayCodec) Decode(kind proto.Kind, body []byte) (proto.Packet, error) {
	r := bytes.NewReader(body)
	switch kind {
	case proto.KindKeepAliveServerbound:
		v, err := readKeepAliveNonce(r)
		if err != nil {
			return nil, err
		}
		return proto.KeepAliveServerbound{Nonce: v}, nil
	case proto.KindKeepAliveClientbound:
		v, err := readKeepAliveNonce(r)
		if err != nil {
			return nil, err
		}
		return proto.KeepAliveClientbound{Nonce: v}, nil
	case proto.KindPluginMessage:
		ch, err := wire.ReadString(r, 32767)
		if err != nil {
			return nil, err
		}
		data, err := wire.ReadByteArray(r)
		if err != nil {
			return nil, err
		}
		return proto.PluginMessage{Channel: string(ch), Data: data}, nil
	case proto.KindPlayerPositionLook:
		x, err := wire.ReadFloat64(r)
		if err != nil {
			return nil, err
		}
		y, err := wire.ReadFloat64(r)
		if err != nil {
			return nil, err
		}
		z, err := wire.ReadFloat64(r)
		if err != nil {
			return nil, err
		}
		yaw, err := wire.ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		pitch, err := wire.ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		onGround, err := wire.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return proto.PlayerPositionLook{X: x, Y: y, Z: z, Yaw: yaw, Pitch: pitch, OnGround: onGround}, nil
	case proto.KindBlockChange:
		return c.DecodeBlockChange(body)
	case proto.KindJoinGame:
		entityID, err := wire.ReadInt32(r)
		if err != nil {
			return nil, err
		}
		hardcore, err := wire.ReadBool(r)
		if err != nil {
			return nil, err
		}
		dim, err := wire.ReadString(r, 0)
		if err != nil {
			return nil, err
		}
		viewDist, err := wire.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		reducedDbg, err := wire.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return proto.JoinGame{EntityID: entityID, Hardcore: hardcore, Dimension: string(dim), ViewDist: int32(viewDist), ReducedDbg: reducedDbg}, nil
	case proto.KindChunkData:
		chunkX, err := wire.ReadInt32(r)
		if err != nil {
			return nil, err
		}
		chunkZ, err := wire.ReadInt32(r)
		if err != nil {
			return nil, err
		}
		count, err := wire.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		sections, err := c.DecodeChunkSections(r, int(count))
		if err != nil {
			return nil, err
		}
		return proto.ChunkData{ChunkX: chunkX, ChunkZ: chunkZ, Sections: sections}, nil
	default:
		return nil, fmt.Errorf("%w: play kind %s", ErrUnknownPacket, kind)
	}
}

func (c GenericPlayCodec) Encode(pkt proto.Packet) ([]byte, error) {
	var buf bytes.Buffer
	switch p := pkt.(type) {
	case proto.KeepAliveClientbound:
		writeKeepAliveNonce(&buf, p.Nonce)
	case proto.JoinGame:
		buf.Write(wire.EncodeInt32(p.EntityID))
		buf.Write(wire.EncodeBool(p.Hardcore))
		buf.Write(wire.String(p.Dimension).Encode())
		buf.Write(wire.VarInt(p.ViewDist).Encode())
		buf.Write(wire.EncodeBool(p.ReducedDbg))
	case proto.ChunkData:
		buf.Write(wire.EncodeInt32(p.ChunkX))
		buf.Write(wire.EncodeInt32(p.ChunkZ))
		buf.Write(wire.VarInt(len(p.Sections)).Encode())
		for _, sec := range p.Sections {
			versionValues := make([]int32, len(sec.BlockStates))
			for i, latest := range sec.BlockStates {
				versionValues[i] = c.Blocks.ToVersionBlock(latest)
			}
			buf.Write(wire.EncodeInt16(int16(sec.NonAirCount)))
			if c.PalettedChunk {
				encodePalettedSection(&buf, versionValues, c.CompactedPalette)
			} else {
				encodeLegacySection(&buf, versionValues)
			}
		}
	case proto.BlockChange:
		pos := c.encodePosition(p.Position)
		buf.Write(wire.EncodeInt64(pos))
		buf.Write(wire.VarInt(c.Blocks.ToVersionBlock(p.BlockStateID)).Encode())
	case proto.PluginMessage:
		buf.Write(wire.String(p.Channel).Encode())
		buf.Write(wire.EncodeByteArray(p.Data))
	case proto.KeepAliveServerbound:
		writeKeepAliveNonce(&buf, p.Nonce)
	case proto.PlayerPositionLook:
		buf.Write(wire.EncodeFloat64(p.X))
		buf.Write(wire.EncodeFloat64(p.Y))
		buf.Write(wire.EncodeFloat64(p.Z))
		buf.Write(wire.EncodeFloat32(p.Yaw))
		buf.Write(wire.EncodeFloat32(p.Pitch))
		buf.Write(wire.EncodeBool(p.OnGround))
	default:
		return nil, fmt.Errorf("codec: no play encoder for %T", pkt)
	}
	return buf.Bytes(), nil
}

// DecodeChunkSections reads count sections off r in this codec's chunk
// format and resolves each version-local block ID to its canonical
// latest ID through Blocks, so callers always receive proto.ChunkSection
// in canonical form regardless of source version (spec §4.4.3).
func (c GenericPlayCodec) DecodeChunkSections(r *bytes.Reader, count int) ([]proto.ChunkSection, error) {
	out := make([]proto.ChunkSection, count)
	for i := 0; i < count; i++ {
		nonAir, err := wire.ReadInt16(r)
		if err != nil {
			return nil, err
		}
		var values []int32
		if c.PalettedChunk {
			values, err = decodePalettedSection(r, c.CompactedPalette)
		} else {
			values, err = decodeLegacySection(r)
		}
		if err != nil {
			return nil, err
		}
		latest := make([]int32, len(values))
		for j, v := range values {
			latest[j] = c.Blocks.ToLatestBlock(v)
		}
		out[i] = proto.ChunkSection{BlockStates: latest, NonAirCount: int32(nonAir)}
	}
	return out, nil
}

// DecodeBlockChange reads a BlockChange body, resolving the version's
// wire block ID to a canonical latest ID.
func (c GenericPlayCodec) DecodeBlockChange(body []byte) (proto.Packet, error) {
	r := bytes.NewReader(body)
	posRaw, err := wire.ReadInt64(r)
	if err != nil {
		return nil, err
	}
	stateID, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return proto.BlockChange{
		Position:     c.decodePosition(posRaw),
		BlockStateID: c.Blocks.ToLatestBlock(int32(stateID)),
	}, nil
}

func readKeepAliveNonce(r *bytes.Reader) (int64, error) {
	// 1.8 used a VarInt-sized nonce space framed as int32 on some
	// revisions and int64 from 1.12.2 onward; this build standardizes
	// on int64 since every supported version (1.8+ effectively means
	// 1.12.2+ for keepalive, per registry.Supported) uses it.
	return wire.ReadInt64(r)
}

func writeKeepAliveNonce(buf *bytes.Buffer, nonce int64) {
	buf.Write(wire.EncodeInt64(nonce))
}
