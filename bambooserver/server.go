// Package bambooserver is the reference backend peer that speaks the
// transfer protocol (C6) well enough to exercise the proxy's login,
// relay, and keepalive logic end to end. Per spec §8's non-goals it is
// explicitly not a game server: it answers JoinGame with a tiny flat
// world (one all-stone chunk at spawn) and otherwise just accounts for
// connected sessions, the same scope the teacher's own backend worker
// had (it never simulated gameplay either — it only ever proxied bytes
// to a real downstream server).
package bambooserver

import (
	"net"

	"github.com/rs/zerolog/log"

	"github.com/bamboo-mc/bamboo/codec"
	_ "github.com/bamboo-mc/bamboo/codec/v1_13"
	_ "github.com/bamboo-mc/bamboo/codec/v1_14"
	_ "github.com/bamboo-mc/bamboo/codec/v1_16"
	_ "github.com/bamboo-mc/bamboo/codec/v1_18"
	_ "github.com/bamboo-mc/bamboo/codec/v1_20"
	_ "github.com/bamboo-mc/bamboo/codec/v1_8"
	"github.com/bamboo-mc/bamboo/proto"
	"github.com/bamboo-mc/bamboo/registry"
	"github.com/bamboo-mc/bamboo/transfer"
)

// Server accepts transfer links from one or more proxies (the
// distilled spec describes a single proxy-to-server link, but nothing
// stops a second proxy process from dialing in, so this stays
// multi-link rather than assuming exactly one).
type Server struct {
	MOTD string
	// MaxPlayers caps concurrent sessions on each link separately (every
	// link keeps its own player set); negative disables the cap.
	MaxPlayers int
}

func New(motd string, maxPlayers int) *Server {
	return &Server{MOTD: motd, MaxPlayers: maxPlayers}
}

// Serve accepts transfer links on listener until it errors or closes.
func (s *Server) Serve(listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			return err
		}
		go s.ServeConn(conn)
	}
}

// ServeConn runs one transfer link to completion; exported so tests
// and single-link embedders can drive it directly without a listener.
func (s *Server) ServeConn(conn net.Conn) {
	s.serveLink(transfer.NewLink(conn))
}

type playerSession struct {
	username string
	version  registry.ProtocolVersion
}

func (s *Server) serveLink(link *transfer.Link) {
	defer link.Close()
	players := make(map[transfer.ConnID]*playerSession)

	err := link.Serve(func(env transfer.Envelope) error {
		switch m := env.Message.(type) {
		case transfer.NewConnection:
			if s.MaxPlayers >= 0 && len(players) >= s.MaxPlayers {
				return link.SendDisconnectConnection(transfer.DisconnectConnection{
					ConnID: m.ConnID,
					Reason: `{"text":"` + s.MOTD + ` is full"}`,
				})
			}
			sess := &playerSession{username: m.Username, version: registry.ProtocolVersion(m.Version)}
			players[m.ConnID] = sess
			log.Info().Str("username", m.Username).Int32("conn_id", int32(m.ConnID)).Msg("player joined")
			return s.sendJoinGame(link, m.ConnID, sess)
		case transfer.RemoveConnection:
			delete(players, m.ConnID)
			log.Info().Int32("conn_id", int32(m.ConnID)).Str("reason", m.Reason).Msg("player left")
		case transfer.ClientPacket:
			s.handleClientPacket(m, players[m.ConnID])
		case transfer.Heartbeat:
			// link alive; nothing to do
		}
		return nil
	})
	if err != nil {
		log.Debug().Err(err).Msg("transfer link closed")
	}
}

func (s *Server) sendJoinGame(link *transfer.Link, id transfer.ConnID, sess *playerSession) error {
	if err := s.sendPacket(link, id, sess.version, proto.JoinGame{
		EntityID:  1,
		Dimension: "minecraft:overworld",
		ViewDist:  10,
	}); err != nil {
		return err
	}
	return s.sendPacket(link, id, sess.version, spawnChunk())
}

// spawnChunk is a single all-stone section at the origin, just enough
// for a client to stop seeing the void while it waits.
func spawnChunk() proto.ChunkData {
	blocks := make([]int32, 16*16*16)
	for i := range blocks {
		blocks[i] = 1 // canonical stone state ID, per registry's block table
	}
	return proto.ChunkData{
		ChunkX:   0,
		ChunkZ:   0,
		Sections: []proto.ChunkSection{{BlockStates: blocks, NonAirCount: int32(len(blocks))}},
	}
}

func (s *Server) handleClientPacket(m transfer.ClientPacket, sess *playerSession) {
	if sess == nil {
		return
	}
	pkt, err := codec.Decode(sess.version, registry.StatePlay, registry.Serverbound, m.WireID, m.Body)
	if err != nil || pkt == nil {
		return
	}
	switch p := pkt.(type) {
	case proto.KeepAliveServerbound:
		log.Debug().Int32("conn_id", int32(m.ConnID)).Int64("nonce", p.Nonce).Msg("keepalive ack")
	case proto.PlayerPositionLook:
		// Reference peer: position tracked nowhere since there is no
		// world simulation to react to it (spec §8 non-goals).
		_ = p
	}
}

func (s *Server) sendPacket(link *transfer.Link, id transfer.ConnID, version registry.ProtocolVersion, pkt proto.Packet) error {
	wireID, body, err := codec.Encode(version, registry.StatePlay, registry.Clientbound, pkt)
	if err != nil {
		return err
	}
	return link.SendServerPacket(transfer.ServerPacket{ConnID: id, WireID: wireID, Body: body})
}
