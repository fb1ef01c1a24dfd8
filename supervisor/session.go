package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	connpkg "github.com/bamboo-mc/bamboo/conn"
	"github.com/bamboo-mc/bamboo/metrics"
	"github.com/bamboo-mc/bamboo/proto"
	"github.com/bamboo-mc/bamboo/transfer"
)

// errRateLimited aborts a login attempt the LoginLimiter rejected.
var errRateLimited = errors.New("supervisor: login rate limited")

// session owns one client connection's state machine, cipher state,
// and compression state for its entire lifetime on a single goroutine
// (spec §6.7's "session supervisor worker"). Once in Play it relays
// raw frames to and from the shared backend link by connection ID,
// the same passthrough shape as the teacher's io.Copy-based proxying,
// carried over transfer's schema-tagged records instead of a bare
// socket splice.
type session struct {
	pool   *Pool
	conn   *connpkg.Conn
	connID transfer.ConnID

	outbound chan transfer.ServerPacket
	touch    chan struct{}
	closed   chan struct{}
}

func (p *Pool) handleConn(raw rawConn) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ConnectionsTotal.WithLabelValues("panic").Inc()
			log.Error().Str("remote", raw.RemoteAddr().String()).Any("panic", r).Msg("recovered panic handling connection")
		}
	}()

	c := connpkg.New(raw)
	defer c.Close()
	c.SetDeadline(time.Now().Add(connpkg.IOTimeout))

	hs, err := c.Handshake()
	if err != nil {
		metrics.ConnectionsTotal.WithLabelValues("bad_handshake").Inc()
		return
	}

	switch hs.Next {
	case proto.NextStatus:
		c.SetDeadline(time.Now().Add(connpkg.IOTimeout))
		if err := c.ServeStatus(p.cfg.StatusJSON); err != nil {
			metrics.ConnectionsTotal.WithLabelValues("status_error").Inc()
			return
		}
		metrics.ConnectionsTotal.WithLabelValues("status_ok").Inc()
	case proto.NextLogin:
		p.handleLogin(c)
	default:
		metrics.ConnectionsTotal.WithLabelValues("bad_handshake").Inc()
	}
}

func (p *Pool) handleLogin(c *connpkg.Conn) {
	if !p.backpressure.Allow() {
		_ = c.WritePacket(proto.Disconnect{Reason: `{"text":"Server is full, try again shortly"}`})
		metrics.ConnectionsTotal.WithLabelValues("backpressure").Inc()
		return
	}
	p.backpressure.Enter()
	metrics.Backpressure.Set(p.backpressure.Ratio())
	defer func() {
		p.backpressure.Leave()
		metrics.Backpressure.Set(p.backpressure.Ratio())
	}()

	loginCfg := p.cfg.Login
	loginCfg.OnUsername = func(username string) error {
		if !p.limiter.Allow(c.RemoteAddr(), username) {
			return errRateLimited
		}
		return nil
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	identity, err := c.Login(ctx, loginCfg)
	elapsed := time.Since(start).Seconds()
	onlineLabel := fmt.Sprintf("%v", loginCfg.OnlineMode)
	if err != nil {
		metrics.AuthLatencySeconds.WithLabelValues(onlineLabel, "error").Observe(elapsed)
		metrics.ConnectionsTotal.WithLabelValues("login_failed").Inc()
		return
	}
	metrics.AuthLatencySeconds.WithLabelValues(onlineLabel, "ok").Observe(elapsed)

	sess := &session{
		pool:     p,
		conn:     c,
		connID:   p.nextConnID(),
		outbound: make(chan transfer.ServerPacket, 64),
		touch:    make(chan struct{}, 1),
		closed:   make(chan struct{}),
	}
	p.register(sess)
	defer p.unregister(sess)

	c.SetDeadline(time.Time{})
	metrics.PlayersConnected.WithLabelValues(p.cfg.BackendName).Inc()
	defer metrics.PlayersConnected.WithLabelValues(p.cfg.BackendName).Dec()

	if err := p.link.SendNewConnection(transfer.NewConnection{
		ConnID:     sess.connID,
		UUID:       identity.UUID,
		Username:   identity.Username,
		Version:    int32(c.Version),
		RemoteAddr: c.RemoteAddr().String(),
	}); err != nil {
		metrics.ConnectionsTotal.WithLabelValues("backend_unreachable").Inc()
		return
	}
	defer func() {
		_ = p.link.SendRemoveConnection(transfer.RemoveConnection{ConnID: sess.connID, Reason: "disconnected"})
	}()

	metrics.ConnectionsTotal.WithLabelValues("play").Inc()
	sess.relay()
}

// relay runs the Play-state passthrough loop: client frames go to the
// backend link as-is, and backend frames addressed to this connection
// (delivered by the pool's shared link dispatcher into sess.outbound)
// go to the client as-is. Also drives the keepalive timer the same way
// conn.KeepAliveLoop is meant to be driven.
func (s *session) relay() {
	keepAlive := connpkg.NewKeepAliveLoop(s.conn)
	ticker := time.NewTicker(connpkg.KeepAliveInterval)
	defer ticker.Stop()

	readErr := make(chan error, 1)
	go s.readClientLoop(readErr)

	for {
		select {
		case err := <-readErr:
			if err != nil {
				log.Debug().Int32("conn_id", int32(s.connID)).Err(err).Msg("client read ended")
			}
			return
		case out := <-s.outbound:
			if err := s.conn.WriteRaw(out.WireID, out.Body); err != nil {
				return
			}
		case <-s.touch:
			keepAlive.Touch()
		case <-ticker.C:
			ok, err := keepAlive.Tick(time.Now().UnixNano())
			if err != nil {
				return
			}
			if !ok {
				_ = s.conn.WritePacket(proto.Disconnect{Reason: `{"text":"Timed out"}`})
				return
			}
		case <-s.closed:
			return
		}
	}
}

func (s *session) readClientLoop(done chan<- error) {
	for {
		wireID, body, err := s.conn.ReadRaw()
		if err != nil {
			done <- err
			return
		}
		select {
		case s.touch <- struct{}{}:
		default:
		}
		if err := s.pool.link.SendClientPacket(transfer.ClientPacket{
			ConnID: s.connID,
			WireID: wireID,
			Body:   body,
		}); err != nil {
			done <- err
			return
		}
	}
}
