// Package supervisor is the session supervisor worker pool (spec §6.7,
// C7): a fixed number of goroutines, one per logical CPU by default,
// each pulling accepted connections off a shared channel and owning a
// session's entire Handshake -> Status/Login -> Play lifecycle on that
// one goroutine. Idiomatic Go networking already gives ready-driven,
// cheap per-connection concurrency without hand-rolled epoll, so this
// is Go's rendition of the spec's OS-level event poller design, per
// the design notes' explicit permission for that substitution. Grounded
// on worker.WorkerManager's fixed-size pool of BasicWorker goroutines
// (worker/worker_manager.go), generalized from per-domain routing to
// per-connection session ownership with the backpressure gate
// module/conn_limiter.go modeled for rate limiting.
package supervisor

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	connpkg "github.com/bamboo-mc/bamboo/conn"
	"github.com/bamboo-mc/bamboo/transfer"
)

// rawConn is the subset of net.Conn the pool needs from an accepted
// connection; satisfied directly by net.Conn, kept narrow so tests can
// supply lighter fakes.
type rawConn interface {
	net.Conn
}

// Config bundles everything a session needs that doesn't vary
// per-connection: how to answer Status, how to run Login, which
// backend link to multiplex onto, and the gates gating admission.
type Config struct {
	StatusJSON  func() string
	Login       connpkg.LoginConfig
	BackendName string

	Workers         int
	BackpressureHi  int64
	BackpressureLo  int64
	LoginRateLimit  int
}

// Pool owns the accept loop, the fixed worker goroutines, the shared
// backend link, and the connection-ID -> session registry used to
// demultiplex the link's inbound ServerPacket/DisconnectConnection
// records back to the right client.
type Pool struct {
	cfg Config

	link         *transfer.Link
	backpressure *Backpressure
	limiter      *LoginLimiter

	reqCh chan rawConn

	mu       sync.Mutex
	sessions map[transfer.ConnID]*session

	connIDSeq atomic.Int32
}

// NewPool builds a pool bound to an already-connected backend link.
// Start runs a single worker when cfg.Workers <= 0; cmd/bb_proxy turns
// a zero setting into runtime.NumCPU() before calling, so tests can pin
// a small, deterministic value instead.
func NewPool(link *transfer.Link, cfg Config) *Pool {
	p := &Pool{
		cfg:          cfg,
		link:         link,
		backpressure: NewBackpressure(cfg.BackpressureHi, cfg.BackpressureLo),
		limiter:      NewLoginLimiter(cfg.LoginRateLimit, loginRateCooldown, loginUnverifyWait, loginBanDuration),
		reqCh:        make(chan rawConn, 64),
		sessions:     make(map[transfer.ConnID]*session),
	}
	return p
}

// Start launches the fixed worker goroutines and the backend link's
// dispatch loop. Accept connections separately via Serve.
func (p *Pool) Start() {
	workers := p.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	go p.dispatchLink()
}

func (p *Pool) worker() {
	for c := range p.reqCh {
		p.handleConn(c)
	}
}

// Serve accepts connections from listener and feeds them to the
// worker pool until the listener errors (typically on Close).
func (p *Pool) Serve(listener net.Listener) error {
	for {
		c, err := listener.Accept()
		if err != nil {
			return err
		}
		p.reqCh <- c
	}
}

// dispatchLink runs the backend link's single read loop, routing each
// envelope to the session it addresses. One link serves every session
// in this pool, so this is the only goroutine that reads it.
func (p *Pool) dispatchLink() {
	err := p.link.Serve(func(env transfer.Envelope) error {
		switch m := env.Message.(type) {
		case transfer.ServerPacket:
			if sess := p.lookup(m.ConnID); sess != nil {
				select {
				case sess.outbound <- m:
				default:
					log.Warn().Int32("conn_id", int32(m.ConnID)).Msg("outbound queue full, dropping frame")
				}
			}
		case transfer.DisconnectConnection:
			if sess := p.lookup(m.ConnID); sess != nil {
				close(sess.closed)
			}
		case transfer.Heartbeat:
			// no-op; receiving one is enough to prove the link is alive
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("backend link closed")
	}
}

func (p *Pool) nextConnID() transfer.ConnID {
	return transfer.ConnID(p.connIDSeq.Add(1))
}

func (p *Pool) register(s *session) {
	p.mu.Lock()
	p.sessions[s.connID] = s
	p.mu.Unlock()
}

func (p *Pool) unregister(s *session) {
	p.mu.Lock()
	delete(p.sessions, s.connID)
	p.mu.Unlock()
}

func (p *Pool) lookup(id transfer.ConnID) *session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessions[id]
}
