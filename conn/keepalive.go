package conn

import (
	"time"

	"github.com/bamboo-mc/bamboo/proto"
)

// KeepAliveInterval and KeepAliveTimeout match vanilla's own values: a
// clientbound nonce every 10 seconds, and the connection is considered
// dead if no matching serverbound reply arrives within 30 (spec §4.5
// Play-state invariant).
const (
	KeepAliveInterval = 10 * time.Second
	KeepAliveTimeout  = 30 * time.Second
)

// KeepAliveLoop is the keepalive bookkeeping for one Play-state
// connection. It starts no goroutine of its own: the caller calls Tick
// about every KeepAliveInterval to send a fresh nonce, and the
// connection's read loop calls Ack for serverbound KeepAlive replies and
// Touch for any other traffic. Tick reports ok=false once the client has
// been silent for longer than KeepAliveTimeout, which the caller treats
// as "close this connection".
type KeepAliveLoop struct {
	conn     *Conn
	lastSeen time.Time
	pending  map[int64]struct{}
}

// NewKeepAliveLoop starts the bookkeeping for a connection that has
// just entered Play state.
func NewKeepAliveLoop(c *Conn) *KeepAliveLoop {
	return &KeepAliveLoop{conn: c, lastSeen: time.Now(), pending: make(map[int64]struct{})}
}

// Touch records that some packet was just seen from the client,
// resetting the liveness clock independent of keepalive nonces (many
// real clients send keepalive replies late if they're busy rendering,
// but any other traffic proves they're still connected).
func (k *KeepAliveLoop) Touch() { k.lastSeen = time.Now() }

// Ack records a serverbound KeepAlive reply matching a nonce this loop
// sent, clearing it from the pending set.
func (k *KeepAliveLoop) Ack(nonce int64) {
	delete(k.pending, nonce)
	k.Touch()
}

// Tick should be called roughly every KeepAliveInterval; it sends a
// fresh nonce and reports ok=false once the client has been silent for
// longer than KeepAliveTimeout.
func (k *KeepAliveLoop) Tick(nonce int64) (ok bool, err error) {
	if time.Since(k.lastSeen) > KeepAliveTimeout {
		return false, nil
	}
	k.pending[nonce] = struct{}{}
	if err := k.conn.WritePacket(proto.KeepAliveClientbound{Nonce: nonce}); err != nil {
		return true, err
	}
	return true, nil
}
