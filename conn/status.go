package conn

import (
	"fmt"

	"github.com/bamboo-mc/bamboo/proto"
)

// ServeStatus answers one status exchange: a StatusRequest/StatusResponse
// pair followed by an optional Ping/Pong, then closes (spec §4.1, §4.5:
// Status never advances to Play). statusJSON is called lazily so a
// caller like the status-cache module (module/status_cache.go in the
// teacher) can serve a cached string without conn knowing its shape.
func (c *Conn) ServeStatus(statusJSON func() string) error {
	req, err := c.ReadPacket()
	if err != nil {
		return fmt.Errorf("conn: reading status request: %w", err)
	}
	if _, ok := req.(proto.StatusRequest); !ok && req != nil {
		return fmt.Errorf("conn: expected StatusRequest, got %T", req)
	}

	if err := c.WritePacket(proto.StatusResponse{JSON: statusJSON()}); err != nil {
		return fmt.Errorf("conn: writing status response: %w", err)
	}

	pkt, err := c.ReadPacket()
	if err != nil {
		return fmt.Errorf("conn: reading ping: %w", err)
	}
	ping, ok := pkt.(proto.Ping)
	if !ok {
		// Some clients close right after StatusResponse without pinging.
		return nil
	}
	return c.WritePacket(proto.Pong{Payload: ping.Payload})
}
