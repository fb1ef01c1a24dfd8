// Package conn drives one client connection through the Handshaking ->
// Status/Login -> Play -> Closed lifecycle (spec §4.5, C5): frame
// I/O, optional encryption and compression, the login/auth sequence,
// and the keepalive timer once in Play. It is the proxy side of the
// wire; once a connection reaches Play it hands canonical packets to
// whatever forwards them to the backend (the supervisor, via package
// transfer), mirroring how the teacher's worker.BasicWorker reads a
// handshake off the raw conn before handing it to a backend channel.
package conn

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"time"

	bamboocipher "github.com/bamboo-mc/bamboo/cipher"
	"github.com/bamboo-mc/bamboo/codec"
	"github.com/bamboo-mc/bamboo/metrics"
	"github.com/bamboo-mc/bamboo/proto"
	"github.com/bamboo-mc/bamboo/registry"
	"github.com/bamboo-mc/bamboo/wire"
)

// State is this connection's position in the protocol lifecycle.
// Distinct from registry.State (which exists purely as a packet-table
// lookup key) because conn additionally tracks Closed.
type State uint8

const (
	Handshaking State = iota
	Status
	Login
	Play
	Closed
)

func (s State) registryState() registry.State {
	switch s {
	case Handshaking:
		return registry.StateHandshaking
	case Status:
		return registry.StateStatus
	case Login:
		return registry.StateLogin
	default:
		return registry.StatePlay
	}
}

// IOTimeout bounds how long a connection may take on the handshake and
// login handshake legs before being dropped as "client too slow" (spec
// §4.5 edge cases; grounded on the teacher's per-read SetDeadline use
// in worker.BasicWorker.ReadConnection).
const IOTimeout = 10 * time.Second

// Role distinguishes which side of the wire this Conn represents,
// which in turn decides which packet direction it reads and writes:
// a server-side Conn (accepting a Minecraft client) reads Serverbound
// and writes Clientbound; a client-side Conn (one this process dials
// out on) does the reverse.
type Role uint8

const (
	ServerSide Role = iota
	ClientSide
)

func (r Role) readDir() registry.Direction {
	if r == ServerSide {
		return registry.Serverbound
	}
	return registry.Clientbound
}

func (r Role) writeDir() registry.Direction {
	if r == ServerSide {
		return registry.Clientbound
	}
	return registry.Serverbound
}

// Conn is one client's connection, wrapping the raw net.Conn with the
// frame/cipher/compression pipeline described in spec §4.4's packet
// pipeline diagram, plus codec dispatch bound to whatever protocol
// version the client's Handshake declared.
type Conn struct {
	netConn net.Conn
	reader  *bufio.Reader

	Role    Role
	State   State
	Version registry.ProtocolVersion

	stream      *bamboocipher.Stream
	compression bamboocipher.Compression

	pending []byte // undecoded bytes carried over between reads
}

// New wraps an accepted client connection (Role defaults to
// ServerSide). Compression starts disabled (threshold -1) until a
// SetCompression packet is sent, per spec §4.2.
func New(netConn net.Conn) *Conn {
	return &Conn{
		netConn:     netConn,
		reader:      bufio.NewReaderSize(netConn, 4096),
		Role:        ServerSide,
		State:       Handshaking,
		compression: bamboocipher.Compression{Threshold: bamboocipher.DisableCompression},
	}
}

// NewClientSide wraps a connection this process dials out on: it reads
// Clientbound packets and writes Serverbound ones.
func NewClientSide(netConn net.Conn) *Conn {
	c := New(netConn)
	c.Role = ClientSide
	return c
}

// EnableEncryption switches the connection to AES-128/CFB8 using the
// shared secret negotiated during login (spec §4.2); called once, after
// decrypting the client's EncryptionResponse.
func (c *Conn) EnableEncryption(sharedSecret []byte) error {
	stream, err := bamboocipher.NewStream(sharedSecret)
	if err != nil {
		return fmt.Errorf("conn: enabling encryption: %w", err)
	}
	c.stream = stream
	return nil
}

// SetCompression installs the compression threshold to use from the
// next outgoing packet onward (spec §4.2: the SetCompression packet
// itself is always sent uncompressed).
func (c *Conn) SetCompression(threshold int32) {
	c.compression = bamboocipher.Compression{Threshold: int(threshold)}
}

// ReadRaw pulls exactly one frame's worth of bytes off the wire,
// decrypting first if encryption is enabled, then decompressing
// according to the active threshold, and returns the wire ID plus the
// packet body (spec §4.4 pipeline, reversed on read).
func (c *Conn) ReadRaw() (wireID int32, body []byte, err error) {
	frame, err := c.readFrame()
	if err != nil {
		return 0, nil, err
	}

	payload, err := c.compression.Unpack(frame)
	if err != nil {
		return 0, nil, fmt.Errorf("conn: decompressing frame: %w", err)
	}

	r := bytes.NewReader(payload)
	id, err := wire.ReadVarInt(r)
	if err != nil {
		return 0, nil, fmt.Errorf("conn: reading packet id: %w", err)
	}
	rest := make([]byte, r.Len())
	if _, err := r.Read(rest); err != nil && r.Len() > 0 {
		return 0, nil, fmt.Errorf("conn: reading packet body: %w", err)
	}
	return int32(id), rest, nil
}

// readFrame reads bytes off the network until DecodeFrame reports a
// complete frame, decrypting each chunk as it arrives when encryption
// is enabled. Mirrors wire.DecodeFrame's "never consume uncommitted
// bytes" contract: c.pending always holds exactly the undecoded tail.
func (c *Conn) readFrame() ([]byte, error) {
	buf := make([]byte, 4096)
	for {
		if frame, rest, ok, err := wire.DecodeFrame(c.pending); err != nil {
			return nil, err
		} else if ok {
			c.pending = rest
			return frame, nil
		}

		n, err := c.reader.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if c.stream != nil {
				c.stream.Decrypt(chunk, chunk)
			}
			c.pending = append(c.pending, chunk...)
		}
		if err != nil {
			return nil, fmt.Errorf("conn: reading from socket: %w", err)
		}
	}
}

// WriteRaw frames, compresses, encrypts, and flushes one packet given
// its wire ID and canonical-layer-encoded body.
func (c *Conn) WriteRaw(wireID int32, body []byte) error {
	var payload bytes.Buffer
	payload.Write(wire.VarInt(wireID).Encode())
	payload.Write(body)

	packed, err := c.compression.Pack(payload.Bytes())
	if err != nil {
		return fmt.Errorf("conn: compressing frame: %w", err)
	}
	if c.compression.Threshold >= 0 && payload.Len() > 0 {
		metrics.CompressionRatio.Observe(float64(len(packed)) / float64(payload.Len()))
	}

	frame := wire.EncodeFrame(packed)
	if c.stream != nil {
		c.stream.Encrypt(frame, frame)
	}
	_, err = c.netConn.Write(frame)
	return err
}

// ReadPacket reads and decodes one packet using this connection's
// current state and negotiated version.
func (c *Conn) ReadPacket() (proto.Packet, error) {
	wireID, body, err := c.ReadRaw()
	if err != nil {
		return nil, err
	}
	pkt, err := codec.Decode(c.Version, c.State.registryState(), c.Role.readDir(), wireID, body)
	if err == codec.ErrUnknownPacket {
		return nil, nil // non-fatal per spec §7; caller should loop and read the next packet
	}
	return pkt, err
}

// WritePacket encodes and writes a canonical packet for this
// connection's current state and negotiated version.
func (c *Conn) WritePacket(pkt proto.Packet) error {
	wireID, body, err := codec.Encode(c.Version, c.State.registryState(), c.Role.writeDir(), pkt)
	if err != nil {
		return err
	}
	return c.WriteRaw(wireID, body)
}

// SetDeadline mirrors net.Conn.SetDeadline; exposed so callers can
// bound slow-client reads the way worker.BasicWorker does.
func (c *Conn) SetDeadline(t time.Time) error { return c.netConn.SetDeadline(t) }

// Close closes the underlying socket and marks this connection Closed.
func (c *Conn) Close() error {
	c.State = Closed
	return c.netConn.Close()
}

// RemoteAddr returns the client's address, used for logging and for
// populating transfer.NewConnection.RemoteAddr, the channel this build
// uses to carry the client's real address to the backend (spec §6.3)
// in place of RealIP handshake rewriting.
func (c *Conn) RemoteAddr() net.Addr { return c.netConn.RemoteAddr() }
