package conn

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/bamboo-mc/bamboo/auth"
	"github.com/bamboo-mc/bamboo/proto"
)

// CompressionThreshold is the value sent in SetCompression once login
// succeeds; -1 (cipher.DisableCompression) disables it entirely. It is
// a fixed build-wide value: Login does not read
// config.ProxyConfig.CompressionThreshold.
const CompressionThreshold = 256

// LoginConfig parameterizes one login attempt: whether Mojang
// verification is required, and the key pair/session client to use
// when it is (spec §4.2's online/offline mode switch).
type LoginConfig struct {
	OnlineMode bool
	Keys       *auth.KeyPair
	Session    *auth.SessionClient

	// OnUsername, if set, runs right after LoginStart is read and
	// before any encryption/verification work begins. Returning an
	// error aborts the login (e.g. a per-IP rate limiter rejecting
	// the attempt before the costly RSA/Mojang-verification path
	// runs).
	OnUsername func(username string) error
}

// PlayerIdentity is what a successful login resolves to, regardless of
// online/offline mode: a UUID, username, and (if online) the Mojang
// profile properties (skin/cape textures) to forward to the backend.
type PlayerIdentity struct {
	UUID       [16]byte
	Username   string
	Properties []auth.ProfileProperty
}

// Login runs the full login sequence (spec §4.2): LoginStart, optional
// encryption handshake and Mojang verification, SetCompression, and
// LoginSuccess. On return c.State is Play and, if cfg.OnlineMode, the
// wire is encrypted.
func (c *Conn) Login(ctx context.Context, cfg LoginConfig) (PlayerIdentity, error) {
	pkt, err := c.ReadPacket()
	if err != nil {
		return PlayerIdentity{}, fmt.Errorf("conn: reading login start: %w", err)
	}
	start, ok := pkt.(proto.LoginStart)
	if !ok {
		return PlayerIdentity{}, fmt.Errorf("conn: expected LoginStart, got %T", pkt)
	}

	if cfg.OnUsername != nil {
		if err := cfg.OnUsername(start.Username); err != nil {
			_ = c.WritePacket(proto.Disconnect{Reason: `{"text":"Too many login attempts, please wait a moment"}`})
			return PlayerIdentity{}, err
		}
	}

	var id PlayerIdentity
	if cfg.OnlineMode {
		id, err = c.runEncryptedLogin(ctx, cfg, start.Username)
	} else {
		id = PlayerIdentity{UUID: auth.OfflineUUID(start.Username), Username: start.Username}
	}
	if err != nil {
		return PlayerIdentity{}, err
	}

	if CompressionThreshold >= 0 {
		if err := c.WritePacket(proto.SetCompression{Threshold: CompressionThreshold}); err != nil {
			return PlayerIdentity{}, fmt.Errorf("conn: writing SetCompression: %w", err)
		}
		c.SetCompression(CompressionThreshold)
	}

	if err := c.WritePacket(proto.LoginSuccess{UUID: id.UUID, Username: id.Username}); err != nil {
		return PlayerIdentity{}, fmt.Errorf("conn: writing LoginSuccess: %w", err)
	}

	c.State = Play
	return id, nil
}

func (c *Conn) runEncryptedLogin(ctx context.Context, cfg LoginConfig, username string) (PlayerIdentity, error) {
	verifyToken := make([]byte, 4)
	if _, err := rand.Read(verifyToken); err != nil {
		return PlayerIdentity{}, fmt.Errorf("conn: generating verify token: %w", err)
	}

	err := c.WritePacket(proto.EncryptionRequest{
		ServerID:    "",
		PublicKey:   cfg.Keys.DER,
		VerifyToken: verifyToken,
	})
	if err != nil {
		return PlayerIdentity{}, fmt.Errorf("conn: writing EncryptionRequest: %w", err)
	}

	pkt, err := c.ReadPacket()
	if err != nil {
		return PlayerIdentity{}, fmt.Errorf("conn: reading EncryptionResponse: %w", err)
	}
	resp, ok := pkt.(proto.EncryptionResponse)
	if !ok {
		return PlayerIdentity{}, fmt.Errorf("conn: expected EncryptionResponse, got %T", pkt)
	}

	decryptedToken, err := cfg.Keys.Decrypt(resp.EncryptedVerifyToken)
	if err != nil {
		return PlayerIdentity{}, fmt.Errorf("conn: decrypting verify token: %w", err)
	}
	if !bytes.Equal(decryptedToken, verifyToken) {
		_ = c.WritePacket(proto.Disconnect{Reason: `{"text":"Invalid session"}`})
		return PlayerIdentity{}, fmt.Errorf("conn: verify token mismatch")
	}

	sharedSecret, err := cfg.Keys.Decrypt(resp.EncryptedSharedSecret)
	if err != nil {
		return PlayerIdentity{}, fmt.Errorf("conn: decrypting shared secret: %w", err)
	}
	if err := c.EnableEncryption(sharedSecret); err != nil {
		return PlayerIdentity{}, err
	}

	hash := auth.ServerIDHash(sharedSecret, cfg.Keys.DER)
	profile, err := cfg.Session.VerifyJoin(ctx, username, hash)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAuthServersUnreachable):
			_ = c.WritePacket(proto.Disconnect{Reason: `{"text":"auth servers unreachable"}`})
		case errors.Is(err, auth.ErrNotAuthenticated):
			_ = c.WritePacket(proto.Disconnect{Reason: `{"text":"Invalid session"}`})
		}
		return PlayerIdentity{}, err
	}

	uid, err := profile.UUID()
	if err != nil {
		return PlayerIdentity{}, err
	}
	return PlayerIdentity{UUID: uid, Username: profile.Name, Properties: profile.Properties}, nil
}
