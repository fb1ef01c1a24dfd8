package conn_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bamboo-mc/bamboo/auth"
	"github.com/bamboo-mc/bamboo/conn"
	_ "github.com/bamboo-mc/bamboo/codec/v1_8"
	"github.com/bamboo-mc/bamboo/proto"
	"github.com/bamboo-mc/bamboo/registry"
)

func pipeConns(t *testing.T) (client, server *conn.Conn) {
	t.Helper()
	a, b := net.Pipe()
	return conn.NewClientSide(a), conn.New(b)
}

func TestHandshakeThenStatus(t *testing.T) {
	client, server := pipeConns(t)
	defer client.Close()
	defer server.Close()

	done := make(chan error, 1)
	go func() {
		_, err := server.Handshake()
		if err != nil {
			done <- err
			return
		}
		done <- server.ServeStatus(func() string { return `{"version":{"name":"bamboo","protocol":47}}` })
	}()

	client.Version = registry.V1_8
	client.State = conn.Handshaking
	if err := client.WritePacket(proto.Handshake{
		ProtocolVersion: int32(registry.V1_8),
		ServerAddress:   "localhost",
		ServerPort:      25565,
		Next:            proto.NextStatus,
	}); err != nil {
		t.Fatalf("writing handshake: %v", err)
	}
	client.State = conn.Status

	if err := client.WritePacket(proto.StatusRequest{}); err != nil {
		t.Fatalf("writing status request: %v", err)
	}
	resp, err := client.ReadPacket()
	if err != nil {
		t.Fatalf("reading status response: %v", err)
	}
	if _, ok := resp.(proto.StatusResponse); !ok {
		t.Fatalf("got %T, want StatusResponse", resp)
	}

	if err := client.WritePacket(proto.Ping{Payload: 42}); err != nil {
		t.Fatalf("writing ping: %v", err)
	}
	pong, err := client.ReadPacket()
	if err != nil {
		t.Fatalf("reading pong: %v", err)
	}
	if p, ok := pong.(proto.Pong); !ok || p.Payload != 42 {
		t.Fatalf("got %+v, want Pong{42}", pong)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("server side: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server goroutine")
	}
}

func TestOfflineLoginSucceeds(t *testing.T) {
	client, server := pipeConns(t)
	defer client.Close()
	defer server.Close()

	client.Version = registry.V1_8
	server.Version = registry.V1_8
	client.State = conn.Login
	server.State = conn.Login

	done := make(chan error, 1)
	var serverIdentity conn.PlayerIdentity
	go func() {
		var err error
		serverIdentity, err = server.Login(context.Background(), conn.LoginConfig{OnlineMode: false})
		done <- err
	}()

	if err := client.WritePacket(proto.LoginStart{Username: "Notch"}); err != nil {
		t.Fatalf("writing login start: %v", err)
	}

	if _, err := client.ReadPacket(); err != nil {
		t.Fatalf("reading set compression: %v", err)
	}
	client.SetCompression(conn.CompressionThreshold)

	pkt, err := client.ReadPacket()
	if err != nil {
		t.Fatalf("reading login success: %v", err)
	}
	success, ok := pkt.(proto.LoginSuccess)
	if !ok {
		t.Fatalf("got %T, want LoginSuccess", pkt)
	}

	if err := <-done; err != nil {
		t.Fatalf("server login: %v", err)
	}
	if success.UUID != serverIdentity.UUID || success.Username != serverIdentity.Username {
		t.Fatalf("client/server identity mismatch: %+v vs %+v", success, serverIdentity)
	}
	want := auth.OfflineUUID("Notch")
	if success.UUID != want {
		t.Fatalf("got UUID %x, want offline UUID %x", success.UUID, want)
	}
}

// TestOnlineLoginRejectedWritesDisconnect exercises spec §8 scenario 3:
// a session-server stub returning 403 must close the connection with an
// "Invalid session" Disconnect rather than just dropping the socket.
func TestOnlineLoginRejectedWritesDisconnect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	old := auth.SessionServerURL
	auth.SessionServerURL = srv.URL
	defer func() { auth.SessionServerURL = old }()

	client, server := pipeConns(t)
	defer client.Close()
	defer server.Close()

	client.Version = registry.V1_8
	server.Version = registry.V1_8
	client.State = conn.Login
	server.State = conn.Login

	keys, err := auth.NewKeyPair()
	if err != nil {
		t.Fatalf("generating key pair: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := server.Login(context.Background(), conn.LoginConfig{
			OnlineMode: true,
			Keys:       keys,
			Session:    &auth.SessionClient{},
		})
		done <- err
	}()

	if err := client.WritePacket(proto.LoginStart{Username: "Notch"}); err != nil {
		t.Fatalf("writing login start: %v", err)
	}

	pkt, err := client.ReadPacket()
	if err != nil {
		t.Fatalf("reading encryption request: %v", err)
	}
	req, ok := pkt.(proto.EncryptionRequest)
	if !ok {
		t.Fatalf("got %T, want EncryptionRequest", pkt)
	}
	pub, err := x509.ParsePKIXPublicKey(req.PublicKey)
	if err != nil {
		t.Fatalf("parsing server public key: %v", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		t.Fatalf("got %T, want *rsa.PublicKey", pub)
	}

	sharedSecret := make([]byte, 16)
	if _, err := rand.Read(sharedSecret); err != nil {
		t.Fatalf("generating shared secret: %v", err)
	}
	encryptedSecret, err := rsa.EncryptPKCS1v15(rand.Reader, rsaPub, sharedSecret)
	if err != nil {
		t.Fatalf("encrypting shared secret: %v", err)
	}
	encryptedToken, err := rsa.EncryptPKCS1v15(rand.Reader, rsaPub, req.VerifyToken)
	if err != nil {
		t.Fatalf("encrypting verify token: %v", err)
	}

	if err := client.WritePacket(proto.EncryptionResponse{
		EncryptedSharedSecret: encryptedSecret,
		EncryptedVerifyToken:  encryptedToken,
	}); err != nil {
		t.Fatalf("writing encryption response: %v", err)
	}
	if err := client.EnableEncryption(sharedSecret); err != nil {
		t.Fatalf("enabling client encryption: %v", err)
	}

	disconnect, err := client.ReadPacket()
	if err != nil {
		t.Fatalf("reading disconnect: %v", err)
	}
	reason, ok := disconnect.(proto.Disconnect)
	if !ok {
		t.Fatalf("got %T, want Disconnect", disconnect)
	}
	if reason.Reason != `{"text":"Invalid session"}` {
		t.Fatalf("got reason %q, want Invalid session", reason.Reason)
	}

	if err := <-done; err == nil {
		t.Fatal("expected server login to fail")
	}
}
