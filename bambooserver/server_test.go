package bambooserver_test

import (
	"net"
	"testing"
	"time"

	"github.com/bamboo-mc/bamboo/bambooserver"
	"github.com/bamboo-mc/bamboo/registry"
	"github.com/bamboo-mc/bamboo/transfer"
)

func TestServeSendsJoinGameOnNewConnection(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	srv := bambooserver.New("test", 10)
	go srv.ServeConn(b)

	link := transfer.NewLink(a)
	if err := link.SendNewConnection(transfer.NewConnection{
		ConnID:   1,
		Username: "Notch",
		Version:  int32(registry.V1_8),
	}); err != nil {
		t.Fatalf("SendNewConnection: %v", err)
	}

	envCh := make(chan transfer.Envelope, 2)
	go func() {
		for i := 0; i < 2; i++ {
			env, err := link.ReadEnvelope()
			if err != nil {
				return
			}
			envCh <- env
		}
	}()

	timeout := time.After(2 * time.Second)
	seen := 0
	for seen < 2 {
		select {
		case env := <-envCh:
			pkt, ok := env.Message.(transfer.ServerPacket)
			if !ok {
				t.Fatalf("got %T, want ServerPacket", env.Message)
			}
			if pkt.ConnID != 1 {
				t.Fatalf("got ConnID %d, want 1", pkt.ConnID)
			}
			seen++
		case <-timeout:
			t.Fatal("timed out waiting for JoinGame/ChunkData")
		}
	}
}

func TestFullServerRejectsNewConnection(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	srv := bambooserver.New("test", 0)
	go srv.ServeConn(b)

	link := transfer.NewLink(a)
	if err := link.SendNewConnection(transfer.NewConnection{ConnID: 1, Username: "Notch"}); err != nil {
		t.Fatalf("SendNewConnection: %v", err)
	}

	env, err := link.ReadEnvelope()
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	if _, ok := env.Message.(transfer.DisconnectConnection); !ok {
		t.Fatalf("got %T, want DisconnectConnection", env.Message)
	}
}
