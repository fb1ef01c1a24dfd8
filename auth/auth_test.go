package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bamboo-mc/bamboo/auth"
)

// TestServerIDHashKnownFixtures checks the signed hex digest against the
// widely published example hashes for the Minecraft digest algorithm.
func TestServerIDHashKnownFixtures(t *testing.T) {
	// The published examples hash a bare name, so the name goes in as
	// the key bytes with an empty shared secret. "jeb_" covers the
	// negative (leading "-") case and "simon" the trimmed leading zero.
	fixtures := map[string]string{
		"Notch": "4ed1f46bbe04bc756bcb17c0c7ce3e4632f06a48",
		"jeb_":  "-7c9d5b0044c130109a5d7b5fb5c317c02b4e28c1",
		"simon": "88e16a1019277b15d58faf0541e11910eb756f6",
	}
	for name, want := range fixtures {
		if got := auth.ServerIDHash(nil, []byte(name)); got != want {
			t.Errorf("ServerIDHash(%q) = %q, want %q", name, got, want)
		}
	}

	// Hashing the same inputs twice gives the same result.
	secret := []byte("0123456789abcdef")
	der := []byte("fake-der-key-bytes")

	h1 := auth.ServerIDHash(secret, der)
	h2 := auth.ServerIDHash(secret, der)
	if h1 != h2 {
		t.Fatalf("hash not deterministic: %q vs %q", h1, h2)
	}
	if len(h1) == 0 {
		t.Fatal("empty hash")
	}
}

func TestOfflineUUIDDeterministicAndVersioned(t *testing.T) {
	id := auth.OfflineUUID("Notch")
	if id != auth.OfflineUUID("Notch") {
		t.Fatal("offline UUID is not deterministic")
	}
	if id[6]&0xf0 != 0x30 {
		t.Errorf("version nibble = %x, want 3", id[6]&0xf0)
	}
	if id[8]&0xc0 != 0x80 {
		t.Errorf("variant bits = %x, want RFC 4122", id[8]&0xc0)
	}

	other := auth.OfflineUUID("Herobrine")
	if id == other {
		t.Fatal("different usernames produced the same offline UUID")
	}
}

func TestVerifyJoinSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") != "Notch" {
			t.Errorf("unexpected username query: %s", r.URL.Query().Get("username"))
		}
		json.NewEncoder(w).Encode(auth.Profile{ID: "069a79f444e94726a5befca90e38aaf5", Name: "Notch"})
	}))
	defer srv.Close()

	old := auth.SessionServerURL
	auth.SessionServerURL = srv.URL
	defer func() { auth.SessionServerURL = old }()

	client := &auth.SessionClient{}
	profile, err := client.VerifyJoin(context.Background(), "Notch", "deadbeef")
	if err != nil {
		t.Fatalf("VerifyJoin: %v", err)
	}
	if profile.Name != "Notch" {
		t.Errorf("got name %q", profile.Name)
	}
}

func TestVerifyJoinRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	old := auth.SessionServerURL
	auth.SessionServerURL = srv.URL
	defer func() { auth.SessionServerURL = old }()

	client := &auth.SessionClient{}
	_, err := client.VerifyJoin(context.Background(), "Notch", "deadbeef")
	if !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Fatalf("got %v, want ErrNotAuthenticated", err)
	}
}

// TestVerifyJoinForbidden exercises spec §8 scenario 3: a stub returning
// 403 must be classified the same as a 204, not as a generic error.
func TestVerifyJoinForbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	old := auth.SessionServerURL
	auth.SessionServerURL = srv.URL
	defer func() { auth.SessionServerURL = old }()

	client := &auth.SessionClient{}
	_, err := client.VerifyJoin(context.Background(), "Notch", "deadbeef")
	if !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Fatalf("got %v, want ErrNotAuthenticated", err)
	}
}

// TestVerifyJoinMojangUnreachable exercises spec §7: Mojang 5xx must be
// distinguishable from a bad token so the client sees "auth servers
// unreachable" rather than "Invalid session".
func TestVerifyJoinMojangUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	old := auth.SessionServerURL
	auth.SessionServerURL = srv.URL
	defer func() { auth.SessionServerURL = old }()

	client := &auth.SessionClient{}
	_, err := client.VerifyJoin(context.Background(), "Notch", "deadbeef")
	if !errors.Is(err, auth.ErrAuthServersUnreachable) {
		t.Fatalf("got %v, want ErrAuthServersUnreachable", err)
	}
	if errors.Is(err, auth.ErrNotAuthenticated) {
		t.Fatalf("5xx must not also classify as ErrNotAuthenticated: %v", err)
	}
}
