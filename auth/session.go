package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// SessionServerURL is Mojang's join-verification endpoint. A production
// deployment could override this for testing against a mock, so it's a
// var rather than an inlined literal.
var SessionServerURL = "https://sessionserver.mojang.com/session/minecraft/hasJoined"

// ErrNotAuthenticated is returned for any non-200, non-5xx session
// server response (204 "no matching join", 403, or any other 4xx): the
// client's token does not match what Mojang issued, per spec §4.2's
// "non-200 closes with Invalid session".
var ErrNotAuthenticated = fmt.Errorf("auth: client failed session verification")

// ErrAuthServersUnreachable is returned when the session server itself
// is failing (any 5xx), a distinct case from a bad token per spec §7:
// "Mojang 5xx produces 'auth servers unreachable' and does not retry".
var ErrAuthServersUnreachable = fmt.Errorf("auth: session server unreachable")

// Profile is the subset of Mojang's hasJoined response this build
// cares about: the player's real UUID and username, plus any signed
// texture properties passed through unexamined.
type Profile struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Properties []ProfileProperty  `json:"properties"`
}

type ProfileProperty struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Signature string `json:"signature,omitempty"`
}

// UUID parses the session server's undashed hex UUID into a standard
// [16]byte form matching proto.LoginSuccess.UUID.
func (p Profile) UUID() ([16]byte, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return [16]byte{}, fmt.Errorf("auth: parsing profile UUID %q: %w", p.ID, err)
	}
	return id, nil
}

// SessionClient verifies a client's login against Mojang's session
// server once encryption is established (spec §4.2). A zero value is
// ready to use; HTTP defaults to http.DefaultClient's transport with
// a bounded per-request timeout.
type SessionClient struct {
	HTTP *http.Client
}

// VerifyJoin calls Mojang's hasJoined with the client's claimed
// username and the server-ID hash computed from the shared secret and
// this connection's RSA public key (ServerIDHash).
func (c *SessionClient) VerifyJoin(ctx context.Context, username, serverIDHash string) (*Profile, error) {
	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	q := url.Values{}
	q.Set("username", username)
	q.Set("serverId", serverIDHash)
	reqURL := SessionServerURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building session request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: session request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to profile decoding below
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("auth: session server returned status %d: %w", resp.StatusCode, ErrAuthServersUnreachable)
	default:
		// 204 "no matching join", 403, and any other non-200 all mean
		// the client's join doesn't check out.
		return nil, fmt.Errorf("auth: session server returned status %d: %w", resp.StatusCode, ErrNotAuthenticated)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("auth: decoding session response: %w", err)
	}
	return &profile, nil
}
