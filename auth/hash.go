// Package auth implements the Mojang session-server handshake used to
// verify a client's identity once encryption is established (spec §4.2
// login sequence), plus the offline-mode fallback UUID derivation.
package auth

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// ServerIDHash computes the "server ID" Minecraft's session-server
// verification hashes into a signed-hex digest: SHA-1 over the empty
// server ID string, the shared secret, then the server's DER-encoded
// public key, per wiki.vg's Protocol Encryption page.
func ServerIDHash(sharedSecret, derPublicKey []byte) string {
	h := sha1.New()
	h.Write([]byte(""))
	h.Write(sharedSecret)
	h.Write(derPublicKey)
	return javaHexDigest(h.Sum(nil))
}

// javaHexDigest reproduces Java's BigInteger(hash).toString(16): the
// digest is treated as a signed two's-complement integer, negated with
// a leading "-" when its high bit is set, rather than emitted as plain
// unsigned hex.
func javaHexDigest(sum []byte) string {
	negative := sum[0]&0x80 != 0
	if negative {
		twosComplement(sum)
	}
	hex := strings.TrimLeft(fmt.Sprintf("%x", sum), "0")
	if hex == "" {
		hex = "0"
	}
	if negative {
		return "-" + hex
	}
	return hex
}

func twosComplement(b []byte) {
	carry := true
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = ^b[i]
		if carry {
			b[i]++
			carry = b[i] == 0
		}
	}
}
