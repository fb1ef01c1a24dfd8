package cipher_test

import (
	"bytes"
	"testing"

	"github.com/bamboo-mc/bamboo/cipher"
)

func sharedSecret() []byte {
	return []byte("0123456789abcdef")
}

func TestStreamRoundTrip(t *testing.T) {
	clientSide, err := cipher.NewStream(sharedSecret())
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}
	serverSide, err := cipher.NewStream(sharedSecret())
	if err != nil {
		t.Fatalf("NewStream: %v", err)
	}

	messages := [][]byte{
		[]byte("hello"),
		[]byte("a"),
		bytes.Repeat([]byte{0x42}, 300),
		[]byte("goodbye"),
	}

	for _, m := range messages {
		ct := make([]byte, len(m))
		clientSide.Encrypt(ct, m)

		pt := make([]byte, len(ct))
		serverSide.Decrypt(pt, ct)

		if !bytes.Equal(pt, m) {
			t.Fatalf("decrypt(encrypt(%q)) = %q", m, pt)
		}
	}
}

func TestStreamCorruptionPropagates(t *testing.T) {
	sender, _ := cipher.NewStream(sharedSecret())
	receiver, _ := cipher.NewStream(sharedSecret())

	plaintext := bytes.Repeat([]byte{0x11}, 32)
	ct := make([]byte, len(plaintext))
	sender.Encrypt(ct, plaintext)

	// Flip one byte in the middle of the ciphertext stream.
	corrupted := append([]byte(nil), ct...)
	corrupted[10] ^= 0xFF

	pt := make([]byte, len(corrupted))
	receiver.Decrypt(pt, corrupted)

	if pt[10] == plaintext[10] {
		t.Fatalf("corrupted byte decrypted to the original value")
	}
	// CFB8 feedback means every byte after the corrupted one is also
	// affected, until the feedback register has fully shifted the bad
	// byte out (16 bytes later for AES).
	if bytes.Equal(pt[11:16+11], plaintext[11:16+11]) {
		t.Fatalf("expected subsequent bytes to be corrupted by CFB8 feedback")
	}
}

func TestCompressionBelowThreshold(t *testing.T) {
	c := cipher.Compression{Threshold: 256}
	payload := bytes.Repeat([]byte{0x01}, 10)

	packed, err := c.Pack(payload)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if packed[0] != 0 {
		t.Fatalf("expected leading VarInt 0 for payload below threshold, got %d", packed[0])
	}

	unpacked, err := c.Unpack(packed)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if !bytes.Equal(unpacked, payload) {
		t.Fatalf("got %v; want %v", unpacked, payload)
	}
}

func TestCompressionAboveThreshold(t *testing.T) {
	c := cipher.Compression{Threshold: 16}
	payload := bytes.Repeat([]byte{0x02, 0x03}, 200)

	packed, err := c.Pack(payload)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	unpacked, err := c.Unpack(packed)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if !bytes.Equal(unpacked, payload) {
		t.Fatalf("round trip mismatch for compressed payload")
	}
}

func TestCompressionZeroMeansCompressEverything(t *testing.T) {
	c := cipher.Compression{Threshold: 0}
	packed, err := c.Pack([]byte{0x01})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	// A single-byte payload compressed will carry a nonzero uncompressed
	// length VarInt (1), not the "raw" VarInt 0 marker.
	if packed[0] != 1 {
		t.Fatalf("threshold=0 should compress everything; got leading byte %d", packed[0])
	}
}

func TestCompressionDisabled(t *testing.T) {
	c := cipher.Compression{Threshold: cipher.DisableCompression}
	payload := []byte("passthrough")
	packed, err := c.Pack(payload)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if !bytes.Equal(packed, payload) {
		t.Fatalf("disabled compression must be a pure pass-through")
	}
}
