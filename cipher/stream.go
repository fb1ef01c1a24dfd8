package cipher

import (
	stdcipher "crypto/cipher"

	"crypto/aes"
)

// Stream holds the independent encrypt/decrypt CFB8 transforms for one
// connection direction pair, installed once at login success and kept
// for the connection's remaining lifetime (spec §3 invariant: cipher,
// once enabled, cannot be disabled).
type Stream struct {
	encrypt stdcipher.Stream
	decrypt stdcipher.Stream
}

// NewStream derives both directions from the 16-byte shared secret,
// which doubles as the AES key and the initial CFB8 feedback register
// for both directions per spec §4.5.
func NewStream(sharedSecret []byte) (*Stream, error) {
	block, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return nil, err
	}
	return &Stream{
		encrypt: NewCFB8Encrypter(block, sharedSecret),
		decrypt: NewCFB8Decrypter(block, sharedSecret),
	}, nil
}

// Encrypt XORs src's keystream into dst in place (dst may equal src).
func (s *Stream) Encrypt(dst, src []byte) { s.encrypt.XORKeyStream(dst, src) }

// Decrypt is the inverse of Encrypt.
func (s *Stream) Decrypt(dst, src []byte) { s.decrypt.XORKeyStream(dst, src) }
