package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
)

// KeyPairBits matches vanilla servers' 1024-bit RSA key used for the
// login encryption handshake (spec §4.2); undersized by modern
// standards but fixed by the wire protocol, not a choice this build
// makes.
const KeyPairBits = 1024

// KeyPair holds the RSA key used to decrypt a client's shared secret
// and verify token, plus its DER encoding sent in EncryptionRequest.
type KeyPair struct {
	Private *rsa.PrivateKey
	DER     []byte
}

// NewKeyPair generates a fresh RSA key pair, one per process per spec
// §4.2 (keys are not rotated per-connection or persisted across
// restarts).
func NewKeyPair() (*KeyPair, error) {
	priv, err := rsa.GenerateKey(rand.Reader, KeyPairBits)
	if err != nil {
		return nil, fmt.Errorf("auth: generating RSA key pair: %w", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("auth: marshaling public key: %w", err)
	}
	return &KeyPair{Private: priv, DER: der}, nil
}

// Decrypt reverses the client's PKCS#1 v1.5 RSA encryption of the
// shared secret or verify token (spec §4.2).
func (k *KeyPair) Decrypt(ciphertext []byte) ([]byte, error) {
	pt, err := rsa.DecryptPKCS1v15(rand.Reader, k.Private, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("auth: decrypting: %w", err)
	}
	return pt, nil
}
