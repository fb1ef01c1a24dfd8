// Package cipher implements the per-connection stream cipher and
// compression stages installed after login succeeds: AES-128/CFB8
// encryption and threshold zlib compression.
package cipher

import "crypto/cipher"

// cfb8 is the CFB8 stream mode Minecraft uses: one byte of keystream is
// produced per input byte, fed back through the block cipher a full
// block at a time. crypto/cipher ships full-block CFB but not CFB8, so
// this is hand-rolled directly against cipher.Block; no CFB8
// implementation exists among the pack's libraries (see DESIGN.md).
type cfb8 struct {
	block     cipher.Block
	register  []byte
	encrypt   bool
	blockSize int
}

func newCFB8(block cipher.Block, iv []byte, encrypt bool) *cfb8 {
	register := make([]byte, len(iv))
	copy(register, iv)
	return &cfb8{block: block, register: register, encrypt: encrypt, blockSize: block.BlockSize()}
}

// NewCFB8Encrypter returns a cipher.Stream that encrypts using AES-128
// CFB8 with the given 16-byte key used as both key and IV, per spec §4.5.
func NewCFB8Encrypter(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, true)
}

// NewCFB8Decrypter returns the matching decrypt-side stream.
func NewCFB8Decrypter(block cipher.Block, iv []byte) cipher.Stream {
	return newCFB8(block, iv, false)
}

// XORKeyStream implements cipher.Stream. dst and src may overlap exactly.
func (c *cfb8) XORKeyStream(dst, src []byte) {
	tmp := make([]byte, c.blockSize)
	for i, b := range src {
		c.block.Encrypt(tmp, c.register)
		out := b ^ tmp[0]
		dst[i] = out

		// Shift the feedback register left by one byte and append the
		// byte that was just fed through the cipher: the ciphertext byte
		// on encrypt, the already-available ciphertext byte on decrypt
		// (src[i] itself, since CFB8 feeds back ciphertext either way).
		var fed byte
		if c.encrypt {
			fed = out
		} else {
			fed = b
		}
		copy(c.register, c.register[1:])
		c.register[len(c.register)-1] = fed
	}
}
