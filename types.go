package noise

import (
	"hash"
	"io"
)

// A Cipher is an AEAD cipher that has been initialized with a 32-byte key.
type Cipher interface {
	// Encrypt seals plaintext under nonce n with associated data ad, appending
	// ciphertext and a 16-byte tag to out.
	Encrypt(out []byte, n uint64, ad, plaintext []byte) []byte

	// Decrypt opens ciphertext (which includes the trailing tag) under nonce n
	// with associated data ad, appending the recovered plaintext to out. It
	// fails closed: any tag mismatch returns an error and out is untouched.
	Decrypt(out []byte, n uint64, ad, ciphertext []byte) ([]byte, error)
}

// A CipherFunc names an AEAD algorithm and constructs a Cipher bound to a key.
type CipherFunc interface {
	Cipher(k [32]byte) Cipher
	CipherName() string
}

// A HashFunc names a hash algorithm and constructs hash.Hash values for it.
// HKDF and HMAC are both built on top of the returned hash.Hash, so this is
// the only primitive the rest of the package needs from a hash algorithm.
type HashFunc interface {
	Hash() hash.Hash
	HashName() string
}

// A DHFunc performs Diffie-Hellman key agreement over some curve.
type DHFunc interface {
	// GenerateKeypair produces a fresh keypair, reading entropy from random.
	GenerateKeypair(random io.Reader) (DHKey, error)

	// DH computes the shared secret between a local private key and a peer's
	// public key.
	DH(privkey, pubkey []byte) ([]byte, error)

	// DHLen is the byte length of both public keys and DH outputs.
	DHLen() int

	DHName() string
}

// A CipherSuite bundles one DH, cipher, and hash algorithm and is the unit of
// configuration for a HandshakeState. Build one with NewCipherSuite.
type CipherSuite interface {
	DHFunc
	CipherFunc
	HashFunc

	// Name is the algorithm-name segment of the protocol name, e.g.
	// "25519_AESGCM_SHA256", used to seed the symmetric state.
	Name() []byte
}
