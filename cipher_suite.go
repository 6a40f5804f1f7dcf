package noise

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
)

// dh25519 implements DHFunc using Curve25519 (X25519).
type dh25519 struct{}

func (dh25519) GenerateKeypair(random io.Reader) (DHKey, error) {
	if random == nil {
		random = rand.Reader
	}
	var pair DHKey
	pair.Private = make([]byte, 32)
	if _, err := io.ReadFull(random, pair.Private); err != nil {
		return DHKey{}, err
	}
	pair.Private[0] &= 248
	pair.Private[31] &= 127
	pair.Private[31] |= 64
	pub, err := curve25519.X25519(pair.Private, curve25519.Basepoint)
	if err != nil {
		return DHKey{}, err
	}
	pair.Public = pub
	return pair, nil
}

func (dh25519) DH(privkey, pubkey []byte) ([]byte, error) {
	ss, err := curve25519.X25519(privkey, pubkey)
	if err != nil {
		return nil, DHFailedError{cause: err}
	}
	return ss, nil
}

func (dh25519) DHLen() int     { return 32 }
func (dh25519) DHName() string { return "25519" }

// DH25519 is the Curve25519 DH function.
var DH25519 DHFunc = dh25519{}

// cipherAESGCM implements CipherFunc using AES-256-GCM.
type cipherAESGCM struct{}

func (cipherAESGCM) Cipher(k [32]byte) Cipher {
	block, err := aes.NewCipher(k[:])
	if err != nil {
		panic(err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		panic(err)
	}
	return aesGCMCipher{gcm: gcm}
}

func (cipherAESGCM) CipherName() string { return "AESGCM" }

type aesGCMCipher struct {
	gcm cipher.AEAD
}

func (c aesGCMCipher) Encrypt(out []byte, n uint64, ad, plaintext []byte) []byte {
	var nonce [12]byte
	bigEndianPutUint64(nonce[4:], n)
	return c.gcm.Seal(out, nonce[:], plaintext, ad)
}

func (c aesGCMCipher) Decrypt(out []byte, n uint64, ad, ciphertext []byte) ([]byte, error) {
	var nonce [12]byte
	bigEndianPutUint64(nonce[4:], n)
	return c.gcm.Open(out, nonce[:], ciphertext, ad)
}

// CipherAESGCM is AES-256-GCM with a big-endian nonce, per the Noise spec's
// AESGCM cipher function.
var CipherAESGCM CipherFunc = cipherAESGCM{}

// cipherChaChaPoly implements CipherFunc using ChaCha20-Poly1305.
type cipherChaChaPoly struct{}

func (cipherChaChaPoly) Cipher(k [32]byte) Cipher {
	c, err := chacha20poly1305.New(k[:])
	if err != nil {
		panic(err)
	}
	return chaChaPolyCipher{c: c}
}

func (cipherChaChaPoly) CipherName() string { return "ChaChaPoly" }

type chaChaPolyCipher struct {
	c cipher.AEAD
}

func (c chaChaPolyCipher) Encrypt(out []byte, n uint64, ad, plaintext []byte) []byte {
	var nonce [12]byte
	littleEndianPutUint64(nonce[4:], n)
	return c.c.Seal(out, nonce[:], plaintext, ad)
}

func (c chaChaPolyCipher) Decrypt(out []byte, n uint64, ad, ciphertext []byte) ([]byte, error) {
	var nonce [12]byte
	littleEndianPutUint64(nonce[4:], n)
	return c.c.Open(out, nonce[:], ciphertext, ad)
}

// CipherChaChaPoly is ChaCha20-Poly1305 with a little-endian nonce, per the
// Noise spec's ChaChaPoly cipher function.
var CipherChaChaPoly CipherFunc = cipherChaChaPoly{}

func bigEndianPutUint64(b []byte, v uint64) {
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
}

func littleEndianPutUint64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}

// hashSHA256 implements HashFunc using SHA-256.
type hashSHA256 struct{}

func (hashSHA256) Hash() hash.Hash  { return sha256.New() }
func (hashSHA256) HashName() string { return "SHA256" }

// HashSHA256 is the SHA-256 hash function.
var HashSHA256 HashFunc = hashSHA256{}

// hashSHA512 implements HashFunc using SHA-512.
type hashSHA512 struct{}

func (hashSHA512) Hash() hash.Hash  { return sha512.New() }
func (hashSHA512) HashName() string { return "SHA512" }

// HashSHA512 is the SHA-512 hash function.
var HashSHA512 HashFunc = hashSHA512{}

// hashBLAKE2s implements HashFunc using BLAKE2s-256.
type hashBLAKE2s struct{}

func (hashBLAKE2s) Hash() hash.Hash {
	h, err := blake2s.New256(nil)
	if err != nil {
		panic(err)
	}
	return h
}
func (hashBLAKE2s) HashName() string { return "BLAKE2s" }

// HashBLAKE2s is the BLAKE2s-256 hash function.
var HashBLAKE2s HashFunc = hashBLAKE2s{}

// hashBLAKE2b implements HashFunc using BLAKE2b-512.
type hashBLAKE2b struct{}

func (hashBLAKE2b) Hash() hash.Hash {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	return h
}
func (hashBLAKE2b) HashName() string { return "BLAKE2b" }

// HashBLAKE2b is the BLAKE2b-512 hash function.
var HashBLAKE2b HashFunc = hashBLAKE2b{}

// cipherSuite bundles a DH, cipher, and hash function into one CipherSuite.
type cipherSuite struct {
	DHFunc
	CipherFunc
	HashFunc
}

func (c cipherSuite) Name() []byte {
	return []byte(c.DHFunc.DHName() + "_" + c.CipherFunc.CipherName() + "_" + c.HashFunc.HashName())
}

// NewCipherSuite returns a CipherSuite built from the given DH, cipher, and
// hash functions.
func NewCipherSuite(dh DHFunc, cipher CipherFunc, hash HashFunc) CipherSuite {
	return cipherSuite{DHFunc: dh, CipherFunc: cipher, HashFunc: hash}
}

// DHFailedError is returned when a DH operation itself fails, e.g. because
// the underlying primitive rejected an invalid point.
type DHFailedError struct {
	cause error
}

func (e DHFailedError) Error() string { return "noise: DH operation failed: " + e.cause.Error() }
func (e DHFailedError) Unwrap() error { return e.cause }
