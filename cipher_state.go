package noise

import "math"

// CipherState wraps a single AEAD key and the 64-bit nonce counter Noise
// requires alongside it. It's what WriteMessage/ReadMessage hand back once a
// handshake completes, one per direction of travel.
type CipherState struct {
	cs CipherSuite
	c  Cipher
	k  [32]byte
	n  uint64

	// invalid is set once Cipher() hands the raw AEAD out for manual nonce
	// management; Encrypt/Decrypt refuse to run afterward since the nonce
	// counter they'd maintain can no longer be trusted.
	invalid bool
}

// UnsafeNewCipherState rebuilds a CipherState from previously exported key
// material and nonce. Callers resuming a session this way are responsible
// for never reusing a nonce the original CipherState already consumed.
func UnsafeNewCipherState(cs CipherSuite, k [32]byte, n uint64) *CipherState {
	return &CipherState{cs: cs, c: cs.Cipher(k), k: k, n: n}
}

func (s *CipherState) precondition() error {
	if s.invalid {
		return ErrCipherSuiteCopied
	}
	if s.n > MaxNonce {
		return ErrMaxNonce
	}
	return nil
}

// Encrypt appends the sealed form of plaintext (ciphertext + tag) to out
// under the current nonce and ad, then advances the nonce. Calls must be
// decrypted by the peer in the same order, with no gaps.
func (s *CipherState) Encrypt(out, ad, plaintext []byte) ([]byte, error) {
	if err := s.precondition(); err != nil {
		return nil, err
	}
	out = s.c.Encrypt(out, s.n, ad, plaintext)
	s.n++
	return out, nil
}

// Decrypt authenticates and opens ciphertext under the current nonce and ad,
// appending the plaintext to out, then advances the nonce. The peer's
// messages must arrive in encryption order; a tag mismatch leaves the nonce
// untouched so a retry with the correct bytes still lines up.
func (s *CipherState) Decrypt(out, ad, ciphertext []byte) ([]byte, error) {
	if err := s.precondition(); err != nil {
		return nil, err
	}
	out, err := s.c.Decrypt(out, s.n, ad, ciphertext)
	if err != nil {
		return nil, err
	}
	s.n++
	return out, nil
}

// Cipher exposes the underlying AEAD for callers that need to manage nonces
// themselves, e.g. a transport that can deliver messages out of order. After
// this call Encrypt/Decrypt are permanently disabled on s; the caller owns
// nonce bookkeeping from here on and must never reuse one.
func (s *CipherState) Cipher() Cipher {
	s.invalid = true
	return s.c
}

// Nonce reports the next nonce Encrypt/Decrypt will use, useful for deciding
// whether a rekey or fresh handshake is due before MaxNonce is hit.
func (s *CipherState) Nonce() uint64 { return s.n }

// SetNonce overrides the nonce counter directly.
func (s *CipherState) SetNonce(n uint64) { s.n = n }

// UnsafeKey exports the current key, for pairing with UnsafeNewCipherState.
func (s *CipherState) UnsafeKey() [32]byte { return s.k }

// Rekey replaces k with the encryption of a 32-byte zero block, per the
// Noise spec's suggested rekey construction, and zeroes the intermediate
// ciphertext once the new key is installed.
func (s *CipherState) Rekey() {
	var zero [32]byte
	next := s.c.Encrypt(nil, math.MaxUint64, []byte{}, zero[:])
	copy(s.k[:], next[:32])
	s.c = s.cs.Cipher(s.k)
	secureZero(next)
}
