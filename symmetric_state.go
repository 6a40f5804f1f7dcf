package noise

// symmetricState threads the rolling chaining key (ck) and transcript hash
// (h) through a handshake, plus the CipherState those two values currently
// derive. Every public key, DH output, and ciphertext that crosses the wire
// passes through here so that the final h can serve as a channel binding and
// the final ck can be split into transport keys.
type symmetricState struct {
	CipherState
	hasK bool
	ck   []byte
	h    []byte

	// prevCK/prevH hold a single-generation checkpoint so a failed token
	// (a bad remote key, a tag mismatch) can be rolled back without leaving
	// ck/h partially mixed.
	prevCK []byte
	prevH  []byte
}

// InitializeSymmetric seeds h from the protocol name (right-padded with
// zeros if it is no longer than the hash output, hashed down otherwise) and sets ck = h,
// per section 3's initial-state rule.
func (s *symmetricState) InitializeSymmetric(protocolName []byte) {
	hashState := s.cs.Hash()
	digestLen := hashState.Size()

	s.h = make([]byte, digestLen)
	if len(protocolName) <= digestLen {
		copy(s.h, protocolName)
	} else {
		hashState.Write(protocolName)
		s.h = hashState.Sum(s.h[:0])
	}

	s.ck = make([]byte, digestLen)
	copy(s.ck, s.h)
}

// MixKey folds ikm (normally a DH output) into ck via HKDF, re-keys the
// CipherState from the derived key, and resets its nonce to 0.
func (s *symmetricState) MixKey(ikm []byte) {
	newCK, tempK, _ := hkdf(s.cs.Hash, 2, s.ck[:0], s.k[:0], nil, s.ck, ikm)
	s.ck = newCK
	copy(s.k[:], tempK)
	s.c = s.cs.Cipher(s.k)
	s.n = 0
	s.hasK = true
	secureZero(tempK)
}

// MixHash folds data into the running transcript hash: h = HASH(h || data).
func (s *symmetricState) MixHash(data []byte) {
	hashState := s.cs.Hash()
	hashState.Write(s.h)
	hashState.Write(data)
	s.h = hashState.Sum(s.h[:0])
}

// MixKeyAndHash is MixKey's three-output sibling, used for the psk token: it
// folds data into ck and the CipherState key as MixKey does, and additionally
// mixes the middle HKDF output into h.
func (s *symmetricState) MixKeyAndHash(data []byte) {
	var tempH []byte
	newCK, tempH, tempK := hkdf(s.cs.Hash, 3, s.ck[:0], tempH, s.k[:0], s.ck, data)
	s.ck = newCK
	s.MixHash(tempH)
	copy(s.k[:], tempK)
	s.c = s.cs.Cipher(s.k)
	s.n = 0
	s.hasK = true
	secureZero(tempK)
	secureZero(tempH)
}

// EncryptAndHash seals plaintext under h as associated data (or, before any
// key exists, passes it through unchanged) and mixes the resulting bytes on
// the wire into h.
func (s *symmetricState) EncryptAndHash(out, plaintext []byte) ([]byte, error) {
	if !s.hasK {
		s.MixHash(plaintext)
		return append(out, plaintext...), nil
	}
	sealed, err := s.Encrypt(out, s.h, plaintext)
	if err != nil {
		return nil, err
	}
	s.MixHash(sealed[len(out):])
	return sealed, nil
}

// DecryptAndHash is EncryptAndHash's inverse: it mixes the wire bytes into h
// before returning the opened plaintext, so h advances identically on both
// sides. If decryption fails, h is left unchanged and the error is returned.
func (s *symmetricState) DecryptAndHash(out, wireBytes []byte) ([]byte, error) {
	if !s.hasK {
		s.MixHash(wireBytes)
		return append(out, wireBytes...), nil
	}
	plaintext, err := s.Decrypt(out, s.h, wireBytes)
	if err != nil {
		return nil, err
	}
	s.MixHash(wireBytes)
	return plaintext, nil
}

// Split derives the pair of transport CipherStates from the final ck, then
// wipes ck since nothing further should ever derive from it.
func (s *symmetricState) Split() (*CipherState, *CipherState) {
	c1, c2 := &CipherState{cs: s.cs}, &CipherState{cs: s.cs}
	k1, k2, _ := hkdf(s.cs.Hash, 2, nil, nil, nil, s.ck, nil)
	copy(c1.k[:], k1)
	copy(c2.k[:], k2)
	c1.c = s.cs.Cipher(c1.k)
	c2.c = s.cs.Cipher(c2.k)

	secureZero(k1)
	secureZero(k2)
	secureZero(s.ck)
	return c1, c2
}

// Checkpoint snapshots ck and h so a failed token can be undone with
// Rollback instead of leaving the transcript half-mixed.
func (s *symmetricState) Checkpoint() {
	s.prevCK = append(s.prevCK[:0], s.ck...)
	s.prevH = append(s.prevH[:0], s.h...)
}

// Rollback restores ck and h to the last Checkpoint.
func (s *symmetricState) Rollback() {
	s.ck = append(s.ck[:0], s.prevCK...)
	s.h = append(s.h[:0], s.prevH...)
}
