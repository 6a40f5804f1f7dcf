// Package noise implements the handshake core of the Noise Protocol
// Framework: a symmetric-state/cipher-state layer, a handshake pattern
// registry, and the HandshakeState driver that interprets a pattern's tokens
// into DH operations, key mixing, and authenticated encryption, terminating
// in a pair of transport CipherStates. See https://noiseprotocol.org.
package noise

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"
)

// HandshakeState drives one side of a Noise handshake. It is mutated by
// WriteMessage/ReadMessage (and SetPresharedKey, which replaces the psk) and
// is safe to use from multiple goroutines
// (guarded by mu), though the handshake itself is inherently sequential: a
// call out of turn returns ErrOutOfTurn rather than blocking.
type HandshakeState struct {
	ss symmetricState

	s DHKey // local static keypair
	e DHKey // local ephemeral keypair

	rs []byte // remote static public key, once learned
	re []byte // remote ephemeral public key, once learned

	psk     []byte // preshared key, may be unset until a later message needs it
	willPsk bool    // true once any psk token appears in the pattern, even before psk is set

	messagePatterns [][]MessagePattern
	msgIdx          int
	shouldWrite     bool
	initiator       bool

	rng io.Reader
	mu  sync.Mutex
}

// NewHandshakeState starts a handshake from a fully specified Config. If
// c.PresharedKey is set (or c.PresharedKeyPlacement implies a psk the caller
// will supply later via SetPresharedKey), a psk token is spliced into a copy
// of c.Pattern.Messages at the requested placement before anything else
// happens; do not pass a pattern that LookupPattern has already spliced a
// psk into, or the token ends up doubled.
func NewHandshakeState(c Config) (*HandshakeState, error) {
	hs := &HandshakeState{
		s:               c.StaticKeypair,
		e:               c.EphemeralKeypair,
		rs:              c.PeerStatic,
		messagePatterns: c.Pattern.Messages,
		shouldWrite:     c.Initiator,
		initiator:       c.Initiator,
		rng:             c.Random,
	}
	if hs.rng == nil {
		hs.rng = rand.Reader
	}
	if len(c.PeerEphemeral) > 0 {
		hs.re = append([]byte(nil), c.PeerEphemeral...)
	}
	hs.ss.cs = c.CipherSuite

	nameSuffix := ""
	// psk0/psk1 must be set now since the first message needs them; later
	// placements may be supplied mid-handshake via SetPresharedKey.
	if len(c.PresharedKey) > 0 || c.PresharedKeyPlacement >= 2 {
		hs.willPsk = true
		if len(c.PresharedKey) > 0 {
			if err := hs.SetPresharedKey(c.PresharedKey); err != nil {
				return nil, err
			}
		}
		if c.PresharedKeyPlacement < 0 || c.PresharedKeyPlacement > len(hs.messagePatterns) {
			return nil, ErrBadPatternModifier
		}
		nameSuffix = fmt.Sprintf("psk%d", c.PresharedKeyPlacement)
		hs.messagePatterns = append([][]MessagePattern(nil), hs.messagePatterns...)
		if c.PresharedKeyPlacement == 0 {
			hs.messagePatterns[0] = append([]MessagePattern{MessagePatternPSK}, hs.messagePatterns[0]...)
		} else {
			idx := c.PresharedKeyPlacement - 1
			hs.messagePatterns[idx] = append(hs.messagePatterns[idx], MessagePatternPSK)
		}
	}
	for _, m := range hs.messagePatterns {
		for _, tok := range m {
			if tok == MessagePatternPSK {
				hs.willPsk = true
			}
		}
	}

	hs.ss.InitializeSymmetric([]byte("Noise_" + c.Pattern.Name + nameSuffix + "_" + string(hs.ss.cs.Name())))
	hs.ss.MixHash(c.Prologue)

	if err := hs.mixPremessages(c.Pattern.InitiatorPreMessages, c.Initiator); err != nil {
		return nil, err
	}
	if err := hs.mixPremessages(c.Pattern.ResponderPreMessages, !c.Initiator); err != nil {
		return nil, err
	}
	return hs, nil
}

// mixPremessages mixes the public keys a pattern's premessage tokens assume
// are already known. localOwnsTokens is true when hs is the party these
// tokens describe (e.g. the initiator for InitiatorPreMessages); that party
// mixes its own key, the other party mixes what it was told the remote key
// is.
func (s *HandshakeState) mixPremessages(tokens []MessagePattern, localOwnsTokens bool) error {
	for _, tok := range tokens {
		var key []byte
		switch {
		case localOwnsTokens && tok == MessagePatternS:
			key = s.s.Public
		case localOwnsTokens && tok == MessagePatternE:
			key = s.e.Public
		case !localOwnsTokens && tok == MessagePatternS:
			key = s.rs
		case !localOwnsTokens && tok == MessagePatternE:
			key = s.re
		}
		if len(key) == 0 {
			return ErrMissingKey
		}
		s.ss.MixHash(key)
	}
	return nil
}

// NewHandshakeStateFromProtocol resolves protocolName (e.g.
// "Noise_XX_25519_ChaChaPoly_SHA256") via ParseProtocolName and starts a new
// handshake with the resulting pattern and cipher suite; every other field of
// c is used as given, with c.Pattern and c.CipherSuite overwritten.
func NewHandshakeStateFromProtocol(protocolName string, c Config) (*HandshakeState, error) {
	parsed, err := ParseProtocolName(protocolName)
	if err != nil {
		return nil, err
	}
	c.Pattern = parsed.Pattern
	c.CipherSuite = parsed.CipherSuite
	return NewHandshakeState(c)
}

// SetPresharedKey installs or replaces the handshake's preshared key. It
// must be called before the message pattern carrying the corresponding psk
// token is processed.
func (s *HandshakeState) SetPresharedKey(psk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(psk) != 32 {
		return errors.New("noise: specification mandates 256-bit preshared keys")
	}
	if s.psk != nil {
		secureZero(s.psk)
	}
	s.psk = append([]byte(nil), psk...)
	return nil
}

// dhToken resolves a DHEE/DHES/DHSE/DHSS token into the two keys it operates
// on, given which role is currently processing the message. Every one of
// these tokens is symmetric between WriteMessage and ReadMessage: the same
// two keys DH together regardless of who is producing or consuming the
// message, which is what lets both call sites share this dispatch.
func (s *HandshakeState) dhToken(tok MessagePattern) (priv, pub []byte, ok bool) {
	switch tok {
	case MessagePatternDHEE:
		return s.e.Private, s.re, true
	case MessagePatternDHES:
		if s.initiator {
			return s.e.Private, s.rs, true
		}
		return s.s.Private, s.re, true
	case MessagePatternDHSE:
		if s.initiator {
			return s.s.Private, s.re, true
		}
		return s.e.Private, s.rs, true
	case MessagePatternDHSS:
		return s.s.Private, s.rs, true
	default:
		return nil, nil, false
	}
}

// mixDH performs the DH for tok and folds the result into the chaining key,
// zeroing the intermediate shared secret once it's been absorbed.
func (s *HandshakeState) mixDH(tok MessagePattern) error {
	priv, pub, ok := s.dhToken(tok)
	if !ok {
		return nil
	}
	if len(priv) == 0 || len(pub) == 0 {
		return ErrMissingKey
	}
	shared, err := s.ss.cs.DH(priv, pub)
	if err != nil {
		return err
	}
	s.ss.MixKey(shared)
	secureZero(shared)
	return nil
}

// WriteMessage appends the next handshake message to out, including the
// optional payload. If this call exhausts the pattern, the two transport
// CipherStates are returned (send, then receive, from the initiator's point
// of view); otherwise both are nil and the handshake continues.
func (s *HandshakeState) WriteMessage(out, payload []byte) ([]byte, *CipherState, *CipherState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.shouldWrite {
		return nil, nil, nil, ErrOutOfTurn
	}
	if s.msgIdx >= len(s.messagePatterns) {
		return nil, nil, nil, ErrHandshakeComplete
	}
	if len(payload) > MaxMsgLen {
		return nil, nil, nil, errors.New("noise: message is too long")
	}

	for _, tok := range s.messagePatterns[s.msgIdx] {
		switch tok {
		case MessagePatternE:
			if len(s.e.Public) == 0 {
				e, err := s.ss.cs.GenerateKeypair(s.rng)
				if err != nil {
					return nil, nil, nil, err
				}
				s.e = e
			}
			out = append(out, s.e.Public...)
			s.ss.MixHash(s.e.Public)
			if s.willPsk {
				s.ss.MixKey(s.e.Public)
			}
		case MessagePatternS:
			if len(s.s.Public) == 0 {
				return nil, nil, nil, fmt.Errorf("%w: local static key", ErrMissingKey)
			}
			var err error
			out, err = s.ss.EncryptAndHash(out, s.s.Public)
			if err != nil {
				return nil, nil, nil, err
			}
		case MessagePatternPSK:
			if len(s.psk) == 0 {
				return nil, nil, nil, fmt.Errorf("%w: preshared key", ErrMissingKey)
			}
			s.ss.MixKeyAndHash(s.psk)
		default:
			if err := s.mixDH(tok); err != nil {
				return nil, nil, nil, err
			}
		}
	}

	s.shouldWrite = false
	s.msgIdx++
	out, err := s.ss.EncryptAndHash(out, payload)
	if err != nil {
		return nil, nil, nil, err
	}

	if s.msgIdx >= len(s.messagePatterns) {
		cs1, cs2 := s.ss.Split()
		return out, cs1, cs2, nil
	}
	return out, nil, nil, nil
}

// ReadMessage processes a received handshake message, appending any payload
// to out. Like WriteMessage, it returns two transport CipherStates once the
// pattern is exhausted, nil otherwise. On an error while processing the
// message's tokens or payload, ck and h are rolled back to their values
// before this call; the symmetric state's cipher key and nonce, and a remote
// ephemeral key already read from the message, are not restored.
func (s *HandshakeState) ReadMessage(out, message []byte) ([]byte, *CipherState, *CipherState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shouldWrite {
		return nil, nil, nil, ErrOutOfTurn
	}
	if s.msgIdx >= len(s.messagePatterns) {
		return nil, nil, nil, ErrHandshakeComplete
	}
	if len(message) > MaxMsgLen {
		return nil, nil, nil, errors.New("noise: message exceeds maximum length")
	}

	s.ss.Checkpoint()
	rsLearned := false

	for _, tok := range s.messagePatterns[s.msgIdx] {
		switch tok {
		case MessagePatternE, MessagePatternS:
			fieldLen := s.ss.cs.DHLen()
			if tok == MessagePatternS && s.ss.hasK {
				fieldLen += 16
			}
			if len(message) < fieldLen {
				s.ss.Rollback()
				return nil, nil, nil, ErrShortMessage
			}

			var err error
			if tok == MessagePatternE {
				s.re = append(s.re[:0], message[:fieldLen]...)
				s.ss.MixHash(s.re)
				if s.willPsk {
					s.ss.MixKey(s.re)
				}
			} else {
				if len(s.rs) > 0 {
					s.ss.Rollback()
					return nil, nil, nil, errors.New("noise: invalid state, rs is not nil")
				}
				s.rs, err = s.ss.DecryptAndHash(s.rs[:0], message[:fieldLen])
				rsLearned = err == nil
			}
			if err != nil {
				s.ss.Rollback()
				return nil, nil, nil, err
			}
			message = message[fieldLen:]
		case MessagePatternPSK:
			if len(s.psk) == 0 {
				s.ss.Rollback()
				return nil, nil, nil, fmt.Errorf("%w: preshared key", ErrMissingKey)
			}
			s.ss.MixKeyAndHash(s.psk)
		default:
			if err := s.mixDH(tok); err != nil {
				s.ss.Rollback()
				return nil, nil, nil, err
			}
		}
	}

	out, err := s.ss.DecryptAndHash(out, message)
	if err != nil {
		s.ss.Rollback()
		if rsLearned {
			s.rs = nil
		}
		return nil, nil, nil, err
	}
	s.shouldWrite = true
	s.msgIdx++

	if s.msgIdx >= len(s.messagePatterns) {
		cs1, cs2 := s.ss.Split()
		return out, cs1, cs2, nil
	}
	return out, nil, nil, nil
}

// ChannelBinding returns the current transcript hash, suitable as a channel
// binding once the handshake is complete. It's only meaningful after at
// least one message has been processed.
func (s *HandshakeState) ChannelBinding() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ss.h
}

// PeerStatic returns the remote party's static public key, once a message
// carrying (or presupposing) it has been processed.
func (s *HandshakeState) PeerStatic() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rs
}

// PeerEphemeral returns the remote party's ephemeral public key, once a
// message carrying (or presupposing) it has been processed.
func (s *HandshakeState) PeerEphemeral() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.re
}

// LocalEphemeral returns the local ephemeral keypair generated (or
// configured) during the handshake so far.
func (s *HandshakeState) LocalEphemeral() DHKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.e
}

// MessageIndex returns the index of the next message pattern to be
// processed.
func (s *HandshakeState) MessageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msgIdx
}
