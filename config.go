package noise

import "io"

// Config carries everything a HandshakeState needs to start a Noise
// handshake. It is read-only to NewHandshakeState and may be reused across
// multiple handshakes.
type Config struct {
	// CipherSuite selects the DH, cipher, and hash algorithms in use.
	CipherSuite CipherSuite

	// Pattern is the handshake pattern being run.
	Pattern HandshakePattern

	// Initiator is true for the party that sends the first message.
	Initiator bool

	// Random supplies entropy for ephemeral keypair generation. Defaults to
	// crypto/rand.Reader when nil.
	Random io.Reader

	// Prologue is data both parties have already agreed on out of band; it's
	// mixed into the transcript hash but never sent on the wire, so it must
	// match exactly or the handshake will fail authentication.
	Prologue []byte

	// PresharedKey, if non-empty, must be exactly 32 bytes and is spliced
	// into the pattern at PresharedKeyPlacement as a psk token.
	PresharedKey []byte

	// PresharedKeyPlacement selects which message the psk token attaches to:
	// 0 means the token is prepended to the first message, N>0 means it is
	// appended to message N.
	PresharedKeyPlacement int

	// StaticKeypair is the local party's long-term keypair, required by any
	// pattern that sends or references a local "s" token.
	StaticKeypair DHKey

	// EphemeralKeypair overrides ephemeral keypair generation; only meant for
	// reproducing test vectors with fixed ephemerals.
	EphemeralKeypair DHKey

	// PeerStatic is the remote party's static public key, required when the
	// pattern's premessages assume it's already known.
	PeerStatic []byte

	// PeerEphemeral is the remote party's ephemeral public key, required
	// when the pattern's premessages assume it's already known.
	PeerEphemeral []byte
}
