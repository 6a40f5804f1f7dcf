package noise

// A DHKey is a Diffie-Hellman keypair: raw bytes, curve-specific length,
// as produced by a DHFunc's GenerateKeypair.
type DHKey struct {
	Private []byte
	Public  []byte
}
