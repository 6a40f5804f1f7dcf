package noise

import "strings"

// dhByName maps the DH component of a protocol name to its DHFunc.
var dhByName = map[string]DHFunc{
	"25519": DH25519,
}

var cipherByName = map[string]CipherFunc{
	"ChaChaPoly": CipherChaChaPoly,
	"AESGCM":     CipherAESGCM,
}

var hashByName = map[string]HashFunc{
	"SHA256":  HashSHA256,
	"SHA512":  HashSHA512,
	"BLAKE2s": HashBLAKE2s,
	"BLAKE2b": HashBLAKE2b,
}

// ParsedProtocol is the result of parsing a Noise protocol name.
type ParsedProtocol struct {
	Name        string
	Pattern     HandshakePattern
	CipherSuite CipherSuite
}

// ParseProtocolName parses a protocol name of the form
// "Noise_<Pattern>_<DH>_<Cipher>_<Hash>" into the handshake pattern and
// cipher suite it names. It returns ErrUnknownProtocol for a malformed name
// or an unrecognized algorithm; pattern errors from LookupPattern
// (ErrUnknownPattern, ErrBadPatternModifier) are returned as they are.
func ParseProtocolName(name string) (ParsedProtocol, error) {
	parts := strings.Split(name, "_")
	if len(parts) != 5 || parts[0] != "Noise" {
		return ParsedProtocol{}, ErrUnknownProtocol
	}

	pattern, err := LookupPattern(parts[1])
	if err != nil {
		return ParsedProtocol{}, err
	}

	dh, ok := dhByName[parts[2]]
	if !ok {
		return ParsedProtocol{}, ErrUnknownProtocol
	}

	cipher, ok := cipherByName[parts[3]]
	if !ok {
		return ParsedProtocol{}, ErrUnknownProtocol
	}

	h, ok := hashByName[parts[4]]
	if !ok {
		return ParsedProtocol{}, ErrUnknownProtocol
	}

	return ParsedProtocol{
		Name:        name,
		Pattern:     pattern,
		CipherSuite: NewCipherSuite(dh, cipher, h),
	}, nil
}
