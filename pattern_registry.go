package noise

import (
	"regexp"
	"strconv"
)

// pskModifierRE matches one or more "psk<digit>" modifiers appended to a
// base pattern name, e.g. "psk0", "psk2psk4".
var pskModifierRE = regexp.MustCompile(`^(psk[0-9])+$`)
var onePskModifierRE = regexp.MustCompile(`psk([0-9])`)

// LookupPattern resolves a full pattern name such as "XX", "IK", or
// "NNpsk2" into a HandshakePattern with every requested psk token spliced
// into its message patterns. It rejects an unknown base pattern with
// ErrUnknownPattern and an out-of-range psk placement with
// ErrBadPatternModifier.
func LookupPattern(name string) (HandshakePattern, error) {
	base, mods, err := splitPatternName(name)
	if err != nil {
		return HandshakePattern{}, err
	}

	pat, ok := basePatterns[base]
	if !ok {
		return HandshakePattern{}, ErrUnknownPattern
	}
	if len(mods) == 0 {
		return pat, nil
	}

	// Clone the message pattern slices so callers never mutate the shared
	// base table.
	messages := make([][]MessagePattern, len(pat.Messages))
	for i, m := range pat.Messages {
		messages[i] = append([]MessagePattern(nil), m...)
	}
	pat.Messages = messages
	pat.Name = name

	for _, placement := range mods {
		if placement < 0 || placement > len(pat.Messages) {
			return HandshakePattern{}, ErrBadPatternModifier
		}
		if placement == 0 {
			pat.Messages[0] = append([]MessagePattern{MessagePatternPSK}, pat.Messages[0]...)
		} else {
			idx := placement - 1
			pat.Messages[idx] = append(pat.Messages[idx], MessagePatternPSK)
		}
	}
	return pat, nil
}

// splitPatternName separates a pattern name into its base (e.g. "XX") and
// an ordered list of psk placement indices (e.g. "NNpsk0psk2" -> "NN",
// [0, 2]).
func splitPatternName(name string) (base string, placements []int, err error) {
	// Base names are 1 or 2 uppercase letters; everything after that must
	// be a run of "psk<digit>" modifiers.
	i := 0
	for i < len(name) && name[i] >= 'A' && name[i] <= 'Z' {
		i++
	}
	if i == 0 {
		return "", nil, ErrUnknownPattern
	}
	base = name[:i]
	rest := name[i:]
	if rest == "" {
		return base, nil, nil
	}
	if !pskModifierRE.MatchString(rest) {
		return "", nil, ErrBadPatternModifier
	}
	for _, m := range onePskModifierRE.FindAllStringSubmatch(rest, -1) {
		n, convErr := strconv.Atoi(m[1])
		if convErr != nil {
			return "", nil, ErrBadPatternModifier
		}
		placements = append(placements, n)
	}
	return base, placements, nil
}
