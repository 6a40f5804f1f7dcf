package noise

import (
	"crypto/hmac"
	"hash"
)

// hkdf implements the Noise spec's HKDF: an HMAC extract step followed by up
// to three HMAC expand steps, each output chained into the next and tagged
// with a single trailing byte (0x01, 0x02, 0x03) per section 4.2's
// mix_key/mix_key_and_hash. out1, out2, out3 are append-style destinations
// (callers typically pass a reusable slice sliced to zero length, e.g.
// s.ck[:0], so the returned bytes land in a buffer they already own); outputs
// picks how many of the three to actually compute.
//
// out2's backing array also doubles as scratch space for the extract step's
// temporary key, since out2 is guaranteed empty on entry and its capacity
// would otherwise go unused until the second expand call.
func hkdf(h func() hash.Hash, outputs int, out1, out2, out3, chainingKey, inputKeyMaterial []byte) ([]byte, []byte, []byte) {
	if len(out1) != 0 || len(out2) != 0 || len(out3) != 0 {
		panic("noise: hkdf destination slices must start empty")
	}
	if outputs < 1 || outputs > 3 {
		panic("noise: hkdf outputs must be 1, 2, or 3")
	}

	extract := hmac.New(h, chainingKey)
	extract.Write(inputKeyMaterial)
	tempKey := extract.Sum(out2)

	expand := func(prev []byte, tag byte, dst []byte) []byte {
		m := hmac.New(h, tempKey)
		m.Write(prev)
		m.Write([]byte{tag})
		return m.Sum(dst)
	}

	out1 = expand(nil, 0x01, out1)
	if outputs == 1 {
		return out1, nil, nil
	}

	out2 = expand(out1, 0x02, out2)
	if outputs == 2 {
		return out1, out2, nil
	}

	out3 = expand(out2, 0x03, out3)
	return out1, out2, out3
}
