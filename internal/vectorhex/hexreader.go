// Package vectorhex turns hex-encoded seed strings from Noise test vectors
// into deterministic io.Readers, so handshake tests can reproduce a fixed
// ephemeral key from a vector file instead of real randomness.
package vectorhex

import (
	"bytes"
	"encoding/hex"
	"io"
)

// Reader decodes s as hex and returns an io.Reader over the resulting bytes.
// It panics if s is not valid hex, since it is only ever called with
// constants lifted from test vector files.
func Reader(s string) io.Reader {
	res, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return bytes.NewBuffer(res)
}
