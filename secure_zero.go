package noise

import "runtime"

// secureZero overwrites b with zeros. A plain loop is enough to clear the
// bytes; runtime.KeepAlive after the loop is what stops the compiler from
// deciding the writes are dead (b is about to go out of scope) and dropping
// them.
func secureZero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
