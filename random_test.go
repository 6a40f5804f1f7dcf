package noise

import "testing"

func TestRandomIncSequence(t *testing.T) {
	r := new(RandomInc)
	buf := make([]byte, 5)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("Read returned n=%d, want %d", n, len(buf))
	}
	want := []byte{0, 1, 2, 3, 4}
	for i, b := range buf {
		if b != want[i] {
			t.Errorf("buf[%d] = %d, want %d", i, b, want[i])
		}
	}

	// The counter continues across calls rather than resetting.
	buf2 := make([]byte, 3)
	if _, err := r.Read(buf2); err != nil {
		t.Fatalf("second Read failed: %v", err)
	}
	want2 := []byte{5, 6, 7}
	for i, b := range buf2 {
		if b != want2[i] {
			t.Errorf("buf2[%d] = %d, want %d", i, b, want2[i])
		}
	}
}

func TestRandomIncWrapsAroundByte(t *testing.T) {
	r := RandomInc(250)
	buf := make([]byte, 10)
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	want := []byte{250, 251, 252, 253, 254, 255, 0, 1, 2, 3}
	for i, b := range buf {
		if b != want[i] {
			t.Errorf("buf[%d] = %d, want %d", i, b, want[i])
		}
	}
}

func TestRandomIncTwoInstancesMatch(t *testing.T) {
	r1, r2 := new(RandomInc), new(RandomInc)
	buf1, buf2 := make([]byte, 32), make([]byte, 32)
	if _, err := r1.Read(buf1); err != nil {
		t.Fatalf("r1.Read failed: %v", err)
	}
	if _, err := r2.Read(buf2); err != nil {
		t.Fatalf("r2.Read failed: %v", err)
	}
	for i := range buf1 {
		if buf1[i] != buf2[i] {
			t.Fatalf("buf1[%d]=%d != buf2[%d]=%d, expected identical deterministic sequences", i, buf1[i], i, buf2[i])
		}
	}
}
