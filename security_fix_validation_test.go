package noise

import (
	"bytes"
	"crypto/rand"
	"testing"
)

// TestSetPresharedKeyZeroesPrevious checks that replacing an already-set psk
// wipes the old bytes rather than just dropping the reference to them.
func TestSetPresharedKeyZeroesPrevious(t *testing.T) {
	hs := &HandshakeState{}

	first := bytes.Repeat([]byte{0x11}, 32)
	if err := hs.SetPresharedKey(first); err != nil {
		t.Fatalf("SetPresharedKey(first): %v", err)
	}
	oldPSK := hs.psk

	second := bytes.Repeat([]byte{0x22}, 32)
	if err := hs.SetPresharedKey(second); err != nil {
		t.Fatalf("SetPresharedKey(second): %v", err)
	}

	if !allZero(oldPSK) {
		t.Fatalf("previous psk buffer not zeroed: %x", oldPSK)
	}
	if !bytes.Equal(hs.psk, second) {
		t.Fatalf("current psk = %x, want %x", hs.psk, second)
	}
}

func TestSetPresharedKeyRejectsWrongLength(t *testing.T) {
	hs := &HandshakeState{}
	for _, n := range []int{0, 16, 31, 33, 64} {
		if err := hs.SetPresharedKey(make([]byte, n)); err == nil {
			t.Errorf("SetPresharedKey accepted a %d-byte key", n)
		}
	}
}

// TestHandshakeWithPayloadsCarriesPlaintextBothWays exercises
// EncryptAndHash/DecryptAndHash's payload path end to end, including the
// pre-key pass-through on message one and the AEAD-sealed path on message
// two, once the handshake has a key.
func TestHandshakeWithPayloadsCarriesPlaintextBothWays(t *testing.T) {
	cs := NewCipherSuite(DH25519, CipherChaChaPoly, HashSHA256)

	initiator, err := NewHandshakeState(Config{CipherSuite: cs, Random: rand.Reader, Pattern: HandshakeNN, Initiator: true})
	if err != nil {
		t.Fatalf("NewHandshakeState initiator: %v", err)
	}
	responder, err := NewHandshakeState(Config{CipherSuite: cs, Random: rand.Reader, Pattern: HandshakeNN, Initiator: false})
	if err != nil {
		t.Fatalf("NewHandshakeState responder: %v", err)
	}

	msg1, _, _, err := initiator.WriteMessage(nil, []byte("hello"))
	if err != nil {
		t.Fatalf("initiator.WriteMessage: %v", err)
	}
	payload1, _, _, err := responder.ReadMessage(nil, msg1)
	if err != nil {
		t.Fatalf("responder.ReadMessage: %v", err)
	}
	if string(payload1) != "hello" {
		t.Fatalf("payload1 = %q, want %q", payload1, "hello")
	}

	msg2, sendCS, recvCS, err := responder.WriteMessage(nil, []byte("world"))
	if err != nil {
		t.Fatalf("responder.WriteMessage: %v", err)
	}
	if sendCS == nil || recvCS == nil {
		t.Fatal("responder did not complete the handshake on its second message")
	}

	payload2, iSend, iRecv, err := initiator.ReadMessage(nil, msg2)
	if err != nil {
		t.Fatalf("initiator.ReadMessage: %v", err)
	}
	if iSend == nil || iRecv == nil {
		t.Fatal("initiator did not complete the handshake on reading message two")
	}
	if string(payload2) != "world" {
		t.Fatalf("payload2 = %q, want %q", payload2, "world")
	}
}
