package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
)

func hexToHash(t *testing.T, s string) types.Hash {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	var h types.Hash
	copy(h[:], b)
	return h
}

func TestHash(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "empty input",
			input: []byte{},
			want:  "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		},
		{
			name:  "hello",
			input: []byte("hello"),
			want:  "ea8f163db38682925e4491c5e58d4bb3506ef8c14eb78a86e908c5624a67200f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hash(tt.input)
			want := hexToHash(t, tt.want)
			if got != want {
				t.Errorf("Hash(%q) = %x, want %x", tt.input, got, want)
			}
		})
	}
}

func TestDoubleHash(t *testing.T) {
	input := []byte("hello")
	got := DoubleHash(input)
	want := hexToHash(t, "0f79bf7f41e10b873e0f24b701159b4951037967529d18dcacc9392a8fbf5163")

	if got != want {
		t.Errorf("DoubleHash(%q) = %x, want %x", input, got, want)
	}
}

func TestAddressFromPubKey(t *testing.T) {
	pubKey := make([]byte, 33)
	pubKey[0] = 0x02

	addr := AddressFromPubKey(pubKey)
	if addr.IsZero() {
		t.Error("derived address should not be zero")
	}

	// Deterministic.
	if AddressFromPubKey(pubKey) != addr {
		t.Error("address derivation should be deterministic")
	}

	// Sensitive to input.
	pubKey[1] = 0x01
	if AddressFromPubKey(pubKey) == addr {
		t.Error("different pubkeys should derive different addresses")
	}
}
