package timings

import (
	"testing"
)

func TestSHA256Hasher(t *testing.T) {
	h := SHA256Hasher()

	tests := []struct {
		input    string
		expected string
	}{
		{"", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for _, tt := range tests {
		got, err := h.Hash([]byte(tt.input))
		if err != nil {
			t.Fatalf("Hash() error: %v", err)
		}
		if got != tt.expected {
			t.Errorf("Hash(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBLAKE2bHasher(t *testing.T) {
	h := BLAKE2bHasher()

	tests := []struct {
		input    string
		expected string
	}{
		{"", "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8"},
		{"abc", "bddd813c634239723171ef3fee98579b94964e3bb1cb3e427262c8c068d52319"},
	}

	for _, tt := range tests {
		got, err := h.Hash([]byte(tt.input))
		if err != nil {
			t.Fatalf("Hash() error: %v", err)
		}
		if got != tt.expected {
			t.Errorf("Hash(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestHasher_Deterministic(t *testing.T) {
	for _, h := range []Hasher{SHA256Hasher(), BLAKE2bHasher()} {
		a, _ := h.Hash([]byte("world"))
		b, _ := h.Hash([]byte("world"))
		if a != b {
			t.Errorf("%T: same input should produce the same digest", h)
		}
		if len(a) != 64 {
			t.Errorf("%T: len(Hash()) = %d, want 64", h, len(a))
		}
	}
}

func TestHashFilter(t *testing.T) {
	f := hashFilter(SHA256Hasher())

	got, err := f(int64(5), nil)
	if err != nil {
		t.Fatalf("filter error: %v", err)
	}
	if got != "ef2d127de37b942baad06145e54b0c619a1f22327b2ebbcfbec78f5564afe39d" {
		t.Errorf("filter(5) = %v, want digest of \"5\"", got)
	}

	if got, _ := f(nil, nil); got != nil {
		t.Errorf("filter(nil) = %v, want nil", got)
	}
}
