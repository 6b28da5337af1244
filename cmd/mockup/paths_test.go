package main

import "testing"

func TestThumbPath(t *testing.T) {
	tests := []struct {
		out  string
		size int
		want string
	}{
		{"mockup.png", 256, "mockup_256.png"},
		{"out/tee.front.jpg", 64, "out/tee.front_64.jpg"},
		{"noext", 32, "noext_32"},
	}
	for _, tt := range tests {
		if got := thumbPath(tt.out, tt.size); got != tt.want {
			t.Errorf("thumbPath(%q, %d) = %q, want %q", tt.out, tt.size, got, tt.want)
		}
	}
}
