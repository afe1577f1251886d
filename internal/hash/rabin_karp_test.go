package hash

import "testing"

func TestSum64Distinct(t *testing.T) {
	inputs := []struct {
		p     []byte
		extra uint64
	}{
		{nil, 0},
		{[]byte{0}, 0},
		{[]byte{0, 0}, 0},
		{[]byte{1}, 0},
		{[]byte{0, 1}, 0},
		{[]byte{1}, 1},
		{[]byte("tile"), 30},
		{[]byte("tile"), 31},
	}
	seen := make(map[uint64]int)
	for i, c := range inputs {
		h := Sum64(c.p, c.extra)
		if j, ok := seen[h]; ok {
			t.Errorf("Sum64 collision between inputs %d and %d", j, i)
		}
		seen[h] = i
	}
}

func TestSum64Stable(t *testing.T) {
	p := []byte("superblock")
	if Sum64(p, 7) != Sum64([]byte("superblock"), 7) {
		t.Errorf("Sum64 is not deterministic")
	}
}

func TestWrite(t *testing.T) {
	r := NewRabinKarp()
	h := r.Write(0, []byte{1, 2})
	if want := uint64(1*A + 2); h != want {
		t.Errorf("Write returned %d; want %d", h, want)
	}
}
