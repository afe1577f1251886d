package hash

// A is the default constant for the Rabin-Karp polynomial. This is a random
// prime.
const A = 252097800623

// offset is mixed into the initial value so that leading zero bytes change
// the hash.
const offset = 0xcbf29ce484222325

// RabinKarp computes polynomial hashes.
type RabinKarp struct {
	A uint64
}

// NewRabinKarp creates a new RabinKarp value using the default constant.
func NewRabinKarp() *RabinKarp {
	return &RabinKarp{A: A}
}

// AddYoung adds a "young" byte to the hash provided. The existing hash is
// multiplied accordingly.
func (r *RabinKarp) AddYoung(h uint64, b byte) uint64 {
	h *= r.A
	h += uint64(b)
	return h
}

// Write adds all bytes of p to the hash h.
func (r *RabinKarp) Write(h uint64, p []byte) uint64 {
	for _, b := range p {
		h = r.AddYoung(h, b)
	}
	return h
}

// Mix is the splitmix64 finalizer. It distributes the entropy of all input
// bits over the output.
func Mix(h uint64) uint64 {
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

// Sum64 hashes the byte slice p together with an additional 64-bit value.
func Sum64(p []byte, extra uint64) uint64 {
	r := NewRabinKarp()
	h := r.Write(offset, p)
	h = Mix(h ^ uint64(len(p)))
	return Mix(h ^ extra)
}
