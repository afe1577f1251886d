// Package hash provides the content hash used to key cached coding units.
//
// The hash is a Rabin-Karp polynomial over the bytes followed by a 64-bit
// finalizer. It is not a cryptographic hash: adversarial inputs may
// collide, which costs a wrong cache hit for the colliding tiles only.
package hash
