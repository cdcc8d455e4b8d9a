package domain

// Random picks uniformly distributed integers in [0, n).
// *math/rand/v2.Rand satisfies it.
type Random interface {
	IntN(n int) int
}
