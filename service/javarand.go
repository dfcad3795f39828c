package service

// javaRandom is the 48-bit linear congruential generator of java.util.Random.
// The same seed yields the same sequence in both.
type javaRandom struct {
	seed int64
}

const (
	lcgMultiplier = 0x5DEECE66D
	lcgAddend     = 0xB
	lcgMask       = (1 << 48) - 1
)

func newJavaRandom(seed int64) *javaRandom {
	return &javaRandom{seed: (seed ^ lcgMultiplier) & lcgMask}
}

func (r *javaRandom) next(bits uint) int32 {
	r.seed = (r.seed*lcgMultiplier + lcgAddend) & lcgMask
	return int32(r.seed >> (48 - bits))
}

func (r *javaRandom) nextInt32() int32 {
	return r.next(32)
}

// nextInt draws uniformly from [0, bound). bound must be positive.
func (r *javaRandom) nextInt(bound int32) int32 {
	if bound <= 0 {
		panic("javaRandom: bound must be positive")
	}
	if bound&-bound == bound {
		return int32((int64(bound) * int64(r.next(31))) >> 31)
	}
	for {
		bits := r.next(31)
		val := bits % bound
		// the sum wraps negative exactly when bits fell in the biased tail
		if bits-val+(bound-1) >= 0 {
			return val
		}
	}
}
