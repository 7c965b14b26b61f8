package random

import (
	"crypto/rand"
	"math/big"
)

// GetRandomInt returns a uniform random int in [0, max).
// max <= 0 yields 0.
func GetRandomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0 // fallback
	}
	return int(n.Int64())
}

// SampleIndexes returns k distinct indexes from [0, n) in random order,
// using a partial Fisher-Yates shuffle. k is clamped to n.
func SampleIndexes(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + GetRandomInt(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
