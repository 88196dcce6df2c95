// Package vector holds the small amount of embedding math the ranking
// engine needs. All functions tolerate mismatched or empty inputs and
// degrade to zero values instead of returning errors.
package vector

import "math"

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Vectors of different lengths are truncated to the shorter one; a zero
// norm on either side yields 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Mean returns the component-wise arithmetic mean of the given vectors,
// computed over the shortest common length. Returns nil when there is
// nothing to average.
func Mean(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	length := len(vectors[0])
	for _, v := range vectors[1:] {
		if len(v) < length {
			length = len(v)
		}
	}
	if length == 0 {
		return nil
	}
	acc := make([]float64, length)
	for _, v := range vectors {
		for i := 0; i < length; i++ {
			acc[i] += float64(v[i])
		}
	}
	out := make([]float32, length)
	n := float64(len(vectors))
	for i, x := range acc {
		out[i] = float32(x / n)
	}
	return out
}
