package repository

import (
	"math"

	"cloud.google.com/go/firestore"
)

// cosineDistance computes 1 - cosine similarity between two vectors.
// Mismatched or zero-magnitude vectors yield the maximum distance so
// they never rank as close matches.
func cosineDistance(a, b firestore.Vector32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 2.0
	}

	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
