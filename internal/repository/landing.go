package repository

import "math/rand"

// SampleIDs returns up to n ids drawn uniformly without replacement. When
// the pool holds n ids or fewer, all of them are returned. The input slice
// is not modified.
func SampleIDs(ids []uint64, n int) []uint64 {
	if n < 0 {
		n = 0
	}
	pool := make([]uint64, len(ids))
	copy(pool, ids)
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}
