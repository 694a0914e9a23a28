package engine

import (
	"hash/fnv"
	"sync"
)

// keyLocks provides single-writer-per-key discipline for merchant
// records: categorize and learn calls for the same normalized merchant
// serialize, while different merchants proceed in parallel. Striping
// keeps the lock table bounded regardless of merchant cardinality.
type keyLocks struct {
	stripes []sync.Mutex
}

func newKeyLocks(n int) *keyLocks {
	if n <= 0 {
		n = 64
	}
	return &keyLocks{stripes: make([]sync.Mutex, n)}
}

// lock acquires the stripe for the key and returns its unlock func.
func (k *keyLocks) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	stripe := &k.stripes[h.Sum32()%uint32(len(k.stripes))]
	stripe.Lock()
	return stripe.Unlock
}
