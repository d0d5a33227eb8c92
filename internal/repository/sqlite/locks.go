package sqlite

import (
	"hash/fnv"
	"sync"
)

// keyLocks serializes transactional operations per key: two deletes of
// the same account, or two toggles for the same (review, user), never
// interleave, while disjoint keys proceed concurrently. Striping keeps
// the table bounded without per-key cleanup.
type keyLocks struct {
	stripes [64]sync.Mutex
}

func newKeyLocks() *keyLocks {
	return &keyLocks{}
}

// lock acquires the stripe for key and returns its unlock func
func (k *keyLocks) lock(key string) func() {
	h := fnv.New32a()
	h.Write([]byte(key))
	m := &k.stripes[h.Sum32()%uint32(len(k.stripes))]
	m.Lock()
	return m.Unlock
}
