// pkg/archive/cache.go
package archive

import (
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// slot holds one block's decompressed data while any handle references it.
type slot struct {
	refcount int
	data     *BlockData
	reserved uint64
}

// blockCache is the per-session slot array, indexed by BlockID.
// Eviction happens only when a slot's refcount drops to zero.
type blockCache struct {
	mu     sync.Mutex
	slots  []slot
	group  singleflight.Group
	budget *MemoryBudget
}

func newBlockCache(blocks int, budget *MemoryBudget) *blockCache {
	return &blockCache{
		slots:  make([]slot, blocks),
		budget: budget,
	}
}

// acquire takes a reference on a block without decompressing it.
func (c *blockCache) acquire(id BlockID) {
	c.mu.Lock()
	c.slots[id].refcount++
	c.mu.Unlock()
}

// ensure returns the block's data, running load at most once for all
// concurrent callers. The declared size is reserved before load runs and
// the decoded data must match it. A failed load leaves the slot empty.
func (c *blockCache) ensure(id BlockID, declared func() (uint64, error), load func() (*BlockData, error)) (*BlockData, error) {
	if data := c.resident(id); data != nil {
		return data, nil
	}

	v, err, _ := c.group.Do(strconv.FormatUint(uint64(id), 10), func() (any, error) {
		if data := c.resident(id); data != nil {
			return data, nil
		}

		size, err := declared()
		if err != nil {
			return nil, err
		}
		if err := c.budget.Reserve(size); err != nil {
			return nil, err
		}
		data, err := load()
		if err != nil {
			c.budget.Release(size)
			return nil, err
		}
		if got := uint64(len(data.Data)); got != size {
			c.budget.Release(size)
			return nil, fmt.Errorf("%w: block %d decoded to %d bytes, header declares %d", ErrCorrupt, id, got, size)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		s := &c.slots[id]
		if s.refcount == 0 {
			// Every reference went away while decoding.
			c.budget.Release(size)
			return data, nil
		}
		s.data = data
		s.reserved = size
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*BlockData), nil
}

// release drops a reference and evicts the block at zero. It reports
// whether resident data was freed.
func (c *blockCache) release(id BlockID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := &c.slots[id]
	s.refcount--
	if s.refcount > 0 || s.data == nil {
		return false
	}
	c.budget.Release(s.reserved)
	s.data = nil
	s.reserved = 0
	return true
}

func (c *blockCache) resident(id BlockID) *BlockData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots[id].data
}

func (c *blockCache) refcount(id BlockID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots[id].refcount
}

func (c *blockCache) residentBytes() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total uint64
	for i := range c.slots {
		total += c.slots[i].reserved
	}
	return total
}
