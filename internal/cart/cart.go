package cart

import "sync"

// Cart is an ordered, duplicate-free set of product IDs a shopper
// intends to buy. It is plain in-memory state: nothing here survives a
// restart, by design a cart lives only as long as the browsing session.
// All operations are safe for concurrent use; two tabs of the same
// session can mutate the cart at once.
type Cart struct {
	mu    sync.Mutex
	ids   []int64
	index map[int64]struct{}
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{
		index: make(map[int64]struct{}),
	}
}

// Add inserts the product ID; adding an ID already in the cart is a no-op.
func (c *Cart) Add(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[id]; ok {
		return
	}
	c.index[id] = struct{}{}
	c.ids = append(c.ids, id)
}

// Remove deletes the product ID; removing an absent ID is a no-op.
func (c *Cart) Remove(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[id]; !ok {
		return
	}
	delete(c.index, id)
	for i, existing := range c.ids {
		if existing == id {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			break
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ids = c.ids[:0]
	c.index = make(map[int64]struct{})
}

// Contains reports whether the product ID is in the cart.
func (c *Cart) Contains(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.index[id]
	return ok
}

// List returns the product IDs in insertion order.
func (c *Cart) List() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]int64, len(c.ids))
	copy(out, c.ids)
	return out
}

// Len returns the number of products in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.ids)
}
