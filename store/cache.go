package store

// Cache buffers writes on top of a parent KV until Write is called. Dropping
// a Cache without writing it reverts everything done through it, which is
// how a failed sub message is rolled back while its caller keeps running.
type Cache struct {
	parent   KV
	toSet    map[string][]byte
	toDelete map[string]struct{}
}

func NewCache(parent KV) *Cache {
	return &Cache{
		parent:   parent,
		toSet:    make(map[string][]byte),
		toDelete: make(map[string]struct{}),
	}
}

// NewMemory returns a Cache without parent, a plain in-memory KV.
func NewMemory() *Cache {
	return NewCache(nil)
}

func (c *Cache) Get(key []byte) ([]byte, error) {
	k := string(key)
	if val, found := c.toSet[k]; found {
		return copyBytes(val), nil
	}
	if _, found := c.toDelete[k]; found {
		return nil, nil
	}
	if c.parent == nil {
		return nil, nil
	}
	return c.parent.Get(key)
}

func (c *Cache) Set(key, val []byte) error {
	k := string(key)
	delete(c.toDelete, k)
	c.toSet[k] = copyBytes(val)
	return nil
}

func (c *Cache) Delete(key []byte) error {
	k := string(key)
	delete(c.toSet, k)
	c.toDelete[k] = struct{}{}
	return nil
}

// Write flushes the buffered changes into the parent and resets the cache.
func (c *Cache) Write() error {
	if c.parent == nil {
		panic("write on a cache without parent")
	}
	for k := range c.toDelete {
		err := c.parent.Delete([]byte(k))
		if err != nil {
			return err
		}
	}
	for k, v := range c.toSet {
		err := c.parent.Set([]byte(k), v)
		if err != nil {
			return err
		}
	}
	c.toSet = make(map[string][]byte)
	c.toDelete = make(map[string]struct{})
	return nil
}
