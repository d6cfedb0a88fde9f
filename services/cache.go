package services

// cache is a keyed entity cache used during a single population run to
// materialize each logical entity exactly once even though the source
// table repeats it across many rows. One instance per entity kind per
// run; discarded afterwards.
type cache[K comparable, V any] struct {
	items map[K]V
}

func newCache[K comparable, V any]() *cache[K, V] {
	return &cache[K, V]{items: make(map[K]V)}
}

// getOrCreate returns the cached value for key, calling create on a miss.
// Nothing is cached when create fails. The second return value reports
// whether create ran.
func (c *cache[K, V]) getOrCreate(key K, create func() (V, error)) (V, bool, error) {
	if v, ok := c.items[key]; ok {
		return v, false, nil
	}
	v, err := create()
	if err != nil {
		var zero V
		return zero, false, err
	}
	c.items[key] = v
	return v, true, nil
}

func (c *cache[K, V]) len() int {
	return len(c.items)
}
