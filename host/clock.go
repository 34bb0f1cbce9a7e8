package host

import (
	"encoding/binary"
	"sync"
	"time"
)

const clockStorePropertyKey = "HOST:CLOCK:MONOTONIC"

type PropertyStore interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)
}

// Clock hands out strictly increasing block times that survive restarts.
type Clock struct {
	sync.Mutex
	store PropertyStore
	now   time.Time
}

func NewClock(store PropertyStore) (*Clock, error) {
	bs, err := store.ReadProperty([]byte(clockStorePropertyKey))
	if err != nil {
		return nil, err
	}
	var ts time.Time
	if len(bs) == 8 {
		ts = time.Unix(0, int64(binary.BigEndian.Uint64(bs)))
	}
	if now := time.Now(); ts.Before(now) {
		ts = now
	}
	clock := new(Clock)
	clock.store = store
	clock.now = ts
	return clock, nil
}

func (c *Clock) Now() (time.Time, error) {
	c.Lock()
	defer c.Unlock()

	now := time.Now()
	if now.After(c.now) {
		c.now = now
	} else {
		c.now = c.now.Add(time.Nanosecond)
	}

	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(c.now.UnixNano()))
	err := c.store.WriteProperty([]byte(clockStorePropertyKey), val)
	return c.now, err
}
