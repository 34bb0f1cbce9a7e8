package store

import (
	"github.com/dgraph-io/badger/v3"
)

// KV is the keyed storage every contract and the bank operate on. Get
// returns nil without error when the key is absent.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, val []byte) error
	Delete(key []byte) error
}

type Txn struct {
	txn *badger.Txn
}

func (t *Txn) Get(key []byte) ([]byte, error) {
	item, err := t.txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (t *Txn) Set(key, val []byte) error {
	return t.txn.Set(copyBytes(key), copyBytes(val))
}

func (t *Txn) Delete(key []byte) error {
	return t.txn.Delete(copyBytes(key))
}

type PrefixStore struct {
	parent KV
	prefix []byte
}

// NewPrefix namespaces all keys of parent under prefix, so that each contract
// sees only its own state.
func NewPrefix(parent KV, prefix string) *PrefixStore {
	return &PrefixStore{
		parent: parent,
		prefix: []byte(prefix),
	}
}

func (ps *PrefixStore) Get(key []byte) ([]byte, error) {
	return ps.parent.Get(ps.key(key))
}

func (ps *PrefixStore) Set(key, val []byte) error {
	return ps.parent.Set(ps.key(key), val)
}

func (ps *PrefixStore) Delete(key []byte) error {
	return ps.parent.Delete(ps.key(key))
}

func (ps *PrefixStore) key(key []byte) []byte {
	buf := make([]byte, 0, len(ps.prefix)+len(key))
	buf = append(buf, ps.prefix...)
	return append(buf, key...)
}
