package storage

import (
	"github.com/cockroachdb/errors"
	"github.com/lbryio/lbcd/chaincfg/chainhash"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var rawTxPrefix = []byte("t")

// Archive keeps raw serialized transactions keyed by txid.
type Archive struct {
	db *leveldb.DB
}

func OpenArchive(dir string) (*Archive, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening archive %s", dir)
	}
	return &Archive{db: db}, nil
}

func rawTxKey(txid chainhash.Hash) []byte {
	return append(append([]byte{}, rawTxPrefix...), txid[:]...)
}

func (a *Archive) Put(txid chainhash.Hash, raw []byte) error {
	return errors.WithStack(a.db.Put(rawTxKey(txid), raw, nil))
}

// Get returns the raw transaction, or nil if txid is not archived.
func (a *Archive) Get(txid chainhash.Hash) ([]byte, error) {
	raw, err := a.db.Get(rawTxKey(txid), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return raw, nil
}

// ForEach calls fn for every archived transaction in key order. The slice
// passed to fn is a copy and may be kept. Iteration stops at the first error.
func (a *Archive) ForEach(fn func(txid chainhash.Hash, raw []byte) error) error {
	iter := a.db.NewIterator(util.BytesPrefix(rawTxPrefix), nil)
	defer iter.Release()

	for iter.Next() {
		// Remember that the contents of the returned slice should not be modified, and
		// only valid until the next call to Next.
		key := iter.Key()
		txid, err := chainhash.NewHash(key[len(rawTxPrefix):])
		if err != nil {
			return errors.Wrapf(err, "bad archive key %x", key)
		}

		raw := make([]byte, len(iter.Value()))
		copy(raw, iter.Value())

		if err := fn(*txid, raw); err != nil {
			return err
		}
	}

	return errors.WithStack(iter.Error())
}

func (a *Archive) Count() (int, error) {
	n := 0
	err := a.ForEach(func(chainhash.Hash, []byte) error {
		n++
		return nil
	})
	return n, err
}

func (a *Archive) Close() error {
	return errors.WithStack(a.db.Close())
}
