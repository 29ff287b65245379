package blockchain

import (
	"sync"

	"github.com/OdyseeTeam/fast-tx/blockchain/model"
	"github.com/OdyseeTeam/fast-tx/blockchain/stream"
	"github.com/OdyseeTeam/fast-tx/storage"

	"github.com/lbryio/lbcd/chaincfg/chainhash"
	"github.com/sirupsen/logrus"
)

// Decoded is a transaction together with its identifiers.
type Decoded struct {
	TxID  chainhash.Hash
	WTxID chainhash.Hash
	Tx    *model.Transaction
}

type client struct {
	mu      sync.RWMutex
	archive *storage.Archive

	onTransactionFn func(tx Decoded)
	onInputFn       func(txid chainhash.Hash, n int, input model.Input)
	onOutputFn      func(txid chainhash.Hash, n int, output model.Output)
}

type Chain interface {
	Decode(raw []byte) (*Decoded, error)
	Store(raw []byte) (*Decoded, error)
	ForEachRaw(fn func(txid chainhash.Hash, raw []byte) error) error
	OnTransaction(func(tx Decoded))
	OnInput(func(txid chainhash.Hash, n int, input model.Input))
	OnOutput(func(txid chainhash.Hash, n int, output model.Output))
	Notify(tx Decoded)
	Close() error
}

type Config struct {
	ArchiveDir string // empty = decode only, nothing is stored
}

func New(config Config) (Chain, error) {
	chain := &client{}
	if config.ArchiveDir != "" {
		archive, err := storage.OpenArchive(config.ArchiveDir)
		if err != nil {
			return nil, err
		}
		chain.archive = archive
	}
	return chain, nil
}

// Decode decodes raw and computes its txid and wtxid. Nothing is stored and no
// callbacks are run.
func (c *client) Decode(raw []byte) (*Decoded, error) {
	tx, err := stream.Decode(raw)
	if err != nil {
		return nil, err
	}

	txid, err := stream.TxHash(tx)
	if err != nil {
		return nil, err
	}
	wtxid, err := stream.WitnessHash(tx)
	if err != nil {
		return nil, err
	}

	return &Decoded{TxID: txid, WTxID: wtxid, Tx: tx}, nil
}

// Store decodes raw, archives it if an archive is configured and notifies the
// callbacks. Transactions that fail to decode are not archived.
func (c *client) Store(raw []byte) (*Decoded, error) {
	decoded, err := c.Decode(raw)
	if err != nil {
		return nil, err
	}

	if c.archive != nil {
		err = c.archive.Put(decoded.TxID, raw)
		if err != nil {
			return nil, err
		}
		logrus.Debugf("archived %s (%d bytes)", decoded.TxID, len(raw))
	}

	c.Notify(*decoded)
	return decoded, nil
}

// ForEachRaw walks the archive. Without an archive it does nothing.
func (c *client) ForEachRaw(fn func(txid chainhash.Hash, raw []byte) error) error {
	if c.archive == nil {
		return nil
	}
	return c.archive.ForEach(fn)
}

func (c *client) OnTransaction(fn func(Decoded)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTransactionFn = fn
}

func (c *client) OnInput(fn func(chainhash.Hash, int, model.Input)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onInputFn = fn
}

func (c *client) OnOutput(fn func(chainhash.Hash, int, model.Output)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onOutputFn = fn
}

// Notify runs the registered callbacks for tx. It may be called from several
// goroutines at once, so callbacks must be safe for concurrent use.
func (c *client) Notify(tx Decoded) {
	c.mu.RLock()
	onTransactionFn, onInputFn, onOutputFn := c.onTransactionFn, c.onInputFn, c.onOutputFn
	c.mu.RUnlock()

	if onTransactionFn != nil {
		onTransactionFn(tx)
	}
	if onInputFn != nil {
		for n, in := range tx.Tx.Inputs {
			onInputFn(tx.TxID, n, in)
		}
	}
	if onOutputFn != nil {
		for n, out := range tx.Tx.Outputs {
			onOutputFn(tx.TxID, n, out)
		}
	}
}

func (c *client) Close() error {
	if c.archive == nil {
		return nil
	}
	return c.archive.Close()
}
