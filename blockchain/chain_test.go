package blockchain

import (
	"encoding/hex"
	"path/filepath"
	"sync"
	"testing"

	"github.com/OdyseeTeam/fast-tx/blockchain/model"
	"github.com/OdyseeTeam/fast-tx/blockchain/stream"

	"github.com/cockroachdb/errors"
	"github.com/lbryio/lbcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genesisCoinbaseHex = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff4d04ffff001d0104455468652054696d65732030332f4a616e2f32303039204368616e63656c6c6f72206f6e206272696e6b206f66207365636f6e64206261696c6f757420666f722062616e6b73ffffffff0100f2052a01000000434104678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5fac00000000"

func TestChainStoreAndNotify(t *testing.T) {
	chain, err := New(Config{ArchiveDir: filepath.Join(t.TempDir(), "archive")})
	require.NoError(t, err)
	defer chain.Close()

	var mu sync.Mutex
	var txs []Decoded
	var inputs, outputs int
	chain.OnTransaction(func(tx Decoded) {
		mu.Lock()
		defer mu.Unlock()
		txs = append(txs, tx)
	})
	chain.OnInput(func(_ chainhash.Hash, _ int, in model.Input) {
		mu.Lock()
		defer mu.Unlock()
		inputs++
	})
	chain.OnOutput(func(_ chainhash.Hash, _ int, out model.Output) {
		mu.Lock()
		defer mu.Unlock()
		outputs++
	})

	raw, err := hex.DecodeString(genesisCoinbaseHex)
	require.NoError(t, err)

	decoded, err := chain.Store(raw)
	require.NoError(t, err)
	assert.Equal(t, "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b", decoded.TxID.String())
	require.Len(t, txs, 1)
	assert.Equal(t, 1, inputs)
	assert.Equal(t, 1, outputs)

	var archived [][]byte
	err = chain.ForEachRaw(func(txid chainhash.Hash, b []byte) error {
		assert.Equal(t, decoded.TxID, txid)
		archived = append(archived, b)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][]byte{raw}, archived)
}

func TestChainStoreRejectsBadTx(t *testing.T) {
	chain, err := New(Config{ArchiveDir: filepath.Join(t.TempDir(), "archive")})
	require.NoError(t, err)
	defer chain.Close()

	notified := false
	chain.OnTransaction(func(Decoded) { notified = true })

	raw, err := hex.DecodeString(genesisCoinbaseHex + "00")
	require.NoError(t, err)

	_, err = chain.Store(raw)
	assert.True(t, errors.Is(err, stream.ErrTrailingData))
	assert.False(t, notified)

	count := 0
	require.NoError(t, chain.ForEachRaw(func(chainhash.Hash, []byte) error {
		count++
		return nil
	}))
	assert.Zero(t, count)
}

func TestChainWithoutArchive(t *testing.T) {
	chain, err := New(Config{})
	require.NoError(t, err)
	defer chain.Close()

	raw, err := hex.DecodeString(genesisCoinbaseHex)
	require.NoError(t, err)

	decoded, err := chain.Store(raw)
	require.NoError(t, err)
	assert.Equal(t, decoded.TxID, decoded.WTxID)
	require.NoError(t, chain.ForEachRaw(func(chainhash.Hash, []byte) error {
		t.Fatal("no archive, nothing to walk")
		return nil
	}))
}
