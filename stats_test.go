package main

import (
	"encoding/csv"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/OdyseeTeam/fast-tx/blockchain"
	"github.com/OdyseeTeam/fast-tx/blockchain/model"

	"github.com/lbryio/lbcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustScript(t *testing.T, h string) model.Script {
	b, err := hex.DecodeString(h)
	require.NoError(t, err)
	return b
}

func TestUTXOMap(t *testing.T) {
	m := make(UTXOMap)
	a := outpoint{txid: chainhash.DoubleHashH([]byte("a")), nout: 2}

	assert.False(t, m.Has(a))
	m.Add(&utxo{outpoint: a, amount: 5})
	assert.True(t, m.Has(a))
	assert.False(t, m.Has(outpoint{txid: a.txid, nout: 0}))
	assert.False(t, m.Has(outpoint{txid: a.txid, nout: 7}))

	m.Delete(a)
	assert.False(t, m.Has(a))
	assert.Empty(t, m)
}

func TestPredeleteMap(t *testing.T) {
	m := make(PredeleteMap)
	a := outpoint{txid: chainhash.DoubleHashH([]byte("a")), nout: 1}

	m.Set(a)
	assert.True(t, m.Has(a))
	m.Delete(a)
	assert.False(t, m.Has(a))
	assert.Empty(t, m)
}

func TestStats(t *testing.T) {
	chain, err := blockchain.New(blockchain.Config{})
	require.NoError(t, err)
	defer chain.Close()

	p2pkh := mustScript(t, "76a91489abcdefabbaabbaabbaabbaabbaabbaabbaabba88ac")
	nulldata := mustScript(t, "6a0401020304")

	coinbase := blockchain.Decoded{
		TxID: chainhash.DoubleHashH([]byte("coinbase")),
		Tx: &model.Transaction{
			Inputs:  []model.Input{{PrevTxIndex: 0xffffffff}},
			Outputs: []model.Output{{Amount: 50, PKScript: p2pkh}, {Amount: 0, PKScript: nulldata}},
		},
	}
	spend := blockchain.Decoded{
		TxID: chainhash.DoubleHashH([]byte("spend")),
		Tx: &model.Transaction{
			IsSegWit: true,
			Inputs: []model.Input{
				{PrevTxHash: coinbase.TxID, PrevTxIndex: 0, Witness: model.Witness{{0x01}}},
				{PrevTxHash: chainhash.DoubleHashH([]byte("elsewhere")), PrevTxIndex: 3},
			},
			Outputs: []model.Output{{Amount: 40, PKScript: p2pkh}},
		},
	}

	finish := wireStats(chain)
	// the spend arrives first, as it can with parallel workers
	chain.Notify(spend)
	chain.Notify(coinbase)
	stats := finish()

	assert.Equal(t, 2, stats.Transactions)
	assert.Equal(t, 1, stats.SegWit)
	assert.Equal(t, 1, stats.Legacy)
	assert.Equal(t, 3, stats.Inputs)
	assert.Equal(t, 1, stats.CoinbaseInputs)
	assert.Equal(t, 3, stats.Outputs)

	require.Contains(t, stats.Classes, "pubkeyhash")
	assert.Equal(t, classStats{Outputs: 2, Sats: satTotal{Sats: 90}, UnspentOutputs: 1, UnspentSats: satTotal{Sats: 40}}, *stats.Classes["pubkeyhash"])
	require.Contains(t, stats.Classes, "nulldata")
	assert.Equal(t, classStats{Outputs: 1, UnspentOutputs: 1}, *stats.Classes["nulldata"])

	filename := filepath.Join(t.TempDir(), "stats.csv")
	require.NoError(t, statsToCSV(stats, filename))

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"script_class", "outputs", "sats", "unspent_outputs", "unspent_sats"},
		{"nulldata", "1", "0", "1", "0"},
		{"pubkeyhash", "2", "90", "1", "40"},
	}, records)
}

func TestStatsOverflow(t *testing.T) {
	chain, err := blockchain.New(blockchain.Config{})
	require.NoError(t, err)
	defer chain.Close()

	p2pkh := mustScript(t, "76a91489abcdefabbaabbaabbaabbaabbaabbaabbaabba88ac")
	tx := blockchain.Decoded{
		TxID: chainhash.DoubleHashH([]byte("huge")),
		Tx: &model.Transaction{
			Inputs:  []model.Input{{PrevTxIndex: 0xffffffff}},
			Outputs: []model.Output{{Amount: 0xffffffffffffffff, PKScript: p2pkh}, {Amount: 2, PKScript: p2pkh}},
		},
	}

	finish := wireStats(chain)
	chain.Notify(tx)
	stats := finish()

	require.Contains(t, stats.Classes, "pubkeyhash")
	c := stats.Classes["pubkeyhash"]
	assert.Equal(t, 2, c.Outputs)
	assert.True(t, c.Sats.Overflow)
	assert.Zero(t, c.Sats.Sats)
	assert.True(t, c.UnspentSats.Overflow)

	filename := filepath.Join(t.TempDir(), "stats.csv")
	require.NoError(t, statsToCSV(stats, filename))

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"pubkeyhash", "2", "overflow", "2", "overflow"}, records[1])
}

func TestSatTotal(t *testing.T) {
	var total satTotal
	assert.False(t, total.Add(0xfffffffffffffffe))
	assert.False(t, total.Add(1))
	assert.Equal(t, "18446744073709551615", total.String())
	assert.True(t, total.Add(1))
	// already overflowed, not reported again
	assert.False(t, total.Add(0))
	assert.True(t, total.Overflow)
	assert.Equal(t, "overflow", total.String())
}
