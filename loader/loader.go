package loader

import (
	"sync"

	"github.com/OdyseeTeam/fast-tx/blockchain"

	"github.com/cockroachdb/errors"
	"github.com/lbryio/lbcd/chaincfg/chainhash"
	"github.com/sirupsen/logrus"
)

// progressEvery is how many transactions a worker decodes between progress logs
var progressEvery = 10000

type rawTx struct {
	txid chainhash.Hash
	raw  []byte
}

// Result summarizes a Load run.
type Result struct {
	Loaded int
	Failed int
}

// Load decodes every archived transaction with `workers` goroutines and
// passes each one to chain.Notify. Transactions that no longer decode, or whose
// txid does not match their archive key, are logged and counted as failed.
func Load(chain blockchain.Chain, workers int) (Result, error) {
	if workers < 1 {
		// could happen if you initialize an empty config and forget to set this
		workers = 1
	}
	logrus.Infof("running %d workers", workers)

	txChan := make(chan rawTx)
	results := make(chan Result, workers)

	wg := &sync.WaitGroup{}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			results <- worker(i, chain, txChan)
		}(i)
	}

	err := chain.ForEachRaw(func(txid chainhash.Hash, raw []byte) error {
		txChan <- rawTx{txid: txid, raw: raw}
		return nil
	})

	close(txChan)
	wg.Wait()
	close(results)

	var total Result
	for r := range results {
		total.Loaded += r.Loaded
		total.Failed += r.Failed
	}

	if err != nil {
		return total, errors.Wrap(err, "reading archive")
	}
	return total, nil
}

func worker(workerNum int, chain blockchain.Chain, txChan <-chan rawTx) Result {
	var r Result
	for tx := range txChan {
		decoded, err := chain.Decode(tx.raw)
		if err != nil {
			logrus.Errorf("worker %d: tx %s: %+v", workerNum, tx.txid, err)
			r.Failed++
			continue
		}
		if decoded.TxID != tx.txid {
			logrus.Errorf("worker %d: archived as %s but hashes to %s", workerNum, tx.txid, decoded.TxID)
			r.Failed++
			continue
		}

		chain.Notify(*decoded)
		r.Loaded++

		if r.Loaded%progressEvery == 0 {
			logrus.Infof("Worker %d: %dk transactions", workerNum, r.Loaded/1000)
		}
	}
	return r
}
