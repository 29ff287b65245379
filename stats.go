package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/OdyseeTeam/fast-tx/blockchain"
	"github.com/OdyseeTeam/fast-tx/blockchain/model"

	"github.com/cockroachdb/errors"
	"github.com/lbryio/lbcd/chaincfg/chainhash"
	"github.com/sirupsen/logrus"
)

type outpoint struct {
	txid chainhash.Hash
	nout int
}

func (o outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.txid, o.nout)
}

type utxo struct {
	outpoint
	class  string
	amount uint64
}

type spendOrCreate struct {
	tx     *blockchain.Decoded // counted once per transaction
	spend  *outpoint
	create *utxo
}

type classStats struct {
	Outputs        int
	Sats           satTotal
	UnspentOutputs int
	UnspentSats    satTotal
}

// satTotal is a satoshi sum that stops counting once it overflows a uint64.
type satTotal struct {
	Sats     uint64
	Overflow bool
}

// Add adds amount and reports whether this call made the total overflow.
func (t *satTotal) Add(amount uint64) (overflowed bool) {
	if t.Overflow {
		return false
	}
	if t.Sats+amount < t.Sats {
		t.Overflow = true
		t.Sats = 0
		return true
	}
	t.Sats += amount
	return false
}

func (t satTotal) String() string {
	if t.Overflow {
		return "overflow"
	}
	return strconv.FormatUint(t.Sats, 10)
}

type Stats struct {
	Transactions   int
	SegWit         int
	Legacy         int
	Inputs         int
	CoinbaseInputs int
	Outputs        int
	Classes        map[string]*classStats
}

type UTXOMap map[chainhash.Hash][]*utxo

func (m UTXOMap) Has(o outpoint) bool {
	if m[o.txid] == nil || len(m[o.txid]) <= o.nout {
		return false
	}
	return m[o.txid][o.nout] != nil
}

func (m UTXOMap) Add(u *utxo) {
	if len(m[u.txid]) <= u.nout {
		tmp := m[u.txid]
		m[u.txid] = make([]*utxo, u.nout+1)
		copy(m[u.txid], tmp)
	}
	m[u.txid][u.nout] = u
}

func (m UTXOMap) Delete(o outpoint) {
	if !m.Has(o) {
		return
	}
	m[o.txid][o.nout] = nil

	for _, oo := range m[o.txid] {
		if oo != nil {
			return
		}
	}

	delete(m, o.txid)
}

// PredeleteMap holds spends seen before the output they spend. Workers decode
// out of order, so the creating transaction may still arrive.
type PredeleteMap map[chainhash.Hash]map[int]struct{}

func (m PredeleteMap) Has(o outpoint) bool {
	if m[o.txid] == nil {
		return false
	}
	_, ok := m[o.txid][o.nout]
	return ok
}

func (m PredeleteMap) Set(o outpoint) {
	if m[o.txid] == nil {
		m[o.txid] = make(map[int]struct{})
	}
	m[o.txid][o.nout] = struct{}{}
}

func (m PredeleteMap) Delete(o outpoint) {
	if m[o.txid] == nil {
		return
	}
	delete(m[o.txid], o.nout)
	if len(m[o.txid]) == 0 {
		delete(m, o.txid)
	}
}

// wireStats registers chain callbacks that feed an accountant. The returned
// func must be called once loading is done; it waits for the accountant and
// returns the totals.
func wireStats(chain blockchain.Chain) func() *Stats {
	actions := make(chan spendOrCreate)
	var stats *Stats
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		stats = accountant(actions)
		wg.Done()
	}()

	chain.OnTransaction(func(tx blockchain.Decoded) {
		logrus.Debugf("TX %s", tx.TxID)
		actions <- spendOrCreate{tx: &tx}
	})
	chain.OnInput(func(txid chainhash.Hash, n int, in model.Input) {
		if in.IsCoinbase() {
			logrus.Debugf("    IN coinbase")
			return
		}
		logrus.Debugf("    IN  %s:%d", in.PrevTxHash, in.PrevTxIndex)
		actions <- spendOrCreate{spend: &outpoint{txid: in.PrevTxHash, nout: int(in.PrevTxIndex)}}
	})
	chain.OnOutput(func(txid chainhash.Hash, n int, out model.Output) {
		class := blockchain.ScriptClass(out.PKScript)
		logrus.Debugf("    OUT %d -> %s (%d)", n, class, out.Amount)
		actions <- spendOrCreate{create: &utxo{
			outpoint: outpoint{txid: txid, nout: n},
			class:    class,
			amount:   out.Amount,
		}}
	})

	return func() *Stats {
		close(actions)
		wg.Wait()
		return stats
	}
}

func accountant(actions <-chan spendOrCreate) *Stats {
	stats := &Stats{Classes: make(map[string]*classStats)}
	utxos := make(UTXOMap)
	predeleted := make(PredeleteMap)

	for a := range actions {
		switch {
		case a.tx != nil:
			stats.Transactions++
			if a.tx.Tx.IsSegWit {
				stats.SegWit++
			} else {
				stats.Legacy++
			}
			stats.Inputs += len(a.tx.Tx.Inputs)
			stats.Outputs += len(a.tx.Tx.Outputs)
			for _, in := range a.tx.Tx.Inputs {
				if in.IsCoinbase() {
					stats.CoinbaseInputs++
				}
			}
		case a.create != nil:
			c := stats.class(a.create.class)
			c.Outputs++
			if c.Sats.Add(a.create.amount) {
				logrus.Warnf("%s output total overflows at %s", a.create.class, a.create.outpoint)
			}
			if predeleted.Has(a.create.outpoint) {
				logrus.Debugf("%s was predeleted", a.create.outpoint)
				predeleted.Delete(a.create.outpoint)
			} else {
				utxos.Add(a.create)
			}
		case a.spend != nil:
			if utxos.Has(*a.spend) {
				utxos.Delete(*a.spend)
			} else {
				// spent output is either not archived or not decoded yet
				predeleted.Set(*a.spend)
				logrus.Debugf("predeleting %s", a.spend)
			}
		}
	}

	for _, nouts := range utxos {
		for _, u := range nouts {
			if u != nil {
				c := stats.class(u.class)
				c.UnspentOutputs++
				if c.UnspentSats.Add(u.amount) {
					logrus.Warnf("%s unspent total overflows at %s", u.class, u.outpoint)
				}
			}
		}
	}

	return stats
}

func (s *Stats) class(name string) *classStats {
	c, ok := s.Classes[name]
	if !ok {
		c = &classStats{}
		s.Classes[name] = c
	}
	return c
}

func (s *Stats) Log() {
	logrus.Printf("%d transactions (%d segwit, %d legacy), %d inputs (%d coinbase), %d outputs",
		s.Transactions, s.SegWit, s.Legacy, s.Inputs, s.CoinbaseInputs, s.Outputs)
}

func statsToCSV(stats *Stats, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	classes := make([]string, 0, len(stats.Classes))
	for name := range stats.Classes {
		classes = append(classes, name)
	}
	sort.Strings(classes)

	writer := csv.NewWriter(f)
	err = writer.Write([]string{"script_class", "outputs", "sats", "unspent_outputs", "unspent_sats"})
	if err != nil {
		return errors.WithStack(err)
	}
	for _, name := range classes {
		c := stats.Classes[name]
		err = writer.Write([]string{
			name,
			strconv.Itoa(c.Outputs),
			c.Sats.String(),
			strconv.Itoa(c.UnspentOutputs),
			c.UnspentSats.String(),
		})
		if err != nil {
			return errors.WithStack(err)
		}
	}

	writer.Flush()
	return errors.WithStack(writer.Error())
}
