package storage

import (
	"strconv"

	"github.com/OdyseeTeam/fast-tx/blockchain/model"

	"github.com/cockroachdb/errors"
	"github.com/genjidb/genji"
	"github.com/genjidb/genji/document"
	"github.com/genjidb/genji/types"
	"github.com/lbryio/lbcd/chaincfg/chainhash"
)

// InMemory is the index path that keeps everything in RAM.
const InMemory = ":memory:"

// Index is a queryable table of decoded transactions. Amounts are stored as
// decimal strings since genji integers are signed 64 bit.
type Index struct {
	db *genji.DB
}

// OpenIndex opens a genji database at path. Use InMemory for an index that is
// dropped on Close.
func OpenIndex(path string) (*Index, error) {
	db, err := genji.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening index")
	}

	for _, table := range []string{"transactions", "inputs", "outputs"} {
		err = db.Exec("CREATE TABLE IF NOT EXISTS " + table)
		if err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "creating table %s", table)
		}
	}

	return &Index{db: db}, nil
}

// Add records tx under txid. Adding the same txid twice stores it twice.
func (i *Index) Add(txid, wtxid chainhash.Hash, tx *model.Transaction) error {
	dbtx, err := i.db.Begin(true)
	if err != nil {
		return errors.WithStack(err)
	}
	defer dbtx.Rollback()

	err = dbtx.Exec(`INSERT INTO transactions (txid, wtxid, version, segwit, locktime, size, inputs, outputs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txid.String(), wtxid.String(), int64(tx.Version), tx.IsSegWit, int64(tx.LockTime),
		int64(tx.Size), int64(len(tx.Inputs)), int64(len(tx.Outputs)))
	if err != nil {
		return errors.Wrap(err, "inserting transaction")
	}

	for n, in := range tx.Inputs {
		err = dbtx.Exec(`INSERT INTO inputs (txid, n, prev_txid, prev_index, script, sequence, witness_items)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			txid.String(), int64(n), in.PrevTxHash.String(), int64(in.PrevTxIndex), in.Script.String(),
			int64(in.Sequence), int64(len(in.Witness)))
		if err != nil {
			return errors.Wrap(err, "inserting input")
		}
	}

	for n, out := range tx.Outputs {
		err = dbtx.Exec(`INSERT INTO outputs (txid, n, amount, script) VALUES (?, ?, ?, ?)`,
			txid.String(), int64(n), formatAmount(out.Amount), out.PKScript.String())
		if err != nil {
			return errors.Wrap(err, "inserting output")
		}
	}

	return errors.WithStack(dbtx.Commit())
}

// Query runs a read query and returns every resulting document as a map.
func (i *Index) Query(q string, args ...interface{}) ([]map[string]interface{}, error) {
	res, err := i.db.Query(q, args...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer res.Close()

	var results = make([]map[string]interface{}, 0)
	err = res.Iterate(func(d types.Document) error {
		var m map[string]interface{}
		err := document.MapScan(d, &m)
		if err != nil {
			return errors.WithStack(err)
		}
		results = append(results, m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// Count returns the number of indexed transactions.
func (i *Index) Count() (int, error) {
	rows, err := i.Query("SELECT COUNT(*) AS n FROM transactions")
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	n, ok := rows[0]["n"].(int64)
	if !ok {
		return 0, errors.Newf("unexpected count %v", rows[0]["n"])
	}
	return int(n), nil
}

func (i *Index) Close() error {
	return errors.WithStack(i.db.Close())
}

func formatAmount(amount uint64) string {
	return strconv.FormatUint(amount, 10)
}
