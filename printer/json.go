package printer

import (
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/OdyseeTeam/fast-tx/blockchain"
	"github.com/OdyseeTeam/fast-tx/blockchain/stream"

	"github.com/cockroachdb/errors"
)

type Transaction struct {
	Txid     string   `json:"txid"`
	Wtxid    string   `json:"wtxid"`
	Version  uint32   `json:"version"`
	Segwit   bool     `json:"segwit"`
	Locktime uint32   `json:"locktime"`
	Size     int      `json:"size_bytes"`
	Weight   int      `json:"weight"`
	Vbytes   int      `json:"vbytes"`
	TotalOut *uint64  `json:"total_output_sats"` // null on overflow
	Vin      []Input  `json:"vin"`
	Vout     []Output `json:"vout"`
}

type Input struct {
	Txid         string   `json:"txid"`
	Vout         uint32   `json:"vout"`
	Sequence     uint32   `json:"sequence"`
	ScriptSigHex string   `json:"script_sig_hex"`
	Coinbase     bool     `json:"coinbase,omitempty"`
	Witness      []string `json:"witness,omitempty"`
}

type Output struct {
	N               int    `json:"n"`
	ValueSats       uint64 `json:"value_sats"`
	ScriptPubkeyHex string `json:"script_pubkey_hex"`
	ScriptAsm       string `json:"script_asm"`
	ScriptType      string `json:"script_type"`
	OpReturnDataHex string `json:"op_return_data_hex,omitempty"`
}

// NewTransaction builds the JSON view of tx.
func NewTransaction(tx blockchain.Decoded) (*Transaction, error) {
	weight, err := stream.Weight(tx.Tx)
	if err != nil {
		return nil, err
	}
	vbytes, err := stream.VirtualSize(tx.Tx)
	if err != nil {
		return nil, err
	}

	view := &Transaction{
		Txid:     tx.TxID.String(),
		Wtxid:    tx.WTxID.String(),
		Version:  tx.Tx.Version,
		Segwit:   tx.Tx.IsSegWit,
		Locktime: tx.Tx.LockTime,
		Size:     tx.Tx.Size,
		Weight:   weight,
		Vbytes:   vbytes,
		Vin:      make([]Input, len(tx.Tx.Inputs)),
		Vout:     make([]Output, len(tx.Tx.Outputs)),
	}
	if total, ok := tx.Tx.TotalOut(); ok {
		view.TotalOut = &total
	}

	for i, in := range tx.Tx.Inputs {
		view.Vin[i] = Input{
			Txid:         in.PrevTxHash.String(),
			Vout:         in.PrevTxIndex,
			Sequence:     in.Sequence,
			ScriptSigHex: in.Script.String(),
			Coinbase:     in.IsCoinbase(),
			Witness:      in.Witness.Hex(),
		}
	}

	for i, out := range tx.Tx.Outputs {
		o := Output{
			N:               i,
			ValueSats:       out.Amount,
			ScriptPubkeyHex: out.PKScript.String(),
			ScriptAsm:       blockchain.Disasm(out.PKScript),
			ScriptType:      blockchain.ScriptClass(out.PKScript),
		}
		if data, err := blockchain.ParseDataScript(out.PKScript); err == nil {
			o.OpReturnDataHex = hex.EncodeToString(data)
		}
		view.Vout[i] = o
	}

	return view, nil
}

// JSON writes the indented JSON view of tx.
func JSON(w io.Writer, tx blockchain.Decoded) error {
	view, err := NewTransaction(tx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(view))
}
