package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/OdyseeTeam/fast-tx/blockchain"
)

// Text writes tx in the console layout:
//
//	Version: 1
//
//	______Inputs________
//	Input 1
//	Hash: ...
//
// Entries are separated by a blank line, with none after the last one.
func Text(w io.Writer, tx blockchain.Decoded) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Txid: %s\n", tx.TxID)
	if tx.Tx.IsSegWit {
		fmt.Fprintf(&b, "Wtxid: %s\n", tx.WTxID)
	}
	fmt.Fprintf(&b, "Version: %d\n\n", tx.Tx.Version)

	b.WriteString("______Inputs________\n")
	for i, in := range tx.Tx.Inputs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Input %d\n", i+1)
		fmt.Fprintf(&b, "Hash: %s\n", in.PrevTxHash)
		fmt.Fprintf(&b, "Index: %d\n", in.PrevTxIndex)
		fmt.Fprintf(&b, "ScriptSig: %s\n", in.Script)
		fmt.Fprintf(&b, "Sequence: %d\n", in.Sequence)
		if in.Witness != nil {
			fmt.Fprintf(&b, "Witness: %s\n", strings.Join(in.Witness.Hex(), " "))
		}
	}

	b.WriteString("______Outputs________\n")
	for i, out := range tx.Tx.Outputs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Output %d\n", i+1)
		fmt.Fprintf(&b, "Value: %d\n", out.Amount)
		fmt.Fprintf(&b, "ScriptPubKey: %s\n", out.PKScript)
		fmt.Fprintf(&b, "Type: %s\n", blockchain.ScriptClass(out.PKScript))
	}

	fmt.Fprintf(&b, "Locktime: %d\n", tx.Tx.LockTime)

	_, err := io.WriteString(w, b.String())
	return err
}
