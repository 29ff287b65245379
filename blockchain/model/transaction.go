package model

type Transaction struct {
	Version  uint32
	IsSegWit bool
	Inputs   []Input
	Outputs  []Output
	LockTime uint32

	// Size is the number of bytes the transaction occupied on the wire.
	Size int
}

// HasWitness reports whether any input carries at least one witness item.
func (tx Transaction) HasWitness() bool {
	for _, in := range tx.Inputs {
		if len(in.Witness) > 0 {
			return true
		}
	}
	return false
}

// TotalOut sums the output amounts. ok is false if the sum overflows a uint64.
func (tx Transaction) TotalOut() (total uint64, ok bool) {
	for _, out := range tx.Outputs {
		if total+out.Amount < total {
			return 0, false
		}
		total += out.Amount
	}
	return total, true
}
