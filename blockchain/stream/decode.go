package stream

import (
	"fmt"

	"github.com/OdyseeTeam/fast-tx/blockchain/model"

	"github.com/lbryio/lbcd/chaincfg/chainhash"
)

const (
	// TxFlagMarker and WitnessFlag follow the version of a segwit
	// serialized transaction.
	TxFlagMarker = 0x00
	WitnessFlag  = 0x01

	// MinTxSize is the smallest possible legacy transaction: version, an
	// input count, an output count and the locktime.
	MinTxSize = 4 + 1 + 1 + 4

	minInputSize   = chainhash.HashSize + 4 + 1 + 4
	minOutputSize  = 8 + 1
	minWitnessItem = 1
)

// Decode parses a complete serialized transaction. It either consumes all of
// buf and returns the transaction, or returns a *DecodeError and no
// transaction.
func Decode(buf []byte) (*model.Transaction, error) {
	// anything shorter cannot hold even an empty legacy transaction
	if len(buf) < MinTxSize {
		return nil, truncated(0, "transaction")
	}

	s := &txStream{buf: buf}
	tx := &model.Transaction{}
	var err error

	tx.Version, err = s.readUint32("version")
	if err != nil {
		return nil, err
	}

	if b, ok := s.peek(2); ok && b[0] == TxFlagMarker && b[1] == WitnessFlag {
		tx.IsSegWit = true
		s.skip(2)
	}

	tx.Inputs, err = readInputs(s)
	if err != nil {
		return nil, err
	}

	tx.Outputs, err = readOutputs(s)
	if err != nil {
		return nil, err
	}

	if tx.IsSegWit {
		err = readWitnesses(s, tx.Inputs)
		if err != nil {
			return nil, err
		}
	}

	tx.LockTime, err = s.readUint32("locktime")
	if err != nil {
		return nil, err
	}

	if s.offset != len(buf) {
		return nil, trailingData(s.offset, len(buf))
	}
	tx.Size = s.offset

	return tx, nil
}

func readInputs(s *txStream) ([]model.Input, error) {
	count, err := s.readCount("input count", minInputSize)
	if err != nil {
		return nil, err
	}

	inputs := make([]model.Input, count)
	for i := range inputs {
		field := fmt.Sprintf("input[%d]", i)
		in := &inputs[i]

		in.PrevTxHash, err = s.readHash(field + " prev tx hash")
		if err != nil {
			return nil, err
		}

		in.PrevTxIndex, err = s.readUint32(field + " prev tx index")
		if err != nil {
			return nil, err
		}

		in.Script, err = s.readVarBytes(field + " script")
		if err != nil {
			return nil, err
		}

		in.Sequence, err = s.readUint32(field + " sequence")
		if err != nil {
			return nil, err
		}
	}
	return inputs, nil
}

func readOutputs(s *txStream) ([]model.Output, error) {
	count, err := s.readCount("output count", minOutputSize)
	if err != nil {
		return nil, err
	}

	outputs := make([]model.Output, count)
	for i := range outputs {
		field := fmt.Sprintf("output[%d]", i)
		out := &outputs[i]

		out.Amount, err = s.readUint64(field + " amount")
		if err != nil {
			return nil, err
		}

		out.PKScript, err = s.readVarBytes(field + " script")
		if err != nil {
			return nil, err
		}
	}
	return outputs, nil
}

// readWitnesses reads one witness stack per input, in input order. Witness
// data is only present when the segwit marker was found.
func readWitnesses(s *txStream, inputs []model.Input) error {
	for i := range inputs {
		field := fmt.Sprintf("input[%d] witness", i)

		count, err := s.readCount(field+" count", minWitnessItem)
		if err != nil {
			return err
		}

		witness := make(model.Witness, count)
		for j := range witness {
			witness[j], err = s.readVarBytes(fmt.Sprintf("%s[%d]", field, j))
			if err != nil {
				return err
			}
		}
		inputs[i].Witness = witness
	}
	return nil
}
