package stream

import (
	"github.com/OdyseeTeam/fast-tx/blockchain/model"

	"github.com/lbryio/lbcd/chaincfg/chainhash"
)

// witnessScaleFactor is the weight of a non-witness byte relative to a
// witness byte.
const witnessScaleFactor = 4

// TxHash is the double sha256 of the serialization without witness data.
//
//	txid:   doubleSHA([nVersion][txins][txouts][nLockTime])
//	wtxid:  doubleSHA([nVersion][marker][flag][txins][txouts][witness][nLockTime])
//
// https://en.bitcoin.it/wiki/BIP_0141#Transaction_ID
func TxHash(tx *model.Transaction) (chainhash.Hash, error) {
	b, err := EncodeLegacy(tx)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(b), nil
}

// WitnessHash is the double sha256 of the full serialization. For a legacy
// transaction it equals TxHash.
func WitnessHash(tx *model.Transaction) (chainhash.Hash, error) {
	b, err := Encode(tx)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return chainhash.DoubleHashH(b), nil
}

// Weight is three times the legacy size plus the full size (BIP 141).
func Weight(tx *model.Transaction) (int, error) {
	legacy, err := EncodeLegacy(tx)
	if err != nil {
		return 0, err
	}
	full, err := Encode(tx)
	if err != nil {
		return 0, err
	}
	return len(legacy)*(witnessScaleFactor-1) + len(full), nil
}

// VirtualSize is the weight divided by four, rounded up.
func VirtualSize(tx *model.Transaction) (int, error) {
	weight, err := Weight(tx)
	if err != nil {
		return 0, err
	}
	return (weight + witnessScaleFactor - 1) / witnessScaleFactor, nil
}
