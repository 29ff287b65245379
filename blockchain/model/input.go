package model

import "github.com/lbryio/lbcd/chaincfg/chainhash"

type Input struct {
	// PrevTxHash is kept in wire order. PrevTxHash.String() gives the
	// byte-reversed form block explorers show.
	PrevTxHash  chainhash.Hash
	PrevTxIndex uint32
	Script      Script
	Sequence    uint32

	// Witness is nil unless the transaction was serialized with the segwit
	// marker, in which case it is non-nil even when the stack is empty.
	Witness Witness
}

func (i Input) IsCoinbase() bool {
	if i.PrevTxIndex != 0xffffffff {
		return false
	}
	for _, b := range i.PrevTxHash {
		if b != 0 {
			return false
		}
	}
	return true
}
