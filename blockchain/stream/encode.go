package stream

import (
	"encoding/binary"
	"io"

	"github.com/OdyseeTeam/fast-tx/blockchain/model"

	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
)

// Encode serializes tx the way Decode reads it. Segwit transactions get the
// marker, flag and witness stacks.
func Encode(tx *model.Transaction) ([]byte, error) {
	return encode(tx, tx.IsSegWit)
}

// EncodeLegacy serializes tx without any witness data. This is the form the
// txid commits to.
func EncodeLegacy(tx *model.Transaction) ([]byte, error) {
	return encode(tx, false)
}

func encode(tx *model.Transaction, withWitness bool) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	err := writeTransaction(buf, tx, withWitness)
	if err != nil {
		return nil, err
	}

	// buf goes back to the pool, hand out a copy
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func writeTransaction(w io.Writer, tx *model.Transaction, withWitness bool) error {
	err := writeUint32(w, tx.Version)
	if err != nil {
		return err
	}

	if withWitness {
		_, err = w.Write([]byte{TxFlagMarker, WitnessFlag})
		if err != nil {
			return errors.Wrap(err, "write segwit marker")
		}
	}

	err = WriteVarInt(w, uint64(len(tx.Inputs)))
	if err != nil {
		return err
	}
	for _, in := range tx.Inputs {
		_, err = w.Write(in.PrevTxHash[:])
		if err != nil {
			return errors.Wrap(err, "write prev tx hash")
		}
		err = writeUint32(w, in.PrevTxIndex)
		if err != nil {
			return err
		}
		err = writeVarBytes(w, in.Script)
		if err != nil {
			return err
		}
		err = writeUint32(w, in.Sequence)
		if err != nil {
			return err
		}
	}

	err = WriteVarInt(w, uint64(len(tx.Outputs)))
	if err != nil {
		return err
	}
	for _, out := range tx.Outputs {
		err = writeUint64(w, out.Amount)
		if err != nil {
			return err
		}
		err = writeVarBytes(w, out.PKScript)
		if err != nil {
			return err
		}
	}

	if withWitness {
		for _, in := range tx.Inputs {
			err = WriteVarInt(w, uint64(len(in.Witness)))
			if err != nil {
				return err
			}
			for _, item := range in.Witness {
				err = writeVarBytes(w, item)
				if err != nil {
					return err
				}
			}
		}
	}

	return writeUint32(w, tx.LockTime)
}

func writeVarBytes(w io.Writer, b []byte) error {
	err := WriteVarInt(w, uint64(len(b)))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return errors.Wrap(err, "write bytes")
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return errors.Wrap(err, "write uint32")
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return errors.Wrap(err, "write uint64")
}
