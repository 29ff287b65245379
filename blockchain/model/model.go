package model

import "encoding/hex"

type Script []byte

func (s Script) String() string { return hex.EncodeToString(s) }
func (s Script) Bytes() []byte  { return s }

// Witness is the ordered stack of items attached to a segwit input.
type Witness [][]byte

// Hex returns the stack items hex encoded, in order.
func (w Witness) Hex() []string {
	items := make([]string, len(w))
	for i, item := range w {
		items[i] = hex.EncodeToString(item)
	}
	return items
}
