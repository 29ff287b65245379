package printer

import (
	"io"

	"github.com/OdyseeTeam/fast-tx/blockchain"

	"github.com/cockroachdb/errors"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write prints tx in the given format.
func Write(w io.Writer, format string, tx blockchain.Decoded) error {
	switch format {
	case FormatText, "":
		return Text(w, tx)
	case FormatJSON:
		return JSON(w, tx)
	default:
		return errors.Newf("unknown format %q, expected %s or %s", format, FormatText, FormatJSON)
	}
}
