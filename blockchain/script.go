package blockchain

import (
	"bytes"

	"github.com/OdyseeTeam/fast-tx/blockchain/model"

	"github.com/cockroachdb/errors"
	"github.com/lbryio/lbcd/txscript"
)

const opReturn = 0x6a //OP_RETURN = 106

// ScriptClass names the standard template a public key script matches, e.g.
// "pubkeyhash" or "witness_v0_keyhash". Scripts matching no template are
// "nonstandard".
func ScriptClass(script model.Script) string {
	return txscript.GetScriptClass(script).String()
}

// Disasm renders a script as opcodes. A script that fails to parse is
// rendered up to the failure followed by "[error]".
func Disasm(script model.Script) string {
	asm, err := txscript.DisasmString(script)
	if err != nil {
		return asm + " [error]"
	}
	return asm
}

// IsDataScript returns true if the script is an OP_RETURN output carrying
// only pushed data
func IsDataScript(script []byte) bool {
	if len(script) > 1 && script[0] == opReturn {
		_, err := ParseDataScript(script)
		return err == nil
	}
	return false
}

// ParseDataScript returns the concatenated pushes that follow OP_RETURN
func ParseDataScript(script []byte) ([]byte, error) {
	// OP_RETURN (push) DATA ...
	if len(script) <= 1 {
		return nil, errors.New("there is no script to parse")
	}
	if script[0] != opReturn {
		return nil, errors.New("the first byte of script must be an OP_RETURN to quality as un-spendable data")
	}
	pushes, err := txscript.PushedData(script[1:])
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !txscript.IsPushOnlyScript(script[1:]) {
		return nil, errors.Newf("script %x has non-push opcodes after OP_RETURN", script)
	}
	return bytes.Join(pushes, nil), nil
}
