package prompt

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

const (
	Message      = "Enter the transaction hex:"
	RetryMessage = "Please enter a valid transaction hex."
)

var ErrInvalidHex = errors.New("invalid transaction hex")

// ParseHex turns user input into transaction bytes. Surrounding whitespace
// and a 0x prefix are ignored.
func ParseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	if s == "" {
		return nil, errors.Wrap(ErrInvalidHex, "empty input")
	}
	if len(s)%2 != 0 {
		return nil, errors.Wrapf(ErrInvalidHex, "odd number of hex digits (%d)", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidHex, err.Error())
	}
	return b, nil
}

// Reader reads one transaction per line. The prompt is only written when
// Interactive is set.
type Reader struct {
	Interactive bool

	in  *bufio.Reader
	out io.Writer
}

func NewReader(in io.Reader, out io.Writer) *Reader {
	return &Reader{in: bufio.NewReader(in), out: out}
}

// NewStdinReader prompts on stdout only if stdin is a terminal.
func NewStdinReader() *Reader {
	r := NewReader(os.Stdin, os.Stdout)
	r.Interactive = term.IsTerminal(int(os.Stdin.Fd()))
	return r
}

// Next reads the next line and parses it. In interactive mode invalid input
// is reported and the user is asked again. Otherwise blank lines are skipped.
// io.EOF is returned once the input is exhausted.
func (r *Reader) Next() ([]byte, error) {
	for {
		if r.Interactive {
			fmt.Fprintln(r.out, Message)
		}

		line, err := r.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.WithStack(err)
		}
		blank := strings.TrimSpace(line) == ""
		if errors.Is(err, io.EOF) && blank {
			return nil, io.EOF
		}
		if blank && !r.Interactive {
			continue
		}

		b, perr := ParseHex(line)
		if perr == nil {
			return b, nil
		}
		if !r.Interactive {
			return nil, perr
		}
		fmt.Fprintln(r.out, RetryMessage)
	}
}
