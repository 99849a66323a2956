package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Reader issues blocking line prompts on the terminal. In and Out are
// injectable for tests.
type Reader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func New(in io.Reader, out io.Writer) *Reader {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Reader{scanner: bufio.NewScanner(in), out: out}
}

// Ask prints the label and reads one line. The value is returned as
// typed, without the trailing newline; no validation is applied.
func (r *Reader) Ask(label string) (string, error) {
	_, _ = fmt.Fprint(r.out, label)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

// PairingParams asks for the three wireless-debugging values in order.
func (r *Reader) PairingParams() (addr, port, code string, err error) {
	if addr, err = r.Ask("Enter IP Address: "); err != nil {
		return "", "", "", err
	}
	if port, err = r.Ask("Enter Port: "); err != nil {
		return "", "", "", err
	}
	if code, err = r.Ask("Enter Pair Code: "); err != nil {
		return "", "", "", err
	}
	return addr, port, code, nil
}
