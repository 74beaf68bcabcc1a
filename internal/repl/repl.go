// Package repl is the interactive line-at-a-time frontend for
// vlang.Interpreter (spec.md §6, "module runner"). Grounded on
// inspector/coder/example/main.go's plain sequential os.Stdin/os.Stdout
// driver style — no third-party line-editing library is wired since the
// teacher never uses one for interactive input.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/viant/vlang/internal/vlang"
)

// exitCall is the sentinel statement that ends the session; matched as
// plain text rather than parsed, so a REPL can exit even mid-typo.
const exitCall = "exit()"

// REPL reads statements from in, one line at a time, evaluating each
// against one persistent Interpreter so bindings accumulate across
// lines the way a shell session accumulates environment variables.
type REPL struct {
	interp *vlang.Interpreter
	in     *bufio.Scanner
	out    io.Writer
	prompt string
}

// New builds a REPL around interp, reading from in and writing prompts
// and error reports to out; program output goes to interp's Stdout.
func New(interp *vlang.Interpreter, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		interp: interp,
		in:     bufio.NewScanner(in),
		out:    out,
		prompt: "vlang> ",
	}
}

// Run drives the read-eval-print loop until the input is exhausted or a
// line's trimmed text equals "exit()". It returns the scanner's error,
// if any, ignoring a clean io.EOF.
func (r *REPL) Run() error {
	for {
		fmt.Fprint(r.out, r.prompt)
		if !r.in.Scan() {
			break
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		if line == exitCall {
			return nil
		}
		for _, err := range r.interp.Run([]byte(line)) {
			fmt.Fprintln(r.out, err)
		}
	}
	return r.in.Err()
}
