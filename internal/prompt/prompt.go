// Package prompt asks the user yes/no questions on a terminal.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/go-ports/rmnd/internal/service"
)

// YesNo is an interactive service.Confirmer. It repeats the question until
// the answer is y or n; end of input counts as n.
type YesNo struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewYesNo returns a YesNo reading answers from in and writing questions
// to out.
func NewYesNo(in io.Reader, out io.Writer) *YesNo {
	return &YesNo{in: bufio.NewScanner(in), out: out}
}

// Confirm implements service.Confirmer.
func (p *YesNo) Confirm(question string) (service.Decision, error) {
	for {
		fmt.Fprintf(p.out, "%s [y/n] ", question)
		if !p.in.Scan() {
			fmt.Fprintln(p.out)
			if err := p.in.Err(); err != nil {
				return service.Deny, fmt.Errorf("prompt: read answer: %w", err)
			}
			return service.Deny, nil
		}

		switch strings.ToLower(strings.TrimSpace(p.in.Text())) {
		case "y", "yes":
			return service.Allow, nil
		case "n", "no":
			return service.Deny, nil
		}
	}
}

// Always is a service.Confirmer that answers every question with d. It backs
// the --yes flag.
type Always service.Decision

// Confirm implements service.Confirmer.
func (a Always) Confirm(string) (service.Decision, error) {
	return service.Decision(a), nil
}
