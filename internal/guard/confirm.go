package guard

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Decision is the outcome of a confirmation step.
type Decision int

const (
	// Declined means the action must not run.
	Declined Decision = iota
	// Forced means confirmation was bypassed with --force.
	Forced
	// Approved means the user confirmed interactively.
	Approved
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Forced:
		return "forced"
	case Approved:
		return "approved"
	default:
		return "declined"
	}
}

// Proceed reports whether the action may run.
func (d Decision) Proceed() bool {
	return d == Forced || d == Approved
}

// Confirmer decides whether a state-changing action may run.
type Confirmer interface {
	// Decide asks a yes/no question.
	Decide(prompt string, forced bool) Decision
	// DecideStrict requires the resource ID to be typed back.
	DecideStrict(id int, forced bool) Decision
}

// Prompter is the terminal Confirmer. It writes prompts to out and reads
// one line per prompt from in.
type Prompter struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Decide prints "<prompt> [y/N]: " and approves on "y" or "yes".
func (p *Prompter) Decide(prompt string, forced bool) Decision {
	if forced {
		return Forced
	}
	answer, ok := p.ask(fmt.Sprintf("%s [y/N]: ", prompt))
	if !ok {
		return Declined
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return Approved
	default:
		return Declined
	}
}

// Confirm is Decide reduced to a bool.
func (p *Prompter) Confirm(prompt string, forced bool) bool {
	return p.Decide(prompt, forced).Proceed()
}

// DecideStrict warns that the action is irreversible and approves only when
// the exact ID is entered.
func (p *Prompter) DecideStrict(id int, forced bool) Decision {
	if forced {
		return Forced
	}
	expected := strconv.Itoa(id)
	answer, ok := p.ask(fmt.Sprintf("This action cannot be undone! Type %q or press Enter to abort: ", expected))
	if !ok || answer != expected {
		return Declined
	}
	return Approved
}

// ask prints prompt and returns the trimmed answer. EOF without input and
// read errors report false.
func (p *Prompter) ask(prompt string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(line), true
}
