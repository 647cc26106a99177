// Package setup collects first-run configuration from the user.
package setup

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"tasksweep/internal/config"
)

// Prompter is the console surface for first-run setup. It is an interface
// so the poll loop and migration engine stay testable with fakes.
type Prompter interface {
	// PromptUsername asks for the account email address.
	PromptUsername() (string, error)

	// PromptToken asks for the OAuth token JSON, masked at entry.
	// Also satisfies secret.TokenPrompter.
	PromptToken(username string) (string, error)

	// PromptListCount asks how many list-set pairs to configure.
	PromptListCount() (int, error)

	// PromptListSet asks for the nth (1-based) primary/low-priority pair.
	PromptListSet(n int) (config.ListSet, error)
}

// FirstRun walks the user through initial configuration and returns
// validated settings. The caller saves them and then resolves the
// credential separately.
func FirstRun(p Prompter) (*config.Settings, error) {
	username, err := p.PromptUsername()
	if err != nil {
		return nil, err
	}
	if err := config.ValidateUsername(username); err != nil {
		return nil, err
	}

	count, err := p.PromptListCount()
	if err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("number of list sets must be at least 1, got %d", count)
	}

	sets := make([]config.ListSet, 0, count)
	for i := 1; i <= count; i++ {
		set, err := p.PromptListSet(i)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	settings := &config.Settings{Username: username, ListSets: sets}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// TerminalPrompter implements Prompter over stdin/stdout.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter creates a prompter over the process terminal.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// NewPrompter creates a prompter over arbitrary streams (for testing).
func NewPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *TerminalPrompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptUsername implements Prompter.
func (p *TerminalPrompter) PromptUsername() (string, error) {
	return p.readLine("Account email: ")
}

// PromptToken implements Prompter. Input is masked when stdin is a
// terminal; otherwise a plain line is read so the flow works under pipes
// and tests.
func (p *TerminalPrompter) PromptToken(username string) (string, error) {
	fmt.Fprintf(p.out, "OAuth token JSON for %s (use the included Dockerfile to obtain one): ", username)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptListCount implements Prompter.
func (p *TerminalPrompter) PromptListCount() (int, error) {
	line, err := p.readLine("Number of list sets (one set is a primary list plus a low-priority list): ")
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", line)
	}
	return count, nil
}

// PromptListSet implements Prompter.
func (p *TerminalPrompter) PromptListSet(n int) (config.ListSet, error) {
	primary, err := p.readLine(fmt.Sprintf("Name of primary list %d: ", n))
	if err != nil {
		return config.ListSet{}, err
	}
	low, err := p.readLine(fmt.Sprintf("Name of low priority list %d: ", n))
	if err != nil {
		return config.ListSet{}, err
	}
	return config.ListSet{Primary: primary, LowPriority: low}, nil
}
