package setup_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"tasksweep/internal/config"
	"tasksweep/internal/setup"
)

type scriptedPrompter struct {
	username string
	count    int
	sets     []config.ListSet
	err      error
}

func (p *scriptedPrompter) PromptUsername() (string, error) { return p.username, p.err }
func (p *scriptedPrompter) PromptToken(username string) (string, error) {
	return "", errors.New("token prompt not expected during setup")
}
func (p *scriptedPrompter) PromptListCount() (int, error) { return p.count, nil }
func (p *scriptedPrompter) PromptListSet(n int) (config.ListSet, error) {
	return p.sets[n-1], nil
}

func TestFirstRun(t *testing.T) {
	p := &scriptedPrompter{
		username: "someone@gmail.com",
		count:    2,
		sets: []config.ListSet{
			{Primary: "Shopping", LowPriority: "Shopping Later"},
			{Primary: "Errands", LowPriority: "Errands Someday"},
		},
	}

	settings, err := setup.FirstRun(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Username != "someone@gmail.com" {
		t.Errorf("wrong username: %q", settings.Username)
	}
	if len(settings.ListSets) != 2 {
		t.Fatalf("expected 2 list sets, got %d", len(settings.ListSets))
	}
	if settings.ListSets[1].Primary != "Errands" {
		t.Errorf("wrong second pair: %+v", settings.ListSets[1])
	}
}

func TestFirstRunRejectsBadUsername(t *testing.T) {
	p := &scriptedPrompter{
		username: "not-an-email",
		count:    1,
		sets:     []config.ListSet{{Primary: "A", LowPriority: "B"}},
	}
	if _, err := setup.FirstRun(p); err == nil {
		t.Fatal("expected error for invalid username")
	}
}

func TestFirstRunRejectsZeroSets(t *testing.T) {
	p := &scriptedPrompter{username: "a@b.com", count: 0}
	if _, err := setup.FirstRun(p); err == nil {
		t.Fatal("expected error for zero list sets")
	}
}

func TestFirstRunRejectsDuplicateNamesInPair(t *testing.T) {
	p := &scriptedPrompter{
		username: "a@b.com",
		count:    1,
		sets:     []config.ListSet{{Primary: "Same", LowPriority: "Same"}},
	}
	if _, err := setup.FirstRun(p); err == nil {
		t.Fatal("expected error when a pair uses one list twice")
	}
}

func TestTerminalPrompterReadsAnswers(t *testing.T) {
	in := strings.NewReader("someone@gmail.com\n2\nShopping\nShopping Later\nErrands\nErrands Someday\n")
	var out bytes.Buffer
	p := setup.NewPrompter(in, &out)

	username, err := p.PromptUsername()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if username != "someone@gmail.com" {
		t.Errorf("wrong username: %q", username)
	}

	count, err := p.PromptListCount()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}

	for i, want := range []config.ListSet{
		{Primary: "Shopping", LowPriority: "Shopping Later"},
		{Primary: "Errands", LowPriority: "Errands Someday"},
	} {
		set, err := p.PromptListSet(i + 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if set != want {
			t.Errorf("pair %d: expected %+v, got %+v", i+1, want, set)
		}
	}

	if !strings.Contains(out.String(), "primary list 1") {
		t.Errorf("prompts missing from output: %q", out.String())
	}
}

func TestTerminalPrompterRejectsNonNumericCount(t *testing.T) {
	p := setup.NewPrompter(strings.NewReader("three\n"), &bytes.Buffer{})
	if _, err := p.PromptListCount(); err == nil {
		t.Fatal("expected error for non-numeric count")
	}
}

func TestTerminalPrompterTokenUnderPipe(t *testing.T) {
	// Without a terminal the token prompt falls back to a plain line read.
	p := setup.NewPrompter(strings.NewReader("raw-token-value\n"), &bytes.Buffer{})
	token, err := p.PromptToken("a@b.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "raw-token-value" {
		t.Errorf("wrong token input: %q", token)
	}
}
