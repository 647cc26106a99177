// Package secret stores the OAuth credential, keyed by username.
//
// Tokens are kept in 0600 files inside the config directory, one per
// account. The token value itself is never logged.
package secret

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
)

// ErrNotFound is returned when no credential is stored for a username.
var ErrNotFound = errors.New("no stored credential")

// ErrAuthFailed is returned when a credential cannot be validated after
// the retry prompt.
var ErrAuthFailed = errors.New("credential validation failed")

// Store is the interface for credential storage operations.
type Store interface {
	Set(username string, token *oauth2.Token) error
	Get(username string) (*oauth2.Token, error)
	Delete(username string) error
}

// FileStore keeps one token file per username under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// path builds the token filename for a username. The username is an email
// address; characters outside [A-Za-z0-9.@_-] are replaced so the name is
// safe on every filesystem.
func (s *FileStore) path(username string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '@', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, username)
	return filepath.Join(s.dir, "token-"+sanitized+".json")
}

// Set stores the token for a username.
func (s *FileStore) Set(username string, token *oauth2.Token) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create secret directory: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(username), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Get returns the stored token for a username, or ErrNotFound.
func (s *FileStore) Get(username string) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path(username))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("stored token is corrupt: %w", err)
	}
	return &token, nil
}

// Delete removes the stored token for a username.
func (s *FileStore) Delete(username string) error {
	err := os.Remove(s.path(username))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// TokenPrompter collects a token from the user. Implemented by the setup
// terminal prompter; faked in tests.
type TokenPrompter interface {
	// PromptToken asks for the token JSON for the given account and
	// returns the raw input.
	PromptToken(username string) (string, error)
}

// Validator checks a token by performing an authenticated call.
type Validator func(ctx context.Context, token *oauth2.Token) error

// GetToken resolves the credential for a username. A stored token is
// returned as-is; otherwise the user is prompted, the input validated by
// an authenticated call, and the token persisted on success. One retry
// prompt is offered before giving up with ErrAuthFailed.
func GetToken(ctx context.Context, store Store, username string, prompter TokenPrompter, validate Validator) (*oauth2.Token, error) {
	token, err := store.Get(username)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	const attempts = 2
	var lastErr error
	for i := 0; i < attempts; i++ {
		raw, err := prompter.PromptToken(username)
		if err != nil {
			return nil, err
		}
		token, err := ParseToken(raw)
		if err != nil {
			lastErr = err
			continue
		}
		if err := validate(ctx, token); err != nil {
			lastErr = err
			continue
		}
		if err := store.Set(username, token); err != nil {
			return nil, err
		}
		return token, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrAuthFailed, lastErr)
}

// ParseToken parses pasted token JSON. A bare string is also accepted and
// treated as an access token with no expiry.
func ParseToken(raw string) (*oauth2.Token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("token is empty")
	}
	if strings.HasPrefix(raw, "{") {
		var token oauth2.Token
		if err := json.Unmarshal([]byte(raw), &token); err != nil {
			return nil, fmt.Errorf("invalid token JSON: %w", err)
		}
		if token.AccessToken == "" && token.RefreshToken == "" {
			return nil, errors.New("token JSON has no access or refresh token")
		}
		return &token, nil
	}
	return &oauth2.Token{AccessToken: raw}, nil
}
