// Package config handles the configuration directory and the settings file.
package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// AppName is the application directory name.
	AppName = "tasksweep"

	// SettingsFile is the settings filename inside the config directory.
	SettingsFile = "config.json"

	// DirEnv overrides the config directory location.
	DirEnv = "TASKSWEEP_CONFIG_DIR"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ParseError reports a settings file that exists but cannot be used.
// The fix is to repair or delete the file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("settings file %s is invalid: %v (fix or delete it)", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ListSet pairs a primary list with the low-priority list feeding it.
type ListSet struct {
	Primary     string
	LowPriority string
}

// Settings is the persisted configuration: the account name and the
// configured list-set pairs, in order.
type Settings struct {
	Username string
	ListSets []ListSet
}

// Config holds the configuration directory.
type Config struct {
	// Dir is the configuration directory path.
	Dir string
}

// New creates a Config with the default or specified config directory.
// If dir is empty, uses TASKSWEEP_CONFIG_DIR, then XDG_CONFIG_HOME/tasksweep,
// then $HOME/.config/tasksweep.
func New(dir string) *Config {
	if dir == "" {
		dir = DefaultDir()
	}
	return &Config{Dir: dir}
}

// DefaultDir returns the default configuration directory.
func DefaultDir() string {
	if override := os.Getenv(DirEnv); override != "" {
		return override
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// HasSettings reports whether the settings file exists.
// Absence means first run.
func (c *Config) HasSettings() bool {
	_, err := os.Stat(c.SettingsPath())
	return err == nil
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// LoadSettings reads and validates the settings file.
// Returns fs.ErrNotExist (wrapped) when the file is absent, and a
// *ParseError when it exists but is malformed.
func (c *Config) LoadSettings() (*Settings, error) {
	path := c.SettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("settings: %w", fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := s.Validate(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &s, nil
}

// SaveSettings writes the settings file. The write is a direct overwrite;
// the data is cheap to reconstruct so atomic replace is not required.
func (c *Config) SaveSettings(s *Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.WriteFile(c.SettingsPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.SettingsPath(), err)
	}
	return nil
}

// Validate checks the settings for use.
func (s *Settings) Validate() error {
	if err := ValidateUsername(s.Username); err != nil {
		return err
	}
	if len(s.ListSets) < 1 {
		return fmt.Errorf("number of list sets must be at least 1, got %d", len(s.ListSets))
	}
	for i, set := range s.ListSets {
		if strings.TrimSpace(set.Primary) == "" {
			return fmt.Errorf("primary list name %d is empty", i+1)
		}
		if strings.TrimSpace(set.LowPriority) == "" {
			return fmt.Errorf("low priority list name %d is empty", i+1)
		}
		if set.Primary == set.LowPriority {
			return fmt.Errorf("list set %d uses the same list %q for both names", i+1, set.Primary)
		}
	}
	return nil
}

// ValidateUsername checks that the account name looks like an email address.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is empty")
	}
	if !emailPattern.MatchString(username) {
		return fmt.Errorf("invalid email address: %s", username)
	}
	return nil
}

// MarshalJSON writes the flat indexed file format:
//
//	{"username": ..., "number_of_lists": N,
//	 "list_1_primary": ..., "list_1_low_priority": ..., ...}
func (s *Settings) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteString("{")

	writeField := func(key string, value any) error {
		if b.Len() > 1 {
			b.WriteString(",")
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return err
		}
		vb, err := json.Marshal(value)
		if err != nil {
			return err
		}
		b.Write(kb)
		b.WriteString(":")
		b.Write(vb)
		return nil
	}

	if err := writeField("username", s.Username); err != nil {
		return nil, err
	}
	if err := writeField("number_of_lists", len(s.ListSets)); err != nil {
		return nil, err
	}
	for i, set := range s.ListSets {
		if err := writeField(fmt.Sprintf("list_%d_primary", i+1), set.Primary); err != nil {
			return nil, err
		}
		if err := writeField(fmt.Sprintf("list_%d_low_priority", i+1), set.LowPriority); err != nil {
			return nil, err
		}
	}

	b.WriteString("}")
	return []byte(b.String()), nil
}

// UnmarshalJSON reads the flat indexed file format produced by MarshalJSON.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	str := func(key string) (string, error) {
		rm, ok := raw[key]
		if !ok {
			return "", fmt.Errorf("missing key %q", key)
		}
		var v string
		if err := json.Unmarshal(rm, &v); err != nil {
			return "", fmt.Errorf("key %q: %w", key, err)
		}
		return v, nil
	}

	username, err := str("username")
	if err != nil {
		return err
	}

	rm, ok := raw["number_of_lists"]
	if !ok {
		return fmt.Errorf(`missing key "number_of_lists"`)
	}
	var count int
	if err := json.Unmarshal(rm, &count); err != nil {
		return fmt.Errorf(`key "number_of_lists": %w`, err)
	}
	if count < 1 {
		return fmt.Errorf("number of list sets must be at least 1, got %d", count)
	}
	// Every set needs two list_N_* keys, so a count the file cannot back
	// is malformed. Checking before allocating also keeps a garbage count
	// from sizing the slice.
	if count > len(raw)/2 {
		return fmt.Errorf("number_of_lists is %d but the file has keys for at most %d sets", count, len(raw)/2)
	}

	sets := make([]ListSet, 0, count)
	for i := 1; i <= count; i++ {
		primary, err := str(fmt.Sprintf("list_%d_primary", i))
		if err != nil {
			return err
		}
		low, err := str(fmt.Sprintf("list_%d_low_priority", i))
		if err != nil {
			return err
		}
		sets = append(sets, ListSet{Primary: primary, LowPriority: low})
	}

	s.Username = username
	s.ListSets = sets
	return nil
}
