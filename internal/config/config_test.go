package config_test

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasksweep/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return config.New(t.TempDir())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := testConfig(t)

	want := &config.Settings{
		Username: "someone@gmail.com",
		ListSets: []config.ListSet{
			{Primary: "Shopping", LowPriority: "Shopping Later"},
			{Primary: "Errands", LowPriority: "Errands Someday"},
		},
	}

	require.NoError(t, cfg.SaveSettings(want))

	got, err := cfg.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, want.Username, got.Username)
	assert.Equal(t, want.ListSets, got.ListSets)
}

func TestSaveWritesFlatIndexedFormat(t *testing.T) {
	cfg := testConfig(t)

	s := &config.Settings{
		Username: "someone@gmail.com",
		ListSets: []config.ListSet{
			{Primary: "Shopping", LowPriority: "Shopping Later"},
		},
	}
	require.NoError(t, cfg.SaveSettings(s))

	data, err := os.ReadFile(cfg.SettingsPath())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "someone@gmail.com", raw["username"])
	assert.Equal(t, float64(1), raw["number_of_lists"])
	assert.Equal(t, "Shopping", raw["list_1_primary"])
	assert.Equal(t, "Shopping Later", raw["list_1_low_priority"])
}

func TestLoadMissingFile(t *testing.T) {
	cfg := testConfig(t)

	_, err := cfg.LoadSettings()
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadMalformedFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.EnsureDir())
	require.NoError(t, os.WriteFile(cfg.SettingsPath(), []byte("{not json"), 0600))

	_, err := cfg.LoadSettings()
	var parseErr *config.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Error(), cfg.SettingsPath())
}

func TestLoadMissingKeys(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.EnsureDir())

	// number_of_lists says two sets but only one is present.
	content := `{
		"username": "someone@gmail.com",
		"number_of_lists": 2,
		"list_1_primary": "Shopping",
		"list_1_low_priority": "Shopping Later"
	}`
	require.NoError(t, os.WriteFile(cfg.SettingsPath(), []byte(content), 0600))

	_, err := cfg.LoadSettings()
	var parseErr *config.ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestLoadAbsurdListCount(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, cfg.EnsureDir())

	// A count the file's keys cannot back must surface as a parse error,
	// never size an allocation.
	content := `{
		"username": "someone@gmail.com",
		"number_of_lists": 4611686018427387904,
		"list_1_primary": "Shopping",
		"list_1_low_priority": "Shopping Later"
	}`
	require.NoError(t, os.WriteFile(cfg.SettingsPath(), []byte(content), 0600))

	_, err := cfg.LoadSettings()
	var parseErr *config.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Error(), "number_of_lists")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       config.Settings
		wantErr bool
	}{
		{
			name: "valid",
			s: config.Settings{
				Username: "a@b.com",
				ListSets: []config.ListSet{{Primary: "A", LowPriority: "B"}},
			},
		},
		{
			name: "empty username",
			s: config.Settings{
				ListSets: []config.ListSet{{Primary: "A", LowPriority: "B"}},
			},
			wantErr: true,
		},
		{
			name: "not an email",
			s: config.Settings{
				Username: "nobody",
				ListSets: []config.ListSet{{Primary: "A", LowPriority: "B"}},
			},
			wantErr: true,
		},
		{
			name:    "no list sets",
			s:       config.Settings{Username: "a@b.com"},
			wantErr: true,
		},
		{
			name: "empty primary name",
			s: config.Settings{
				Username: "a@b.com",
				ListSets: []config.ListSet{{Primary: " ", LowPriority: "B"}},
			},
			wantErr: true,
		},
		{
			name: "same list on both sides",
			s: config.Settings{
				Username: "a@b.com",
				ListSets: []config.ListSet{{Primary: "A", LowPriority: "A"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultDirEnvOverride(t *testing.T) {
	t.Setenv(config.DirEnv, filepath.Join(t.TempDir(), "custom"))
	dir := config.DefaultDir()
	assert.Equal(t, os.Getenv(config.DirEnv), dir)
}
