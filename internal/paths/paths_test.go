package paths

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEnv builds an Env from a variable map, rooted at /work with home
// /home/ann.
func fakeEnv(goos string, vars map[string]string) Env {
	return Env{
		GOOS:          goos,
		Getenv:        func(k string) string { return vars[k] },
		Getwd:         func() (string, error) { return "/work", nil },
		UserHomeDir:   func() (string, error) { return "/home/ann", nil },
		UserConfigDir: func() (string, error) { return "/Users/ann/Library/Application Support", nil },
	}
}

func TestDefault(t *testing.T) {
	tests := []struct {
		name string
		goos string
		vars map[string]string
		kind Kind
		want string
	}{
		{name: "linux config from XDG", goos: "linux", vars: map[string]string{"XDG_CONFIG_HOME": "/xdg/config"}, kind: Config, want: "/xdg/config/admindesk"},
		{name: "linux config fallback", goos: "linux", kind: Config, want: "/home/ann/.config/admindesk"},
		{name: "linux data from XDG", goos: "linux", vars: map[string]string{"XDG_DATA_HOME": "/xdg/data"}, kind: Data, want: "/xdg/data/admindesk"},
		{name: "linux data fallback", goos: "linux", kind: Data, want: "/home/ann/.local/share/admindesk"},
		{name: "darwin ignores XDG", goos: "darwin", vars: map[string]string{"XDG_CONFIG_HOME": "/xdg/config"}, kind: Config, want: "/Users/ann/Library/Application Support/admindesk"},
		{name: "darwin data shares config dir", goos: "darwin", kind: Data, want: "/Users/ann/Library/Application Support/admindesk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fakeEnv(tt.goos, tt.vars).Default(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultHomeDirError(t *testing.T) {
	env := fakeEnv("linux", nil)
	env.UserHomeDir = func() (string, error) { return "", errors.New("no home") }

	_, err := env.Default(Config)
	assert.Error(t, err)

	env.Getenv = func(k string) string {
		if k == "XDG_CONFIG_HOME" {
			return "/xdg"
		}
		return ""
	}
	got, err := env.Default(Config)
	require.NoError(t, err)
	assert.Equal(t, "/xdg/admindesk", got, "XDG does not need a home directory")
}

func TestConfigDir(t *testing.T) {
	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{name: "flag wins over env", flag: "/explicit/config", env: "/env/config", want: "/explicit/config"},
		{name: "env when flag empty", env: "/env/config", want: "/env/config"},
		{name: "relative flag joins working dir", flag: "conf", want: "/work/conf"},
		{name: "relative env joins working dir", env: "./envconf/", want: "/work/envconf"},
		{name: "platform default", want: "/home/ann/.config/admindesk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := fakeEnv("linux", map[string]string{EnvConfigDir: tt.env})
			got, err := env.ConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataDir(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		configured string
		env        string
		want       string
	}{
		{name: "flag wins over all", flag: "/flag/data", configured: "/config/data", env: "/env/data", want: "/flag/data"},
		{name: "config.yaml wins over env", configured: "/config/data", env: "/env/data", want: "/config/data"},
		{name: "relative config.yaml value joins config dir", configured: "db", env: "/env/data", want: "/etc/admindesk/db"},
		{name: "env when flag and config empty", env: "/env/data", want: "/env/data"},
		{name: "relative flag joins working dir", flag: "data", want: "/work/data"},
		{name: "platform default", want: "/home/ann/.local/share/admindesk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := fakeEnv("linux", map[string]string{EnvDataDir: tt.env})
			got, err := env.DataDir(tt.flag, tt.configured, "/etc/admindesk")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetwdError(t *testing.T) {
	env := fakeEnv("linux", nil)
	env.Getwd = func() (string, error) { return "", errors.New("cwd removed") }

	_, err := env.ConfigDir("relative")
	assert.Error(t, err)

	got, err := env.DataDir("", "db", "/etc/admindesk")
	require.NoError(t, err)
	assert.Equal(t, "/etc/admindesk/db", got, "config-relative values do not need the working dir")
}

func TestOSUsesProcessEnvironment(t *testing.T) {
	t.Setenv(EnvConfigDir, "/from/process")
	got, err := OS().ConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, "/from/process", got)
}
