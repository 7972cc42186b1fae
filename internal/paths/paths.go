// Package paths resolves where admindesk keeps config.yaml and the
// persisted record sets of the file and sqlite storage backends.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user platform directories.
const AppName = "admindesk"

// ConfigFile is the name of the configuration file inside the config dir.
const ConfigFile = "config.yaml"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "ADMINDESK_CONFIG_DIR"
	EnvDataDir   = "ADMINDESK_DATA_DIR"
)

// Kind selects the config or the data location.
type Kind int

const (
	Config Kind = iota
	Data
)

// xdgLayout is the Linux layout per Kind: the XDG variable and the
// home-relative fallback.
var xdgLayout = map[Kind]struct {
	env      string
	fallback []string
}{
	Config: {env: "XDG_CONFIG_HOME", fallback: []string{".config"}},
	Data:   {env: "XDG_DATA_HOME", fallback: []string{".local", "share"}},
}

// Env is the slice of the process environment that path resolution reads.
type Env struct {
	GOOS          string
	Getenv        func(string) string
	Getwd         func() (string, error)
	UserHomeDir   func() (string, error)
	UserConfigDir func() (string, error)
}

// OS returns the environment of the running process.
func OS() Env {
	return Env{
		GOOS:          runtime.GOOS,
		Getenv:        os.Getenv,
		Getwd:         os.Getwd,
		UserHomeDir:   os.UserHomeDir,
		UserConfigDir: os.UserConfigDir,
	}
}

// Default returns the platform directory for kind. On Linux that is
// $XDG_CONFIG_HOME/admindesk or $XDG_DATA_HOME/admindesk, falling back to
// ~/.config and ~/.local/share. Elsewhere both kinds share
// os.UserConfigDir()/admindesk.
func (e Env) Default(kind Kind) (string, error) {
	if e.GOOS != "linux" {
		dir, err := e.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	layout := xdgLayout[kind]
	if xdg := e.Getenv(layout.env); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := e.UserHomeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, layout.fallback...)
	return filepath.Join(append(parts, AppName)...), nil
}

// abs makes p absolute against base, or against the working directory
// when base is empty.
func (e Env) abs(p, base string) (string, error) {
	if filepath.IsAbs(p) {
		return filepath.Clean(p), nil
	}
	if base == "" {
		wd, err := e.Getwd()
		if err != nil {
			return "", err
		}
		base = wd
	}
	return filepath.Join(base, p), nil
}

// ConfigDir returns flag > ADMINDESK_CONFIG_DIR > Default(Config).
func (e Env) ConfigDir(flag string) (string, error) {
	for _, v := range []string{flag, e.Getenv(EnvConfigDir)} {
		if v != "" {
			return e.abs(v, "")
		}
	}
	return e.Default(Config)
}

// DataDir returns flag > storage.data_dir from config.yaml >
// ADMINDESK_DATA_DIR > Default(Data). A relative storage.data_dir is read
// against configDir so the file and its data move together; flag and env
// values are relative to the working directory.
func (e Env) DataDir(flag, configured, configDir string) (string, error) {
	switch {
	case flag != "":
		return e.abs(flag, "")
	case configured != "":
		return e.abs(configured, configDir)
	}
	if env := e.Getenv(EnvDataDir); env != "" {
		return e.abs(env, "")
	}
	return e.Default(Data)
}
