package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/admindesk/internal/paths"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// initResult is the structured output of init.
type initResult struct {
	ConfigFile string         `json:"config_file" yaml:"config_file"`
	Backend    string         `json:"backend" yaml:"backend"`
	DataDir    string         `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
	Counts     map[string]int `json:"counts" yaml:"counts"`
}

func newInitCmd(s *session) *cobra.Command {
	var backend string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize admindesk storage",
		Long: "Pin the effective configuration into config.yaml, then seed users,\n" +
			"products and orders into the configured storage backend.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if backend != "" {
				s.cfg.Storage.Backend = backend
				if err := s.cfg.Validate(); err != nil {
					return fmt.Errorf("invalid config: %w", err)
				}
			}

			configPath := filepath.Join(s.configDir, paths.ConfigFile)
			if err := writeConfig(configPath, s.cfg); err != nil {
				return sysErrorf("write config: %w", err)
			}

			if _, err := s.open(cmd.Context()); err != nil {
				return err
			}
			counts, err := s.store.Counts(cmd.Context())
			if err != nil {
				return err
			}

			res := initResult{ConfigFile: configPath, Backend: s.cfg.Storage.Backend, Counts: counts}
			if s.cfg.Storage.Backend == types.BackendFile || s.cfg.Storage.Backend == types.BackendSQLite {
				res.DataDir = s.cfg.Storage.DataDir
			}
			return s.emit(cmd, res, func(w io.Writer) error {
				parts := make([]string, 0, len(types.StandardEntities))
				for _, e := range types.StandardEntities {
					parts = append(parts, fmt.Sprintf("%d %s", counts[e], e))
				}
				_, err := fmt.Fprintf(w, "Initialized %s storage: %s\n", res.Backend, strings.Join(parts, ", "))
				return err
			})
		},
	}
	cmd.Flags().StringVar(&backend, "backend", "", "storage backend to record in config.yaml")
	return cmd
}

// writeConfig writes cfg to path as YAML. Running init twice with the same
// inputs rewrites the same file.
func writeConfig(path string, cfg types.Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
