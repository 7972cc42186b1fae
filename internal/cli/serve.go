package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/admindesk/internal/server"
)

func newServeCmd(s *session) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve products and the bundled fixtures over REST",
		Long: "Serve exposes /api/products and /users.json, /products.json and\n" +
			"/orders.json until interrupted. Point remote.base_url of another\n" +
			"admindesk at it to exercise the remote product path.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = s.cfg.Server.Addr
			}
			if _, err := s.open(cmd.Context()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := server.New(s.store, server.Options{Logger: s.logger})
			s.logger.Info("serving", "addr", addr, "backend", s.cfg.Storage.Backend)
			if err := server.Serve(ctx, app, addr); err != nil {
				return sysErrorf("serve %s: %w", addr, err)
			}
			s.logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	return cmd
}
