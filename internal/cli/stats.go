package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/admindesk/pkg/types"
)

func newStatsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the dashboard summary of the user set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			stats, err := f.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			return s.emit(cmd, stats, func(w io.Writer) error { return renderStats(w, stats) })
		},
	}
}

// renderStats prints the totals and one bar per growth month.
func renderStats(w io.Writer, stats types.DashboardStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total users:\t%d\n", stats.TotalUsers)
	fmt.Fprintf(tw, "Active users:\t%d\n", stats.ActiveUsers)
	fmt.Fprintf(tw, "New this month:\t%d\n", stats.NewUsersThisMonth)
	if len(stats.UserGrowth) > 0 {
		fmt.Fprintln(tw, "Growth:\t")
	}
	for _, p := range stats.UserGrowth {
		fmt.Fprintf(tw, "  %s\t%d\t%s\n", p.Label, p.Value, strings.Repeat("#", p.Value))
	}
	return tw.Flush()
}
