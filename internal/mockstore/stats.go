package mockstore

import (
	"context"
	"time"

	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// growthMonths is the number of points on the user growth chart.
const growthMonths = 6

// DashboardStats counts users, active users and users created in the
// current calendar month, and builds the growth chart for the last six
// months. The chart value for i months ago is max(0, total-2i).
func (s *Store) DashboardStats(ctx context.Context) (types.DashboardStats, error) {
	if err := s.begin(ctx, OpDashboardStats); err != nil {
		return types.DashboardStats{}, err
	}
	defer s.mu.Unlock()
	s.ensureUsers(ctx)

	now := s.clock()
	stats := types.DashboardStats{TotalUsers: len(s.users)}
	for _, u := range s.users {
		if u.Status == types.StatusActive {
			stats.ActiveUsers++
		}
		c := u.CreatedAt.In(s.loc)
		if c.Year() == now.Year() && c.Month() == now.Month() {
			stats.NewUsersThisMonth++
		}
	}

	stats.UserGrowth = make([]types.ChartPoint, 0, growthMonths)
	for i := growthMonths - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, s.loc)
		stats.UserGrowth = append(stats.UserGrowth, types.ChartPoint{
			Label: month.Format("Jan"),
			Value: max(0, stats.TotalUsers-2*i),
		})
	}
	return stats, nil
}
