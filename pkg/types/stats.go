package types

// ChartPoint is one labelled value of the dashboard growth chart.
type ChartPoint struct {
	Label string `json:"label" yaml:"label"`
	Value int    `json:"value" yaml:"value"`
}

// DashboardStats summarizes the user set.
type DashboardStats struct {
	TotalUsers        int          `json:"totalUsers" yaml:"totalUsers"`
	ActiveUsers       int          `json:"activeUsers" yaml:"activeUsers"`
	NewUsersThisMonth int          `json:"newUsersThisMonth" yaml:"newUsersThisMonth"`
	UserGrowth        []ChartPoint `json:"userGrowthData" yaml:"userGrowthData"`
}
