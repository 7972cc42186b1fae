package mockstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/admindesk/pkg/types"
)

func ptr[T any](v T) *T { return &v }

func userNames(users []types.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Name
	}
	return out
}

func TestListUsers(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		query     types.UserQuery
		wantTotal int
		wantLen   int
		check     func(t *testing.T, page types.Page[types.User])
	}{
		{
			name:      "default page",
			query:     types.UserQuery{},
			wantTotal: 32,
			wantLen:   10,
			check: func(t *testing.T, page types.Page[types.User]) {
				assert.Equal(t, 1, page.Page)
				assert.Equal(t, 10, page.PageSize)
				assert.Equal(t, 4, page.TotalPages)
			},
		},
		{
			name:      "jane matches one user over name and email",
			query:     types.UserQuery{Query: types.Query{SearchText: "jane"}},
			wantTotal: 1,
			wantLen:   1,
			check: func(t *testing.T, page types.Page[types.User]) {
				assert.Equal(t, "Jane Smith", page.Data[0].Name)
			},
		},
		{
			name:      "status filter",
			query:     types.UserQuery{Status: types.StatusInactive},
			wantTotal: 6,
			wantLen:   6,
		},
		{
			name:      "role filter",
			query:     types.UserQuery{Role: types.RoleAdmin},
			wantTotal: 3,
			wantLen:   3,
		},
		{
			name:      "all disables filters",
			query:     types.UserQuery{Status: types.FilterAll, Role: types.FilterAll},
			wantTotal: 32,
			wantLen:   10,
		},
		{
			name:      "last page",
			query:     types.UserQuery{Query: types.Query{Page: 4, PageSize: 10}},
			wantTotal: 32,
			wantLen:   2,
		},
		{
			name:      "page beyond range",
			query:     types.UserQuery{Query: types.Query{Page: 9, PageSize: 10}},
			wantTotal: 32,
			wantLen:   0,
		},
		{
			name:      "sort by created_at",
			query:     types.UserQuery{Query: types.Query{SortBy: "created_at", PageSize: 1}},
			wantTotal: 32,
			wantLen:   1,
			check: func(t *testing.T, page types.Page[types.User]) {
				assert.Equal(t, "Michael Chen", page.Data[0].Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.ListUsers(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Len(t, page.Data, tt.wantLen)
			if tt.check != nil {
				tt.check(t, page)
			}
		})
	}
}

func TestListUsersSortToggleReverses(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	spec := types.SortSpec{}.Toggle("name")
	asc, err := s.ListUsers(ctx, types.UserQuery{Query: types.Query{Sort: spec, PageSize: 100}})
	require.NoError(t, err)
	desc, err := s.ListUsers(ctx, types.UserQuery{Query: types.Query{Sort: spec.Toggle("name"), PageSize: 100}})
	require.NoError(t, err)

	names := userNames(asc.Data)
	require.Len(t, names, 32)
	assert.Equal(t, "Admin User", names[0])
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	assert.Equal(t, names, userNames(desc.Data))
}

func TestListUsersUnknownSortField(t *testing.T) {
	s, _, _ := setupStore(t)
	_, err := s.ListUsers(context.Background(), types.UserQuery{Query: types.Query{SortBy: "salary"}})
	assert.ErrorIs(t, err, types.ErrUnknownField)
}

func TestCreateUser(t *testing.T) {
	s, _, c := setupStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, types.CreateUserRequest{Name: "Nora New", Email: "nora@example.com", Role: types.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 33, u.ID)
	assert.Equal(t, types.StatusActive, u.Status)
	assert.Equal(t, AvatarURL(types.RoleAdmin), u.AvatarURL)
	assert.True(t, u.CreatedAt.Equal(c.Now()))

	got, err := s.GetUser(ctx, 33)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = s.CreateUser(ctx, types.CreateUserRequest{Name: "", Email: "x@example.com", Role: types.RoleUser})
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	before, err := s.ListUsers(ctx, types.UserQuery{})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, types.CreateUserRequest{Name: "Jane Again", Email: "Jane.Smith@example.com", Role: types.RoleUser})
	require.ErrorIs(t, err, types.ErrConflict)

	after, err := s.ListUsers(ctx, types.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, before.Total, after.Total)
}

func TestUpdateUser(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	u, err := s.UpdateUser(ctx, 2, types.UpdateUserRequest{Name: ptr("Johnny Doe")})
	require.NoError(t, err)
	assert.Equal(t, "Johnny Doe", u.Name)
	assert.Equal(t, "john.doe@example.com", u.Email)

	_, err = s.UpdateUser(ctx, 2, types.UpdateUserRequest{Email: ptr("admin@example.com")})
	assert.ErrorIs(t, err, types.ErrConflict)

	_, err = s.UpdateUser(ctx, 2, types.UpdateUserRequest{Email: ptr("JOHN.DOE@example.com")})
	assert.NoError(t, err, "a user may keep their own email")

	_, err = s.UpdateUser(ctx, 999, types.UpdateUserRequest{Name: ptr("Ghost")})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.DeleteUser(ctx, 5))
	_, err := s.GetUser(ctx, 5)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, s.DeleteUser(ctx, 5), types.ErrNotFound)
}

func TestBulkOperationsSkipUnknownIDs(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	n, err := s.BulkUpdateUserStatus(ctx, []int{2, 3, 404}, types.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	inactive, err := s.ListUsers(ctx, types.UserQuery{Status: types.StatusInactive})
	require.NoError(t, err)
	assert.Equal(t, 8, inactive.Total)

	_, err = s.BulkUpdateUserStatus(ctx, []int{2}, "banned")
	assert.ErrorIs(t, err, types.ErrValidation)

	n, err = s.BulkDeleteUsers(ctx, []int{2, 3, 404})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := s.ListUsers(ctx, types.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, 30, all.Total)
}

func TestProfile(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	u, err := s.UpdateProfile(ctx, types.UpdateUserRequest{Name: ptr("Head Admin")})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.Equal(t, "Head Admin", u.Name)

	assert.NoError(t, s.ChangePassword(ctx, types.AdminEmail, DemoPassword, "s3cret!"))
	assert.ErrorIs(t, s.ChangePassword(ctx, types.AdminEmail, "wrong", "s3cret!"), types.ErrValidation)
	assert.ErrorIs(t, s.ChangePassword(ctx, types.AdminEmail, DemoPassword, "abc"), types.ErrValidation)

	require.NoError(t, s.DeleteUser(ctx, 1))
	_, err = s.UpdateProfile(ctx, types.UpdateUserRequest{Name: ptr("Nobody")})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDashboardStats(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, types.CreateUserRequest{Name: "Fresh", Email: "fresh@example.com", Role: types.RoleUser})
	require.NoError(t, err)

	stats, err := s.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 33, stats.TotalUsers)
	assert.Equal(t, 27, stats.ActiveUsers)
	assert.Equal(t, 1, stats.NewUsersThisMonth)
	assert.Equal(t, []types.ChartPoint{
		{Label: "May", Value: 23},
		{Label: "Jun", Value: 25},
		{Label: "Jul", Value: 27},
		{Label: "Aug", Value: 29},
		{Label: "Sep", Value: 31},
		{Label: "Oct", Value: 33},
	}, stats.UserGrowth)
}
