package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/admindesk/internal/mockstore"
	"github.com/mesh-intelligence/admindesk/internal/table"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

var userColumns = []table.Column[types.User]{
	{Key: "id", Header: "ID"},
	{Key: "name", Header: "Name"},
	{Key: "email", Header: "Email"},
	{Key: "role", Header: "Role"},
	{Key: "status", Header: "Status"},
	{Key: "created_at", Header: "Created", Cell: func(u types.User) string { return u.CreatedAt.Format("2006-01-02") }},
}

func userFields(u types.User) []field {
	return []field{
		{"ID", u.ID},
		{"Name", u.Name},
		{"Email", u.Email},
		{"Role", u.Role},
		{"Status", u.Status},
		{"Avatar", u.AvatarURL},
		{"Created", u.CreatedAt},
		{"Updated", u.UpdatedAt},
	}
}

func (s *session) emitUser(cmd *cobra.Command, u types.User) error {
	return s.emit(cmd, u, func(w io.Writer) error { return renderFields(w, userFields(u)) })
}

// parseUserID parses a numeric user id argument.
func parseUserID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: user id %q", types.ErrInvalidID, arg)
	}
	return id, nil
}

func parseUserIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseUserID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newUsersCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(
		newUsersListCmd(s),
		newUsersGetCmd(s),
		newUsersCreateCmd(s),
		newUsersUpdateCmd(s),
		newUsersDeleteCmd(s),
		newUsersBulkDeleteCmd(s),
		newUsersBulkStatusCmd(s),
		newUsersProfileCmd(s),
		newUsersPasswordCmd(s),
	)
	return cmd
}

// listFlags are the query flags shared by the list commands.
type listFlags struct {
	search string
	sort   string
	page   int
	limit  int
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive substring filter")
	cmd.Flags().StringVar(&f.sort, "sort", "", `sort keys, e.g. "name,-created_at"`)
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.limit, "limit", mockstore.DefaultPageSize, "page size")
}

func (f *listFlags) query() (types.Query, error) {
	q := types.Query{SearchText: f.search, Page: f.page, PageSize: f.limit}
	if f.sort != "" {
		spec, err := types.ParseSortSpec(f.sort)
		if err != nil {
			return types.Query{}, err
		}
		q.Sort = spec
	}
	return q, nil
}

func newUsersListCmd(s *session) *cobra.Command {
	var (
		lf     listFlags
		status string
		role   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Example: `  admindesk users list --status active --sort name
  admindesk users list --search doe --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := lf.query()
			if err != nil {
				return err
			}
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			page, err := f.Users().List(cmd.Context(), types.UserQuery{Query: q, Status: status, Role: role})
			if err != nil {
				return err
			}
			return s.emit(cmd, page, func(w io.Writer) error {
				return renderPage(w, userColumns, mockstore.UserFields, types.User.Key, page)
			})
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&status, "status", types.FilterAll, "active, inactive or all")
	cmd.Flags().StringVar(&role, "role", types.FilterAll, "admin, user or all")
	return cmd
}

func newUsersGetCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			u, err := f.Users().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return s.emitUser(cmd, u)
		},
	}
}

func newUsersCreateCmd(s *session) *cobra.Command {
	var req types.CreateUserRequest
	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a user",
		Example: `  admindesk users create --name "Ada Lovelace" --email ada@example.com --role admin`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			u, err := f.Users().Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			return s.emitUser(cmd, u)
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "unique email address")
	cmd.Flags().StringVar(&req.Role, "role", types.RoleUser, "admin or user")
	cmd.Flags().StringVar(&req.Status, "status", types.StatusActive, "active or inactive")
	return cmd
}

// userUpdateFlags registers the partial-update flags and returns a builder
// that only sets the fields whose flags were given.
func userUpdateFlags(cmd *cobra.Command) func() types.UpdateUserRequest {
	var name, email, role, status string
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email address")
	cmd.Flags().StringVar(&role, "role", "", "new role")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	return func() types.UpdateUserRequest {
		var req types.UpdateUserRequest
		if cmd.Flags().Changed("name") {
			req.Name = &name
		}
		if cmd.Flags().Changed("email") {
			req.Email = &email
		}
		if cmd.Flags().Changed("role") {
			req.Role = &role
		}
		if cmd.Flags().Changed("status") {
			req.Status = &status
		}
		return req
	}
}

func newUsersUpdateCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a user",
		Args:  cobra.ExactArgs(1),
	}
	build := userUpdateFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		f, err := s.open(cmd.Context())
		if err != nil {
			return err
		}
		u, err := f.Users().Update(cmd.Context(), id, build())
		if err != nil {
			return err
		}
		return s.emitUser(cmd, u)
	}
	return cmd
}

func newUsersDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := f.Users().Delete(cmd.Context(), id); err != nil {
				return err
			}
			return s.emit(cmd, map[string]int{"deleted": id}, message("Deleted user %d", id))
		},
	}
}

func newUsersBulkDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-delete <id>...",
		Short: "Delete several users; unknown ids are skipped",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseUserIDs(args)
			if err != nil {
				return err
			}
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := f.Users().BulkDelete(cmd.Context(), ids)
			if err != nil {
				return err
			}
			return s.emit(cmd, map[string]int{"deleted": n}, message("Deleted %d users", n))
		},
	}
}

func newUsersBulkStatusCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "bulk-status <status> <id>...",
		Short:   "Set the status of several users; unknown ids are skipped",
		Example: `  admindesk users bulk-status inactive 3 4 5`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := args[0]
			ids, err := parseUserIDs(args[1:])
			if err != nil {
				return err
			}
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			n, err := f.Users().BulkUpdateStatus(cmd.Context(), ids, status)
			if err != nil {
				return err
			}
			return s.emit(cmd, map[string]int{"updated": n}, message("Set %d users to %s", n, status))
		},
	}
}

func newUsersProfileCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the administrator's own profile",
		Args:  cobra.NoArgs,
	}
	build := userUpdateFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		f, err := s.open(cmd.Context())
		if err != nil {
			return err
		}
		u, err := f.Users().UpdateProfile(cmd.Context(), build())
		if err != nil {
			return err
		}
		return s.emitUser(cmd, u)
	}
	return cmd
}

func newUsersPasswordCmd(s *session) *cobra.Command {
	var email, current, next string
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change an account password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := f.Users().ChangePassword(cmd.Context(), email, current, next); err != nil {
				return err
			}
			return s.emit(cmd, map[string]string{"email": email}, message("Password changed for %s", email))
		},
	}
	cmd.Flags().StringVar(&email, "email", types.AdminEmail, "account email")
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	return cmd
}
