package mockstore

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/admindesk/internal/query"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// DemoPassword is the only password ChangePassword accepts as current.
const DemoPassword = "password123"

// MinPasswordLength is the shortest accepted new password.
const MinPasswordLength = 6

// UserFields are the readable columns of a user.
var UserFields = query.Fields[types.User]{
	{Name: "id", Value: func(u types.User) any { return u.ID }},
	{Name: "name", Value: func(u types.User) any { return u.Name }},
	{Name: "email", Value: func(u types.User) any { return u.Email }},
	{Name: "role", Value: func(u types.User) any { return u.Role }},
	{Name: "status", Value: func(u types.User) any { return u.Status }},
	{Name: "created_at", Value: func(u types.User) any { return u.CreatedAt }},
	{Name: "updated_at", Value: func(u types.User) any { return u.UpdatedAt }},
}

// UserSearchFields are searched when a query names none.
var UserSearchFields = []string{"name", "email"}

// AvatarURL returns the avatar assigned to new users of role.
func AvatarURL(role string) string {
	return fmt.Sprintf("https://avatars.example.com/roles/%s.png", role)
}

func (s *Store) userIndex(id int) int {
	return slices.IndexFunc(s.users, func(u types.User) bool { return u.ID == id })
}

// emailTaken reports whether another user than exceptID owns email.
func (s *Store) emailTaken(email string, exceptID int) bool {
	for _, u := range s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// ListUsers filters by status and role, then runs the query. Page and
// page size default to 1 and 10.
func (s *Store) ListUsers(ctx context.Context, q types.UserQuery) (types.Page[types.User], error) {
	if err := s.begin(ctx, OpListUsers); err != nil {
		return types.Page[types.User]{}, err
	}
	defer s.mu.Unlock()
	s.ensureUsers(ctx)

	matched := make([]types.User, 0, len(s.users))
	for _, u := range s.users {
		if q.Status != "" && q.Status != types.FilterAll && u.Status != q.Status {
			continue
		}
		if q.Role != "" && q.Role != types.FilterAll && u.Role != q.Role {
			continue
		}
		matched = append(matched, u)
	}

	qq := q.Query
	qq.Page, qq.PageSize = defaultPage(qq.Page, qq.PageSize)
	if len(qq.SearchFields) == 0 {
		qq.SearchFields = UserSearchFields
	}
	return query.Run(matched, UserFields, qq)
}

// GetUser returns the user with id.
func (s *Store) GetUser(ctx context.Context, id int) (types.User, error) {
	if err := s.begin(ctx, OpGetUser); err != nil {
		return types.User{}, err
	}
	defer s.mu.Unlock()
	s.ensureUsers(ctx)

	i := s.userIndex(id)
	if i < 0 {
		return types.User{}, fmt.Errorf("user %d: %w", id, types.ErrNotFound)
	}
	return s.users[i], nil
}

// CreateUser validates req, rejects a duplicate email, assigns the next id
// and persists.
func (s *Store) CreateUser(ctx context.Context, req types.CreateUserRequest) (types.User, error) {
	if err := req.Validate(); err != nil {
		return types.User{}, err
	}
	if err := s.begin(ctx, OpCreateUser); err != nil {
		return types.User{}, err
	}
	defer s.mu.Unlock()
	s.ensureUsers(ctx)

	if s.emailTaken(req.Email, 0) {
		return types.User{}, fmt.Errorf("email %s: %w", req.Email, types.ErrConflict)
	}
	status := req.Status
	if status == "" {
		status = types.StatusActive
	}
	now := s.clock()
	u := types.User{
		ID:        s.nextUserID,
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		Status:    status,
		AvatarURL: AvatarURL(req.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}
	next := append(slices.Clone(s.users), u)
	if err := s.persist(ctx, types.UsersKey, next); err != nil {
		return types.User{}, err
	}
	s.users = next
	s.nextUserID++
	s.log.Debug("user created", "entity", types.EntityUsers, "id", u.ID)
	return u, nil
}

// UpdateUser merges the set fields of req into user id.
func (s *Store) UpdateUser(ctx context.Context, id int, req types.UpdateUserRequest) (types.User, error) {
	if err := req.Validate(); err != nil {
		return types.User{}, err
	}
	if err := s.begin(ctx, OpUpdateUser); err != nil {
		return types.User{}, err
	}
	defer s.mu.Unlock()
	s.ensureUsers(ctx)
	return s.updateUserLocked(ctx, s.userIndex(id), id, req)
}

func (s *Store) updateUserLocked(ctx context.Context, i, id int, req types.UpdateUserRequest) (types.User, error) {
	if i < 0 {
		return types.User{}, fmt.Errorf("user %d: %w", id, types.ErrNotFound)
	}
	if req.Email != nil && s.emailTaken(*req.Email, s.users[i].ID) {
		return types.User{}, fmt.Errorf("email %s: %w", *req.Email, types.ErrConflict)
	}
	u := s.users[i]
	req.Apply(&u)
	u.UpdatedAt = s.clock()

	next := slices.Clone(s.users)
	next[i] = u
	if err := s.persist(ctx, types.UsersKey, next); err != nil {
		return types.User{}, err
	}
	s.users = next
	s.log.Debug("user updated", "entity", types.EntityUsers, "id", u.ID)
	return u, nil
}

// DeleteUser removes user id.
func (s *Store) DeleteUser(ctx context.Context, id int) error {
	if err := s.begin(ctx, OpDeleteUser); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.ensureUsers(ctx)

	i := s.userIndex(id)
	if i < 0 {
		return fmt.Errorf("user %d: %w", id, types.ErrNotFound)
	}
	next := slices.Delete(slices.Clone(s.users), i, i+1)
	if err := s.persist(ctx, types.UsersKey, next); err != nil {
		return err
	}
	s.users = next
	s.log.Debug("user deleted", "entity", types.EntityUsers, "id", id)
	return nil
}

// BulkDeleteUsers removes every listed user. Unknown ids are skipped.
// It returns how many users were removed.
func (s *Store) BulkDeleteUsers(ctx context.Context, ids []int) (int, error) {
	if err := s.begin(ctx, OpBulkDeleteUsers); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()
	s.ensureUsers(ctx)

	next := slices.DeleteFunc(slices.Clone(s.users), func(u types.User) bool {
		return slices.Contains(ids, u.ID)
	})
	removed := len(s.users) - len(next)
	if err := s.persist(ctx, types.UsersKey, next); err != nil {
		return 0, err
	}
	s.users = next
	s.log.Debug("users deleted", "entity", types.EntityUsers, "count", removed)
	return removed, nil
}

// BulkUpdateUserStatus sets status on every listed user. Unknown ids are
// skipped. It returns how many users were updated.
func (s *Store) BulkUpdateUserStatus(ctx context.Context, ids []int, status string) (int, error) {
	if !types.ValidStatus(status) {
		return 0, fmt.Errorf("%w: unknown status %q", types.ErrValidation, status)
	}
	if err := s.begin(ctx, OpBulkUserStatus); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()
	s.ensureUsers(ctx)

	now := s.clock()
	next := slices.Clone(s.users)
	updated := 0
	for i := range next {
		if slices.Contains(ids, next[i].ID) {
			next[i].Status = status
			next[i].UpdatedAt = now
			updated++
		}
	}
	if err := s.persist(ctx, types.UsersKey, next); err != nil {
		return 0, err
	}
	s.users = next
	s.log.Debug("user status updated", "entity", types.EntityUsers, "count", updated, "status", status)
	return updated, nil
}

// UpdateProfile edits the admin account.
func (s *Store) UpdateProfile(ctx context.Context, req types.UpdateUserRequest) (types.User, error) {
	if err := req.Validate(); err != nil {
		return types.User{}, err
	}
	if err := s.begin(ctx, OpUpdateProfile); err != nil {
		return types.User{}, err
	}
	defer s.mu.Unlock()
	s.ensureUsers(ctx)

	i := slices.IndexFunc(s.users, func(u types.User) bool {
		return strings.EqualFold(u.Email, types.AdminEmail)
	})
	if i < 0 {
		return types.User{}, fmt.Errorf("profile %s: %w", types.AdminEmail, types.ErrNotFound)
	}
	return s.updateUserLocked(ctx, i, s.users[i].ID, req)
}

// ChangePassword checks current against the demo password and the length
// of next. Nothing is stored.
func (s *Store) ChangePassword(ctx context.Context, email, current, next string) error {
	if err := s.begin(ctx, OpChangePassword); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.ensureUsers(ctx)

	if current != DemoPassword {
		return fmt.Errorf("%w: current password is incorrect", types.ErrValidation)
	}
	if len(next) < MinPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters long", types.ErrValidation, MinPasswordLength)
	}
	s.log.Debug("password changed", "entity", types.EntityUsers, "email", email)
	return nil
}
