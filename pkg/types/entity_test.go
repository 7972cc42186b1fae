package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCreateUserRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr bool
	}{
		{name: "valid", req: CreateUserRequest{Name: "Ann", Email: "ann@example.com", Role: RoleUser}},
		{name: "valid with status", req: CreateUserRequest{Name: "Ann", Email: "ann@example.com", Role: RoleAdmin, Status: StatusInactive}},
		{name: "missing name", req: CreateUserRequest{Email: "ann@example.com", Role: RoleUser}, wantErr: true},
		{name: "bad email", req: CreateUserRequest{Name: "Ann", Email: "not-an-email", Role: RoleUser}, wantErr: true},
		{name: "unknown role", req: CreateUserRequest{Name: "Ann", Email: "ann@example.com", Role: "root"}, wantErr: true},
		{name: "unknown status", req: CreateUserRequest{Name: "Ann", Email: "ann@example.com", Role: RoleUser, Status: "gone"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUpdateUserRequestApply(t *testing.T) {
	u := User{ID: 3, Name: "Jane Smith", Email: "jane.smith@example.com", Role: RoleUser, Status: StatusActive}
	req := UpdateUserRequest{Status: ptr(StatusInactive)}
	require.NoError(t, req.Validate())

	req.Apply(&u)
	assert.Equal(t, StatusInactive, u.Status)
	assert.Equal(t, "Jane Smith", u.Name, "unset fields are kept")

	assert.ErrorIs(t, UpdateUserRequest{Name: ptr(" ")}.Validate(), ErrValidation)
}

func TestUpdateProductRequest(t *testing.T) {
	p := Product{ID: "p-001", Name: "Nova 1", Quantity: 7, Description: "x"}
	UpdateProductRequest{Quantity: ptr(3)}.Apply(&p)
	assert.Equal(t, 3, p.Quantity)
	assert.Equal(t, "Nova 1", p.Name)

	assert.ErrorIs(t, UpdateProductRequest{Quantity: ptr(-1)}.Validate(), ErrValidation)
	assert.ErrorIs(t, CreateProductRequest{Quantity: 1}.Validate(), ErrValidation)
}

func TestClampQuantity(t *testing.T) {
	assert.Equal(t, 4, ClampQuantity(5, -1))
	assert.Equal(t, 0, ClampQuantity(1, -1))
	assert.Equal(t, 0, ClampQuantity(0, -1))
	assert.Equal(t, 0, ClampQuantity(2, -10))
	assert.Equal(t, 12, ClampQuantity(2, 10))
}

func TestOrderTransitions(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		accept     bool
		wantStatus string
		wantErr    error
	}{
		{name: "accept waiting", status: OrderWaiting, accept: true, wantStatus: OrderAccepted},
		{name: "reject waiting", status: OrderWaiting, wantStatus: OrderRejected},
		{name: "accept filled", status: OrderFilled, accept: true, wantStatus: OrderFilled, wantErr: ErrInvalidState},
		{name: "reject accepted", status: OrderAccepted, wantStatus: OrderAccepted, wantErr: ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Order{ID: "00000001", Status: tt.status}
			var err error
			if tt.accept {
				err = o.Accept()
			} else {
				err = o.Reject()
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStatus, o.Status)
		})
	}
}

func TestParseOrderDate(t *testing.T) {
	want := time.Date(2025, time.October, 3, 10, 0, 0, 0, time.UTC)

	for _, s := range []string{"2025/10/03 10:00:00", "2025-10-03 10:00:00", "2025-10-03T10:00:00Z"} {
		got, err := ParseOrderDate(s, time.UTC)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
	}

	day, err := ParseOrderDate("2025/10/03", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.October, 3, 0, 0, 0, 0, time.UTC), day)

	_, err = ParseOrderDate("yesterday", time.UTC)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, "2025/10/03 10:00:00", FormatOrderDate(want))
}

func TestOrderSearchRequestValidate(t *testing.T) {
	tests := []struct {
		status  string
		wantErr bool
	}{
		{status: ""},
		{status: FilterAll},
		{status: OrderWaiting},
		{status: OrderAccepted},
		{status: "waiting", wantErr: true},
		{status: "Pending", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			err := OrderSearchRequest{Status: tt.status}.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
