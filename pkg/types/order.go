package types

import (
	"fmt"
	"strings"
	"time"
)

// Order statuses.
const (
	OrderWaiting   = "Waiting"
	OrderFilled    = "Filled"
	OrderCancelled = "Cancelled"
	OrderRejected  = "Rejected"
	OrderAccepted  = "Accepted"
)

// Order operations.
const (
	OperationBuy  = "Buy"
	OperationSell = "Sell"
)

var validOrderStatuses = map[string]bool{
	OrderWaiting:   true,
	OrderFilled:    true,
	OrderCancelled: true,
	OrderRejected:  true,
	OrderAccepted:  true,
}

// OrderDateLayout is the wire format of Order.Date and Order.Expiration.
const OrderDateLayout = "2006/01/02 15:04:05"

// Order is a trading order shown in the order search view.
type Order struct {
	ID              string   `json:"id" yaml:"id"`           // 8-digit zero-padded index.
	Account         string   `json:"account" yaml:"account"` // Same as ID for generated data.
	Operation       string   `json:"operation" yaml:"operation"`
	Symbol          string   `json:"symbol" yaml:"symbol"`
	Description     string   `json:"description" yaml:"description"`
	Qty             int      `json:"qty" yaml:"qty"`
	FilledQty       int      `json:"filledQty" yaml:"filledQty"`
	Price           float64  `json:"price" yaml:"price"`
	Status          string   `json:"status" yaml:"status"`
	Date            string   `json:"date" yaml:"date"` // OrderDateLayout.
	Expiration      string   `json:"expiration" yaml:"expiration"`
	NoRef           string   `json:"noRef" yaml:"noRef"`
	ExtRef          string   `json:"extRef" yaml:"extRef"`
	NetAmount       string   `json:"netAmount" yaml:"netAmount"`
	ReferenceNumber string   `json:"referenceNumber" yaml:"referenceNumber"`
	ExchangeRate    string   `json:"exchangeRate" yaml:"exchangeRate"`
	Telephone       string   `json:"telephone" yaml:"telephone"`
	QisLimit        string   `json:"qisLimit" yaml:"qisLimit"`
	UserID          string   `json:"userId" yaml:"userId"`
	Warnings        []string `json:"warnings" yaml:"warnings"`
}

// Key returns the order identity.
func (o Order) Key() string { return o.ID }

// Accept moves a waiting order to Accepted.
// Returns ErrInvalidState from any other status.
func (o *Order) Accept() error {
	if o.Status != OrderWaiting {
		return fmt.Errorf("%w: order %s is %s", ErrInvalidState, o.ID, o.Status)
	}
	o.Status = OrderAccepted
	return nil
}

// Reject moves a waiting order to Rejected.
// Returns ErrInvalidState from any other status.
func (o *Order) Reject() error {
	if o.Status != OrderWaiting {
		return fmt.Errorf("%w: order %s is %s", ErrInvalidState, o.ID, o.Status)
	}
	o.Status = OrderRejected
	return nil
}

// OrderSearchRequest is the order search form. Dates are inclusive and
// accept "YYYY/MM/DD" or "YYYY-MM-DD"; an empty date leaves that side open.
type OrderSearchRequest struct {
	StartDate  string    `json:"startDate,omitempty"`
	EndDate    string    `json:"endDate,omitempty"`
	Status     string    `json:"status,omitempty"`
	SearchText string    `json:"search,omitempty"`
	Page       int       `json:"page,omitempty"`
	Limit      int       `json:"limit,omitempty"`
	SortBy     string    `json:"sortBy,omitempty"`
	SortOrder  SortOrder `json:"sortOrder,omitempty"`
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool { return validOrderStatuses[s] }

// Validate checks the status filter. Empty and FilterAll match every order;
// statuses are case-sensitive.
func (r OrderSearchRequest) Validate() error {
	if r.Status == "" || r.Status == FilterAll || ValidOrderStatus(r.Status) {
		return nil
	}
	return fmt.Errorf("%w: unknown order status %q", ErrValidation, r.Status)
}

// FormatOrderDate renders t in OrderDateLayout.
func FormatOrderDate(t time.Time) string { return t.Format(OrderDateLayout) }

var orderDateLayouts = []string{
	OrderDateLayout,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006-01-02",
	time.RFC3339,
}

// ParseOrderDate parses the slashed order format, its hyphenated variant,
// a bare date, or RFC 3339. Times without a zone are read in loc.
func ParseOrderDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range orderDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad date %q", ErrValidation, s)
}
