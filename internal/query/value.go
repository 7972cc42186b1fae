package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// kind orders values of different shapes: nil < number < string.
type kind int

const (
	kindNil kind = iota
	kindNumber
	kindString
)

// value is the comparable form of a field.
type value struct {
	kind kind
	num  float64
	str  string
}

// folder lower-cases text. A cases.Caser keeps state, so each pipeline run
// gets its own.
type folder struct {
	caser cases.Caser
}

func newFolder() *folder {
	return &folder{caser: cases.Lower(language.Und)}
}

func (f *folder) fold(s string) string {
	return f.caser.String(s)
}

// sortKey derives the sort key of a raw field value.
func (f *folder) sortKey(raw any) value {
	switch v := raw.(type) {
	case nil:
		return value{kind: kindNil}
	case string:
		if digitsOnly.MatchString(v) {
			n, err := strconv.ParseFloat(v, 64)
			if err == nil {
				return value{kind: kindNumber, num: n}
			}
		}
		return value{kind: kindString, str: f.fold(v)}
	case bool:
		if v {
			return value{kind: kindNumber, num: 1}
		}
		return value{kind: kindNumber, num: 0}
	case time.Time:
		if v.IsZero() {
			return value{kind: kindNil}
		}
		return value{kind: kindNumber, num: float64(v.UnixMilli())}
	case *time.Time:
		if v == nil {
			return value{kind: kindNil}
		}
		return f.sortKey(*v)
	case int:
		return value{kind: kindNumber, num: float64(v)}
	case int8:
		return value{kind: kindNumber, num: float64(v)}
	case int16:
		return value{kind: kindNumber, num: float64(v)}
	case int32:
		return value{kind: kindNumber, num: float64(v)}
	case int64:
		return value{kind: kindNumber, num: float64(v)}
	case uint:
		return value{kind: kindNumber, num: float64(v)}
	case uint8:
		return value{kind: kindNumber, num: float64(v)}
	case uint16:
		return value{kind: kindNumber, num: float64(v)}
	case uint32:
		return value{kind: kindNumber, num: float64(v)}
	case uint64:
		return value{kind: kindNumber, num: float64(v)}
	case float32:
		return value{kind: kindNumber, num: float64(v)}
	case float64:
		return value{kind: kindNumber, num: v}
	case fmt.Stringer:
		return f.sortKey(v.String())
	default:
		return value{kind: kindString, str: f.fold(fmt.Sprint(v))}
	}
}

// compare returns -1, 0 or 1.
func compare(a, b value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case kindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case kindString:
		return strings.Compare(a.str, b.str)
	}
	return 0
}

// Format renders a raw field value as text. Filter matches against this
// form and the table uses it for cells without a renderer.
func Format(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}
