package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortSpecToggle(t *testing.T) {
	tests := []struct {
		name  string
		start SortSpec
		field string
		want  SortSpec
	}{
		{
			name:  "empty spec sorts ascending",
			field: "name",
			want:  SortSpec{{Field: "name", Order: Asc}},
		},
		{
			name:  "primary field flips to descending",
			start: SortSpec{{Field: "name", Order: Asc}},
			field: "name",
			want:  SortSpec{{Field: "name", Order: Desc}},
		},
		{
			name:  "primary field flips back to ascending",
			start: SortSpec{{Field: "name", Order: Desc}},
			field: "name",
			want:  SortSpec{{Field: "name", Order: Asc}},
		},
		{
			name:  "other field replaces the spec",
			start: SortSpec{{Field: "name", Order: Desc}, {Field: "quantity", Order: Asc}},
			field: "quantity",
			want:  SortSpec{{Field: "quantity", Order: Asc}},
		},
		{
			name:  "primary toggle drops secondary keys",
			start: SortSpec{{Field: "name", Order: Asc}, {Field: "quantity", Order: Desc}},
			field: "name",
			want:  SortSpec{{Field: "name", Order: Desc}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.start.Toggle(tt.field))
		})
	}
}

func TestSortSpecExtend(t *testing.T) {
	start := SortSpec{{Field: "name", Order: Asc}}

	next := start.Extend("quantity")
	assert.Equal(t, SortSpec{{Field: "name", Order: Asc}, {Field: "quantity", Order: Asc}}, next)
	assert.Len(t, start, 1, "Extend must not modify the receiver")

	next = next.Extend("quantity")
	assert.Equal(t, SortSpec{{Field: "name", Order: Asc}, {Field: "quantity", Order: Desc}}, next)

	next = next.Extend("name")
	assert.Equal(t, SortSpec{{Field: "name", Order: Desc}, {Field: "quantity", Order: Desc}}, next)

	order, ok := next.Direction("quantity")
	assert.True(t, ok)
	assert.Equal(t, Desc, order)
	_, ok = next.Direction("description")
	assert.False(t, ok)
}

func TestParseSortSpec(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SortSpec
		wantErr error
	}{
		{name: "empty", input: "", want: nil},
		{name: "single ascending", input: "name", want: SortSpec{{Field: "name", Order: Asc}}},
		{
			name:  "mixed directions",
			input: "name, -quantity,+id",
			want: SortSpec{
				{Field: "name", Order: Asc},
				{Field: "quantity", Order: Desc},
				{Field: "id", Order: Asc},
			},
		},
		{name: "duplicate field", input: "name,-name", wantErr: ErrDuplicateSortField},
		{name: "bare dash", input: "-", wantErr: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSortSpec(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if got != nil {
				assert.Equal(t, got, mustParse(t, got.String()), "String round-trips")
			}
		})
	}
}

func mustParse(t *testing.T, s string) SortSpec {
	t.Helper()
	spec, err := ParseSortSpec(s)
	require.NoError(t, err)
	return spec
}

func TestQuerySortSpec(t *testing.T) {
	q := Query{SortBy: "email"}
	assert.Equal(t, SortSpec{{Field: "email", Order: Asc}}, q.SortSpec())

	q.SortOrder = Desc
	assert.Equal(t, SortSpec{{Field: "email", Order: Desc}}, q.SortSpec())

	q.Sort = SortSpec{{Field: "name", Order: Asc}}
	assert.Equal(t, q.Sort, q.SortSpec(), "explicit multi-key sort wins")

	assert.Nil(t, Query{}.SortSpec())
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("DESC")
	require.NoError(t, err)
	assert.Equal(t, Desc, o)

	o, err = ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, Asc, o)

	_, err = ParseSortOrder("up")
	assert.ErrorIs(t, err, ErrInvalidSortOrder)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 4, TotalPages(32, 10))
	assert.Equal(t, 1, TotalPages(32, 0))
}
