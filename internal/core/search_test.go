package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, csv string) *Table {
	t.Helper()
	tbl, err := Load([]byte(csv), "fixture.csv")
	require.NoError(t, err)
	return tbl
}

func TestSearch(t *testing.T) {
	tbl := mustLoad(t, "Name,Dept\nBob,Sales\nana,Ops\nDANA,Ops\n,Ops\nNaN,Ops\n")

	tests := []struct {
		name       string
		column     string
		text       string
		wantActive bool
		wantRows   []int
	}{
		{name: "case-insensitive substring", column: "Name", text: "an", wantActive: true, wantRows: []int{1, 2}},
		{name: "upper-case needle", column: "Name", text: "BOB", wantActive: true, wantRows: []int{0}},
		{name: "no match is an active search", column: "Name", text: "zzz", wantActive: true, wantRows: []int{}},
		{name: "empty text is no search", column: "Name", text: "", wantActive: false, wantRows: nil},
		{name: "every row of other column", column: "Dept", text: "o", wantActive: true, wantRows: []int{1, 2, 3, 4}},
		{name: "regex characters are literal", column: "Name", text: ".*", wantActive: true, wantRows: []int{}},
		{name: "whitespace is a real search", column: "Name", text: " ", wantActive: true, wantRows: []int{}},
		{name: "null spelling never matches its text", column: "Name", text: "nan", wantActive: true, wantRows: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Search(tbl, tt.column, tt.text)
			require.NoError(t, err)

			assert.Equal(t, tt.wantActive, res.Active)
			assert.Equal(t, tt.wantRows, res.Rows)
			assert.Equal(t, len(tt.wantRows), res.Count)
			assert.Equal(t, tt.column, res.Column)
		})
	}
}

func TestSearch_SingleMatch(t *testing.T) {
	tbl := mustLoad(t, "Name\nBob\nana\n")

	res, err := Search(tbl, "Name", "an")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.Rows)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "Found 1 record(s)", Status(res))
}

func TestSearch_NumbersMatchOnSourceText(t *testing.T) {
	tbl := mustLoad(t, "ID,Amount\n1001,\"$1,250.00\"\n2002,75\n")

	res, err := Search(tbl, "ID", "00")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, res.Rows)

	res, err = Search(tbl, "Amount", "1,2")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, res.Rows)
}

func TestSearch_Errors(t *testing.T) {
	tbl := mustLoad(t, "Name\nBob\n")

	t.Run("unknown column", func(t *testing.T) {
		_, err := Search(tbl, "Nope", "x")
		require.Error(t, err)

		var qe *QueryError
		require.True(t, errors.As(err, &qe))
		assert.Equal(t, "Nope", qe.Column)
		assert.ErrorIs(t, err, ErrColumnNotFound)
	})

	t.Run("unknown column with empty text", func(t *testing.T) {
		_, err := Search(tbl, "Nope", "")
		assert.True(t, IsQueryError(err))
	})

	t.Run("column names are case sensitive", func(t *testing.T) {
		_, err := Search(tbl, "name", "b")
		assert.ErrorIs(t, err, ErrColumnNotFound)
	})

	t.Run("no table", func(t *testing.T) {
		_, err := Search(nil, "Name", "b")
		assert.True(t, IsQueryError(err))
		assert.ErrorIs(t, err, ErrNoTable)
	})
}

// Every returned row matches, every skipped row does not, and order is kept.
func TestSearch_ResultIsExactAndOrdered(t *testing.T) {
	tbl := mustLoad(t, "Word\nAlpha\nbeta\nALPHABET\ngamma\nalp\n\nbeta-alpha\n")

	for _, needle := range []string{"a", "alp", "BETA", "ph", "x"} {
		res, err := Search(tbl, "Word", needle)
		require.NoError(t, err)

		matched := make(map[int]bool, len(res.Rows))
		prev := -1
		for _, idx := range res.Rows {
			assert.Greater(t, idx, prev, "rows out of order for %q", needle)
			prev = idx
			matched[idx] = true
		}

		for i := range tbl.Rows {
			v := strings.ToLower(tbl.Rows[i][0].String())
			want := v != "" && strings.Contains(v, strings.ToLower(needle))
			assert.Equal(t, want, matched[i], "row %d for %q", i, needle)
		}
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		res  SearchResult
		want string
	}{
		{name: "inactive", res: SearchResult{}, want: StatusNoSearch},
		{name: "no matches", res: SearchResult{Active: true, Rows: []int{}}, want: StatusNoMatches},
		{name: "matches", res: SearchResult{Active: true, Rows: []int{0, 4, 7}, Count: 3}, want: "Found 3 record(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.res))
		})
	}
}
