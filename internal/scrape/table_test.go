package scrape

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const salaryTableHTML = `
<html><body>
<table class="datatable">
  <tr><th>Player</th><th>Pos</th><th>Salary</th></tr>
  <tr><td></td><td></td><td></td></tr>
  <tr><td>TOTALS</td><td>--</td><td>--</td></tr>
  <tr><td>José Pérez</td><td>SS</td><td>$1,000,000</td></tr>
  <tr><td>John
Smith</td><td>1B</td><td>$500,000</td></tr>
</table>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseTable(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, salaryTableHTML)
	tbl, err := ParseTable(doc, Selector{Tag: "table", Class: "datatable"}, 2)
	require.NoError(t, err)

	require.Equal(t, []string{"player", "pos", "salary"}, tbl.Header)
	require.Equal(t, [][]string{
		{"José Pérez", "SS", "$1,000,000"},
		{"JohnSmith", "1B", "$500,000"},
	}, tbl.Rows)
}

func TestParseTableRowCountInvariant(t *testing.T) {
	t.Parallel()

	// Output row count equals captured data rows minus the skip count.
	for _, dataRows := range []int{2, 5, 9} {
		var b strings.Builder
		b.WriteString(`<table class="datatable"><tr><th>Player</th><th>Pos</th><th>Salary</th></tr>`)
		for i := 0; i < dataRows; i++ {
			fmt.Fprintf(&b, "<tr><td>p%d</td><td>SS</td><td>$1</td></tr>", i)
		}
		b.WriteString("</table>")

		tbl, err := ParseTable(mustDoc(t, b.String()), Selector{Tag: "table", Class: "datatable"}, 2)
		require.NoError(t, err)
		require.Len(t, tbl.Rows, dataRows-2)
	}
}

func TestParseTableFirstMatchWins(t *testing.T) {
	t.Parallel()

	html := `
<table class="datatable"><tr><th>Player</th></tr><tr><td>a</td></tr><tr><td>b</td></tr><tr><td>first</td></tr></table>
<table class="datatable"><tr><th>Player</th></tr><tr><td>a</td></tr><tr><td>b</td></tr><tr><td>second</td></tr></table>`
	tbl, err := ParseTable(mustDoc(t, html), Selector{Tag: "table", Class: "datatable"}, 2)
	require.NoError(t, err)
	require.Equal(t, [][]string{{"first"}}, tbl.Rows)
}

func TestParseTableNotFound(t *testing.T) {
	t.Parallel()

	_, err := ParseTable(mustDoc(t, "<p>no tables here</p>"), Selector{Tag: "table", Class: "datatable"}, 2)
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestParseTableDuplicateColumn(t *testing.T) {
	t.Parallel()

	html := `<table class="datatable"><tr><th>Salary</th><th>salary</th></tr></table>`
	_, err := ParseTable(mustDoc(t, html), Selector{Tag: "table", Class: "datatable"}, 2)
	require.ErrorContains(t, err, "duplicate column")
}

func TestParseTableFewerRowsThanSkip(t *testing.T) {
	t.Parallel()

	html := `<table class="datatable"><tr><th>Player</th></tr><tr><td>only</td></tr></table>`
	tbl, err := ParseTable(mustDoc(t, html), Selector{Tag: "table", Class: "datatable"}, 2)
	require.NoError(t, err)
	require.Empty(t, tbl.Rows)
}

func TestTableColumnIndex(t *testing.T) {
	t.Parallel()

	tbl := Table{Header: []string{"player", "pos", "salary"}}
	require.Equal(t, 0, tbl.ColumnIndex("player"))
	require.Equal(t, 2, tbl.ColumnIndex("salary"))
	require.Equal(t, -1, tbl.ColumnIndex("missing"))
}
