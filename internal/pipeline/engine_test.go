package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ballpark-labs/payrollscrape/internal/export"
	"github.com/ballpark-labs/payrollscrape/internal/fetch"
	"github.com/ballpark-labs/payrollscrape/internal/normalize"
	"github.com/ballpark-labs/payrollscrape/internal/queue"
	"github.com/ballpark-labs/payrollscrape/internal/storage"
)

const indexPage = `<html><body>
<table class="datatable">
<tr><th>Team</th></tr>
<tr><td><a href="/salary?team=ABC">Anytown Aces</a></td></tr>
<tr><td><a href="/salary?team=XYZ">Xville Xers</a></td></tr>
</table>
</body></html>`

func salaryPage(rows [][3]string) string {
	body := `<html><body><table class="datatable">
<tr><th>Player</th><th>Pos</th><th>Salary</th></tr>
<tr><td>Team Payroll</td><td></td><td>$99,999,999</td></tr>
<tr><td>As of opening day</td><td></td><td></td></tr>`
	for _, row := range rows {
		body += fmt.Sprintf("\n<tr><td>%s</td><td>%s</td><td>%s</td></tr>", row[0], row[1], row[2])
	}
	return body + "\n</table></body></html>"
}

// newSiteServer serves an index page plus per-team salary pages. Teams
// listed in failTeams answer 404.
func newSiteServer(t *testing.T, pages map[string][][3]string, failTeams ...string) *httptest.Server {
	t.Helper()
	failed := make(map[string]bool, len(failTeams))
	for _, team := range failTeams {
		failed[team] = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indexPage)
	})
	mux.HandleFunc("/salary", func(w http.ResponseWriter, r *http.Request) {
		team := r.URL.Query().Get("team")
		if failed[team] {
			http.Error(w, "gone fishing", http.StatusNotFound)
			return
		}
		rows, ok := pages[team]
		if !ok {
			http.Error(w, "unknown team", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, salaryPage(rows))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestEngine(t *testing.T, indexURL, outputPath string, archive storage.Provider, events queue.Provider) *Engine {
	t.Helper()
	fetcher, err := fetch.NewCollyFetcher(fetch.Config{
		UserAgent:      "payrollscrape-test/1.0",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())
	require.NoError(t, err)

	engine, err := NewEngine(Config{
		IndexURL:        indexURL,
		UserAgent:       "payrollscrape-test/1.0",
		TableSelector:   testSelector(),
		SkipRows:        2,
		TeamCodePattern: `team=([A-Z]{3})`,
		Columns:         normalize.DefaultColumns(),
		Concurrency:     2,
		RequestTimeout:  5 * time.Second,
		OutputPath:      outputPath,
	}, fetcher, archive, nil, events, zap.NewNop())
	require.NoError(t, err)
	return engine
}

func TestEngineRunEndToEnd(t *testing.T) {
	t.Parallel()

	srv := newSiteServer(t, map[string][][3]string{
		"ABC": {
			{"José Pérez", "SS", "$1,000,000"},
			{"John Smith", "1B", "$500,000"},
		},
		"XYZ": {
			{"Jane Roe", "C", "$750,000"},
		},
	})
	archiveDir := t.TempDir()
	archive, err := storage.NewFSProvider(archiveDir)
	require.NoError(t, err)
	outputPath := filepath.Join(t.TempDir(), "salaries.csv")
	events := queue.NewMemoryProvider()

	engine := newTestEngine(t, srv.URL+"/", outputPath, archive, events)
	summary, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, summary.Sources)
	require.Equal(t, 3, summary.Rows)
	require.Equal(t, map[string]int{"ABC": 2, "XYZ": 1}, summary.RowsBySource)
	require.Equal(t, 1, summary.EncodingViolations)
	require.Empty(t, summary.Failed)
	require.Equal(t, outputPath, summary.OutputPath)

	f, err := os.Open(outputPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := export.ReadSalaries(f)
	require.NoError(t, err)

	require.Equal(t, []normalize.SalaryRecord{
		{Player: normalize.Sentinel, Pos: "SS", Salary: "1000000", Team: "ABC"},
		{Player: "John Smith", Pos: "1B", Salary: "500000", Team: "ABC"},
		{Player: "Jane Roe", Pos: "C", Salary: "750000", Team: "XYZ"},
	}, records)

	// Raw snapshots archived per run: the index plus one page per team.
	runDir := filepath.Join(archiveDir, "runs", summary.RunID)
	for _, name := range []string{"index.html", "ABC.html", "XYZ.html"} {
		_, err := os.Stat(filepath.Join(runDir, name))
		require.NoError(t, err, name)
	}

	payloads := events.Payloads()
	require.Len(t, payloads, 1)
	var published Summary
	require.NoError(t, json.Unmarshal(payloads[0], &published))
	require.Equal(t, summary.RunID, published.RunID)
	require.Equal(t, 3, published.Rows)
}

func TestEngineRunIsolatesFailedSource(t *testing.T) {
	t.Parallel()

	srv := newSiteServer(t, map[string][][3]string{
		"ABC": {
			{"John Smith", "1B", "$500,000"},
		},
	}, "XYZ")
	outputPath := filepath.Join(t.TempDir(), "salaries.csv")

	engine := newTestEngine(t, srv.URL+"/", outputPath, nil, nil)
	summary, err := engine.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, summary.Sources)
	require.Equal(t, 1, summary.Rows)
	require.Len(t, summary.Failed, 1)
	require.Equal(t, "XYZ", summary.Failed[0].Team)
	require.Contains(t, summary.Failed[0].Reason, "fetch team page")

	f, err := os.Open(outputPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := export.ReadSalaries(f)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "ABC", records[0].Team)
}

func TestEngineRunAbortsWhenAllSourcesFail(t *testing.T) {
	t.Parallel()

	srv := newSiteServer(t, nil, "ABC", "XYZ")
	outputPath := filepath.Join(t.TempDir(), "salaries.csv")

	engine := newTestEngine(t, srv.URL+"/", outputPath, nil, nil)
	_, err := engine.Run(context.Background())
	require.ErrorContains(t, err, "all 2 team sources failed")

	_, statErr := os.Stat(outputPath)
	require.True(t, os.IsNotExist(statErr), "no artifact may be written on a failed run")
}

func TestEngineRunAbortsOnIndexFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	outputPath := filepath.Join(t.TempDir(), "salaries.csv")

	engine := newTestEngine(t, srv.URL+"/", outputPath, nil, nil)
	_, err := engine.Run(context.Background())
	require.ErrorContains(t, err, "fetch index page")

	_, statErr := os.Stat(outputPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestEngineRunFailsWithoutLinks(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><table class="datatable"><tr><th>Team</th></tr></table></body></html>`)
	}))
	t.Cleanup(srv.Close)
	outputPath := filepath.Join(t.TempDir(), "salaries.csv")

	engine := newTestEngine(t, srv.URL+"/", outputPath, nil, nil)
	_, err := engine.Run(context.Background())
	require.ErrorContains(t, err, "no team links")
}

func TestNewEngineRejectsBadPattern(t *testing.T) {
	t.Parallel()

	fetcher, err := fetch.NewCollyFetcher(fetch.Config{UserAgent: "t"}, nil)
	require.NoError(t, err)

	_, err = NewEngine(Config{TeamCodePattern: `team=[A-Z]{3}`}, fetcher, nil, nil, nil, nil)
	require.Error(t, err)
}

func TestResolveHref(t *testing.T) {
	t.Parallel()

	got, err := resolveHref("http://example.com/payroll/", "/salary?team=ABC")
	require.NoError(t, err)
	require.Equal(t, "http://example.com/salary?team=ABC", got)

	got, err = resolveHref("http://example.com/payroll/", "http://other.example/x")
	require.NoError(t, err)
	require.Equal(t, "http://other.example/x", got)
}
