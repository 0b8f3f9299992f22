package reference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/ballpark-labs/payrollscrape/internal/fetch"
)

const sampleCSV = `New York Yankees,nya,https://rosters.example.test/nya
Boston Red Sox,BOS,https://rosters.example.test/bos
Chicago Cubs,chn,https://rosters.example.test/chn
`

func TestParse(t *testing.T) {
	t.Parallel()

	teams, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Equal(t, []TeamEntry{
		{Name: "New York Yankees", Code: "NYA"},
		{Name: "Boston Red Sox", Code: "BOS"},
		{Name: "Chicago Cubs", Code: "CHN"},
	}, teams)
}

func TestParseRejectsNarrowRows(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("lonely-column\n"))
	require.ErrorContains(t, err, "at least 2 columns")
}

func TestFetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	fetcher, err := fetch.NewCollyFetcher(fetch.Config{
		UserAgent:      "payrollscrape-test/1.0",
		RequestTimeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)

	teams, err := Fetch(context.Background(), fetcher, srv.URL)
	require.NoError(t, err)
	require.Len(t, teams, 3)
	require.Equal(t, "NYA", teams[0].Code)
}

func TestLoadConfig(t *testing.T) {
	v := viper.New()
	v.Set("reference.source_url", "https://teams.example.test/teams.csv")
	v.Set("reference.output_path", "data/teams.csv")

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	require.Equal(t, "https://teams.example.test/teams.csv", cfg.SourceURL)

	v.Set("reference.source_url", "")
	_, err = LoadConfig(v)
	require.ErrorContains(t, err, "reference.source_url")
}
