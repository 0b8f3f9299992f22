package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	InitConfig()

	require.Equal(t, "table", viper.GetString("scrape.table_tag"))
	require.Equal(t, "datatable", viper.GetString("scrape.table_class"))
	require.Equal(t, 2, viper.GetInt("scrape.skip_rows"))
	require.Equal(t, `team=([A-Z]{3})`, viper.GetString("scrape.team_code_pattern"))
	require.Equal(t, 1, viper.GetInt("scrape.concurrency"))
	require.Equal(t, "noop", viper.GetString("database.provider"))
	require.Equal(t, "noop", viper.GetString("archive.provider"))
	require.Equal(t, "noop", viper.GetString("events.provider"))
	require.False(t, viper.GetBool("ops.enabled"))
}

func TestInitConfigEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("PAYROLL_SCRAPE_INDEX_URL", "https://payrolls.example.test/teams")
	InitConfig()

	require.Equal(t, "https://payrolls.example.test/teams", viper.GetString("scrape.index_url"))
}
