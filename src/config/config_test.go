package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"pipeline/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseSettings = `
service:
  type: WORKER
  port: "9000"
databases:
  sql:
    driver: postgres
    host: db.internal
    port: "5432"
    username: pipeline
    password: secret
    database: portfolio
pipeline:
  csvPath: data/portfolio.csv
externalClients:
  xray:
    projectKey: II
`

func writeSettings(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads settings and applies defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeSettings(t, dir, "appsettings.yaml", baseSettings)

		cfg, err := config.LoadConfig(dir, "")
		require.NoError(t, err)

		assert.Equal(t, config.WORKER, cfg.Service.Type)
		assert.Equal(t, "9000", cfg.Service.Port)
		assert.Equal(t, "db.internal", cfg.Databases.SQL.Host)
		assert.Equal(t, "data/portfolio.csv", cfg.Pipeline.CSVPath)
		assert.Equal(t, "America/Montreal", cfg.Pipeline.Timezone)
		assert.Equal(t, "$.chart.result[0].meta.regularMarketPrice", cfg.ExternalClients.Yahoo.PriceField)
		assert.Contains(t, cfg.ExternalClients.Yahoo.UserAgent, "Mozilla/5.0")
		assert.Equal(t, "II", cfg.ExternalClients.Xray.ProjectKey)
		assert.Equal(t, "report.xml", cfg.ExternalClients.Xray.ReportFile)
		assert.NotEmpty(t, cfg.ExternalClients.Xray.TestCommand)
	})

	t.Run("environment overlay wins over base file", func(t *testing.T) {
		dir := t.TempDir()
		writeSettings(t, dir, "appsettings.yaml", baseSettings)
		writeSettings(t, dir, "appsettings.TESTING.yaml", "databases:\n  sql:\n    driver: sqlite\n    database: test.db\n")

		cfg, err := config.LoadConfig(dir, "TESTING")
		require.NoError(t, err)

		assert.Equal(t, "sqlite", cfg.Databases.SQL.Driver)
		assert.Equal(t, "test.db", cfg.Databases.SQL.DSN())
		assert.Equal(t, "db.internal", cfg.Databases.SQL.Host)
	})

	t.Run("missing overlay is an error", func(t *testing.T) {
		dir := t.TempDir()
		writeSettings(t, dir, "appsettings.yaml", baseSettings)

		_, err := config.LoadConfig(dir, "PRODUCTION")
		assert.Error(t, err)
	})

	t.Run("credentials come from the environment", func(t *testing.T) {
		dir := t.TempDir()
		writeSettings(t, dir, "appsettings.yaml", baseSettings)
		t.Setenv("XRAY_CLIENT_ID", "client")
		t.Setenv("XRAY_CLIENT_SECRET", "s3cret")

		cfg, err := config.LoadConfig(dir, "")
		require.NoError(t, err)

		assert.Equal(t, "client", cfg.ExternalClients.Xray.ClientID)
		assert.Equal(t, "s3cret", cfg.ExternalClients.Xray.ClientSecret)
	})
}

func TestSQLConfigDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SQLConfig
		want string
	}{
		{
			name: "explicit connection string",
			cfg:  config.SQLConfig{Driver: "postgres", ConnectionString: "postgres://u:p@h/db"},
			want: "postgres://u:p@h/db",
		},
		{
			name: "postgres keywords",
			cfg:  config.SQLConfig{Driver: "postgres", Host: "h", Port: "5432", Username: "u", Password: "p", Database: "db"},
			want: "host=h user=u password=p dbname=db port=5432 sslmode=disable",
		},
		{
			name: "mysql",
			cfg:  config.SQLConfig{Driver: "mysql", Host: "h", Port: "3307", Username: "root", Password: "p", Database: "db"},
			want: "root:p@tcp(h:3307)/db?parseTime=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
