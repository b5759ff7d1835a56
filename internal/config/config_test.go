package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "LOG_FORMAT", "LINE_CHANNEL_SECRET", "LINE_CHANNEL_ACCESS_TOKEN",
		"LEDGER_BACKEND", "GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_SHEET_NAME", "GOOGLE_SHEET_ID",
		"GOOGLE_WORKSHEET_NAME", "BIGQUERY_PROJECT", "BIGQUERY_DATASET", "BIGQUERY_TABLE",
		"NOTION_TOKEN", "NOTION_DATABASE_ID", "LEDGER_CSV_URI",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, BackendSheets, cfg.LedgerBackend)
	assert.Equal(t, "camera_客戶交易紀錄", cfg.Sheets.SpreadsheetName)
	assert.Equal(t, "2024_上半年", cfg.Sheets.WorksheetName)
	assert.Empty(t, cfg.Sheets.SpreadsheetID)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("LINE_CHANNEL_SECRET", "secret")
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token")
	t.Setenv("LEDGER_BACKEND", "BigQuery")
	t.Setenv("BIGQUERY_PROJECT", "proj")
	t.Setenv("BIGQUERY_DATASET", "shop")
	t.Setenv("BIGQUERY_TABLE", "ledger")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, BackendBigQuery, cfg.LedgerBackend)
	assert.Equal(t, BigQueryConfig{ProjectID: "proj", DatasetID: "shop", TableID: "ledger"}, cfg.BigQuery)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "http")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: 0}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LINE_CHANNEL_SECRET")
	assert.Contains(t, err.Error(), "LINE_CHANNEL_ACCESS_TOKEN")
	assert.Contains(t, err.Error(), "PORT 0")
}
