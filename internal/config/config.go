// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Ledger backends selectable with LEDGER_BACKEND.
const (
	BackendSheets   = "sheets"
	BackendBigQuery = "bigquery"
	BackendNotion   = "notion"
	BackendGCS      = "gcs"
)

// Config holds application configuration
type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	LineChannelSecret string
	LineChannelToken  string

	LedgerBackend string
	Sheets        SheetsConfig
	BigQuery      BigQueryConfig
	Notion        NotionConfig
	LedgerCSVURI  string // gs://bucket/object for the gcs backend
}

// SheetsConfig locates the ledger worksheet in Google Sheets.
type SheetsConfig struct {
	CredentialsJSON string // service account key, raw JSON
	SpreadsheetName string // looked up through Drive when SpreadsheetID is empty
	SpreadsheetID   string
	WorksheetName   string
}

// BigQueryConfig locates a BigQuery mirror of the ledger.
type BigQueryConfig struct {
	ProjectID string
	DatasetID string
	TableID   string
}

// NotionConfig locates a Notion database mirror of the ledger.
type NotionConfig struct {
	Token      string
	DatabaseID string
}

// Load reads configuration from environment variables, after loading a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getEnvAsInt("PORT", 5000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:              port,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
		LineChannelSecret: getEnv("LINE_CHANNEL_SECRET", ""),
		LineChannelToken:  getEnv("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LedgerBackend:     strings.ToLower(getEnv("LEDGER_BACKEND", BackendSheets)),
		Sheets: SheetsConfig{
			CredentialsJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
			SpreadsheetName: getEnv("GOOGLE_SHEET_NAME", "camera_客戶交易紀錄"),
			SpreadsheetID:   getEnv("GOOGLE_SHEET_ID", ""),
			WorksheetName:   getEnv("GOOGLE_WORKSHEET_NAME", "2024_上半年"),
		},
		BigQuery: BigQueryConfig{
			ProjectID: getEnv("BIGQUERY_PROJECT", ""),
			DatasetID: getEnv("BIGQUERY_DATASET", ""),
			TableID:   getEnv("BIGQUERY_TABLE", ""),
		},
		Notion: NotionConfig{
			Token:      getEnv("NOTION_TOKEN", ""),
			DatabaseID: getEnv("NOTION_DATABASE_ID", ""),
		},
		LedgerCSVURI: getEnv("LEDGER_CSV_URI", ""),
	}

	return cfg, nil
}

// Validate checks the settings the webhook server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.LineChannelSecret == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_SECRET is required"))
	}
	if c.LineChannelToken == "" {
		errs = append(errs, errors.New("LINE_CHANNEL_ACCESS_TOKEN is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
