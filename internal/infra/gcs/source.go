package gcs

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dvloznov/ledger-bot/internal/ledger"
	"google.golang.org/api/option"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Source reads the ledger from a CSV object whose first line is the header.
type Source struct {
	reader ObjectReader
	closer io.Closer
	bucket string
	object string
}

// NewSource opens a storage client for the object at gcsURI.
func NewSource(ctx context.Context, gcsURI string, opts ...option.ClientOption) (*Source, error) {
	bucket, object, err := ParseGCSURI(gcsURI)
	if err != nil {
		return nil, fmt.Errorf("NewSource: %w", err)
	}

	client, err := NewGCSClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewSource: %w", err)
	}

	s := newSource(client, bucket, object)
	s.closer = client
	return s, nil
}

func newSource(reader ObjectReader, bucket, object string) *Source {
	return &Source{reader: reader, bucket: bucket, object: object}
}

// Fetch downloads and parses the CSV export.
func (s *Source) Fetch(ctx context.Context) ([]ledger.Record, error) {
	data, err := s.reader.ReadObject(ctx, s.bucket, s.object)
	if err != nil {
		return nil, fmt.Errorf("Fetch: %w", err)
	}

	table, err := parseCSV(data)
	if err != nil {
		return nil, fmt.Errorf("Fetch: gs://%s/%s: %w", s.bucket, s.object, err)
	}

	return ledger.RecordsFromTable(table), nil
}

// Close releases the storage client, if this source owns one.
func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	table, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return table, nil
}
