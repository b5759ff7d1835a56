package gcs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockObjectReader struct {
	data   []byte
	err    error
	bucket string
	object string
}

func (m *mockObjectReader) ReadObject(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	m.bucket = bucketName
	m.object = objectName
	return m.data, m.err
}

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://shop-exports/ledger/2024_上半年.csv", "shop-exports", "ledger/2024_上半年.csv", false},
		{"gs://bucket/file.csv", "bucket", "file.csv", false},
		{"s3://bucket/file.csv", "", "", true},
		{"gs://bucket", "", "", true},
		{"gs://bucket/", "", "", true},
		{"gs:///file.csv", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseGCSURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantObject, object)
		})
	}
}

func TestFetch_ParsesCSVExport(t *testing.T) {
	csvData := "\xEF\xBB\xBF日期,客戶姓名,客戶uuid,細項,是否結清\n" +
		"2024-05-01,王小明,U1,\"清潔, 保養\",否\n" +
		"2024-06-01,王小明,U1\n"
	reader := &mockObjectReader{data: []byte(csvData)}

	records, err := newSource(reader, "shop-exports", "ledger.csv").Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "shop-exports", reader.bucket)
	assert.Equal(t, "ledger.csv", reader.object)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-05-01", records[0].Date.Value, "BOM must not leak into the first header")
	assert.Equal(t, "清潔, 保養", records[0].Item.Value)
	assert.True(t, records[0].IsUnsettled())
	assert.True(t, records[1].Item.Valid)
	assert.Equal(t, "", records[1].Item.Value)
}

func TestFetch_ReadError(t *testing.T) {
	reader := &mockObjectReader{err: errors.New("object not found")}

	_, err := newSource(reader, "b", "o").Fetch(context.Background())
	assert.ErrorContains(t, err, "object not found")
}

func TestClose_WithoutOwnedClient(t *testing.T) {
	assert.NoError(t, newSource(&mockObjectReader{}, "b", "o").Close())
}
