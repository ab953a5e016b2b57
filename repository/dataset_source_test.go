package repository

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "customer_name,AMOUNT\nAcme,79\n"

// fakeS3 记录请求参数并返回固定内容
type fakeS3 struct {
	bucket, key string
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket = aws.ToString(params.Bucket)
	f.key = aws.ToString(params.Key)
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(sampleCSV))}, nil
}

func readAll(t *testing.T, src DatasetSource) string {
	t.Helper()
	rc, err := src.Open(context.Background())
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestNewDatasetSource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deals.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	ctx := context.Background()

	src, err := NewDatasetSource(ctx, path, SourceOptions{})
	require.NoError(t, err)
	require.IsType(t, &FileSource{}, src)
	assert.Equal(t, sampleCSV, readAll(t, src))
	assert.Equal(t, "file://"+path, src.Describe())

	src, err = NewDatasetSource(ctx, "file://"+path, SourceOptions{})
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, readAll(t, src))

	missing, err := NewDatasetSource(ctx, filepath.Join(t.TempDir(), "none.csv"), SourceOptions{})
	require.NoError(t, err)
	_, err = missing.Open(ctx)
	assert.Error(t, err)
}

func TestNewDatasetSource_FileURIForms(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		uri  string
		want string
	}{
		{"file:///srv/data/deals.csv", "/srv/data/deals.csv"},
		{"file://localhost/srv/data/deals.csv", "/srv/data/deals.csv"},
		{"file://data/deals.csv", "data/deals.csv"},
		{"file:data/deals.csv", "data/deals.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			src, err := NewDatasetSource(ctx, tt.uri, SourceOptions{})
			require.NoError(t, err)
			require.IsType(t, &FileSource{}, src)
			assert.Equal(t, tt.want, src.(*FileSource).Path)
		})
	}
}

func TestNewDatasetSource_RelativeFileURI(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "deals.csv"), []byte(sampleCSV), 0o644))
	t.Chdir(dir)

	src, err := NewDatasetSource(context.Background(), "file://data/deals.csv", SourceOptions{})
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, readAll(t, src))
}

func TestNewDatasetSource_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/deals.csv" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer server.Close()
	ctx := context.Background()

	src, err := NewDatasetSource(ctx, server.URL+"/deals.csv", SourceOptions{HTTPClient: server.Client()})
	require.NoError(t, err)
	require.IsType(t, &HTTPSource{}, src)
	assert.Equal(t, sampleCSV, readAll(t, src))

	notFound, err := NewDatasetSource(ctx, server.URL+"/missing.csv", SourceOptions{HTTPClient: server.Client()})
	require.NoError(t, err)
	_, err = notFound.Open(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestNewDatasetSource_S3(t *testing.T) {
	fake := &fakeS3{}
	src, err := NewDatasetSource(context.Background(), "s3://sales-data/exports/deals.csv", SourceOptions{S3Client: fake})
	require.NoError(t, err)
	require.IsType(t, &S3Source{}, src)

	assert.Equal(t, sampleCSV, readAll(t, src))
	assert.Equal(t, "sales-data", fake.bucket)
	assert.Equal(t, "exports/deals.csv", fake.key)
	assert.Equal(t, "s3://sales-data/exports/deals.csv", src.Describe())
}

func TestNewDatasetSource_Invalid(t *testing.T) {
	ctx := context.Background()
	for _, uri := range []string{"", "   ", "ftp://host/deals.csv", "s3://bucket-only"} {
		_, err := NewDatasetSource(ctx, uri, SourceOptions{})
		assert.Error(t, err, uri)
	}
}

func TestReaderSource(t *testing.T) {
	src := &ReaderSource{Name: "upload.csv", Data: []byte(sampleCSV)}
	assert.Equal(t, sampleCSV, readAll(t, src))
	assert.Equal(t, sampleCSV, readAll(t, src), "可重复读取")
	assert.Equal(t, "upload://upload.csv", src.Describe())
}
