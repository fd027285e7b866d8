package printing

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPDF = []byte("%PDF-1.4 test pdf content")

func newTestStorage(t *testing.T) (*FileSystemStorage, string) {
	t.Helper()
	tempDir := t.TempDir()
	storage, err := NewFileSystemStorage(&FileSystemStorageConfig{
		BasePath: tempDir,
		BaseURL:  "/archive",
	})
	require.NoError(t, err)
	return storage, tempDir
}

func TestNewFileSystemStorage(t *testing.T) {
	t.Run("with default URL", func(t *testing.T) {
		tempDir := t.TempDir()
		storage, err := NewFileSystemStorage(&FileSystemStorageConfig{BasePath: tempDir})
		require.NoError(t, err)
		assert.Equal(t, tempDir, storage.config.BasePath)
		assert.Equal(t, "/archive", storage.config.BaseURL)
	})

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "archive")
		_, err := NewFileSystemStorage(&FileSystemStorageConfig{BasePath: dir})
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestFileSystemStorage_Store(t *testing.T) {
	storage, tempDir := newTestStorage(t)

	t.Run("successful store", func(t *testing.T) {
		result, err := storage.Store(context.Background(), &StoreRequest{
			Kind:        "job-ticket",
			Filename:    "job-ticket.pdf",
			ReferenceID: "12345",
			PDFData:     testPDF,
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(result.Key, "job-ticket/"))
		assert.True(t, strings.HasSuffix(result.Key, "-job-ticket.pdf"))
		assert.Equal(t, "/archive/"+result.Key, result.URL)
		assert.Equal(t, int64(len(testPDF)), result.Size)

		content, err := os.ReadFile(filepath.Join(tempDir, result.Key))
		require.NoError(t, err)
		assert.Equal(t, testPDF, content)
	})

	t.Run("keys are unique", func(t *testing.T) {
		req := &StoreRequest{Kind: "checklist", Filename: "checklist.pdf", PDFData: testPDF}
		first, err := storage.Store(context.Background(), req)
		require.NoError(t, err)
		second, err := storage.Store(context.Background(), req)
		require.NoError(t, err)
		assert.NotEqual(t, first.Key, second.Key)
	})

	t.Run("filename cannot escape", func(t *testing.T) {
		result, err := storage.Store(context.Background(), &StoreRequest{
			Kind:     "checklist",
			Filename: "../../evil.pdf",
			PDFData:  testPDF,
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(result.Key, "checklist/"))
		assert.NotContains(t, result.Key, "..")
	})

	t.Run("nil request", func(t *testing.T) {
		result, err := storage.Store(context.Background(), nil)
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "nil")
	})

	t.Run("missing kind", func(t *testing.T) {
		_, err := storage.Store(context.Background(), &StoreRequest{PDFData: testPDF})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kind")
	})

	t.Run("empty PDF data", func(t *testing.T) {
		_, err := storage.Store(context.Background(), &StoreRequest{Kind: "checklist"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := storage.Store(ctx, &StoreRequest{Kind: "checklist", PDFData: testPDF})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cancelled")
	})
}

func TestFileSystemStorage_Get(t *testing.T) {
	storage, _ := newTestStorage(t)

	result, err := storage.Store(context.Background(), &StoreRequest{Kind: "job-ticket", PDFData: testPDF})
	require.NoError(t, err)

	t.Run("successful get", func(t *testing.T) {
		reader, err := storage.Get(context.Background(), result.Key)
		require.NoError(t, err)
		defer reader.Close()

		content, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, testPDF, content)
	})

	t.Run("file not found", func(t *testing.T) {
		reader, err := storage.Get(context.Background(), "nonexistent/path.pdf")
		assert.Error(t, err)
		assert.Nil(t, reader)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("directory traversal attempt", func(t *testing.T) {
		reader, err := storage.Get(context.Background(), "../../../etc/passwd")
		assert.Error(t, err)
		assert.Nil(t, reader)
	})

	t.Run("absolute path attempt", func(t *testing.T) {
		reader, err := storage.Get(context.Background(), "/etc/passwd")
		assert.Error(t, err)
		assert.Nil(t, reader)
	})
}

func TestFileSystemStorage_Delete(t *testing.T) {
	storage, tempDir := newTestStorage(t)

	result, err := storage.Store(context.Background(), &StoreRequest{Kind: "job-ticket", PDFData: testPDF})
	require.NoError(t, err)

	t.Run("successful delete", func(t *testing.T) {
		require.NoError(t, storage.Delete(context.Background(), result.Key))

		_, err := os.Stat(filepath.Join(tempDir, result.Key))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete nonexistent file", func(t *testing.T) {
		assert.NoError(t, storage.Delete(context.Background(), "nonexistent/path.pdf"))
	})

	t.Run("directory traversal attempt", func(t *testing.T) {
		assert.Error(t, storage.Delete(context.Background(), "../../../etc/passwd"))
	})
}

func TestFileSystemStorage_CleanupOlderThan(t *testing.T) {
	storage, tempDir := newTestStorage(t)

	var keys []string
	for range 3 {
		result, err := storage.Store(context.Background(), &StoreRequest{Kind: "checklist", PDFData: testPDF})
		require.NoError(t, err)
		keys = append(keys, result.Key)
	}

	t.Run("recent files are kept", func(t *testing.T) {
		deleted, err := storage.CleanupOlderThan(context.Background(), 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 0, deleted)
	})

	t.Run("old files are removed", func(t *testing.T) {
		old := time.Now().Add(-48 * time.Hour)
		require.NoError(t, os.Chtimes(filepath.Join(tempDir, keys[0]), old, old))

		deleted, err := storage.CleanupOlderThan(context.Background(), 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 1, deleted)

		_, err = os.Stat(filepath.Join(tempDir, keys[1]))
		assert.NoError(t, err)
	})

	t.Run("cancelled context stops early", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		deleted, err := storage.CleanupOlderThan(ctx, 0)
		assert.NoError(t, err)
		assert.Equal(t, 0, deleted)
	})
}

func TestFileSystemStorage_GetURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		key      string
		expected string
	}{
		{"simple key", "/archive", "job-ticket/2024/01/02/id-job-ticket.pdf", "/archive/job-ticket/2024/01/02/id-job-ticket.pdf"},
		{"https base URL", "https://example.com/pdfs/", "checklist/x.pdf", "https://example.com/pdfs/checklist/x.pdf"},
		{"key with dots", "/archive", "checklist/./x.pdf", "/archive/checklist/x.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, err := NewFileSystemStorage(&FileSystemStorageConfig{
				BasePath: t.TempDir(),
				BaseURL:  tt.baseURL,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, storage.GetURL(tt.key))
		})
	}
}

func TestArchiveKey(t *testing.T) {
	now := time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC)

	key := ArchiveKey(&StoreRequest{Kind: "job-ticket", Filename: "job-ticket-with-work-order.pdf"}, now)
	assert.True(t, strings.HasPrefix(key, "job-ticket/2024/03/07/"))
	assert.True(t, strings.HasSuffix(key, "-job-ticket-with-work-order.pdf"))

	key = ArchiveKey(&StoreRequest{Kind: "checklist"}, now)
	assert.True(t, strings.HasSuffix(key, "-checklist.pdf"))
}

func TestContainsDotDot(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"normal path", "checklist/2024/01/file.pdf", false},
		{"path with dot dot", "checklist/../secret/file.pdf", true},
		{"path starting with dot dot", "../etc/passwd", true},
		{"path with single dot", "checklist/./2024/file.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, containsDotDot(tt.path))
		})
	}
}
