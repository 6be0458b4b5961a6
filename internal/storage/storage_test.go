package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "invoice_2024.pdf", Sanitize("invoice 2024.pdf"))
	assert.Equal(t, "a_b_c.png", Sanitize("a/b\\c.png"))
	assert.Equal(t, ".._.._etc_passwd", Sanitize("../../etc/passwd"))
	assert.Equal(t, "plain-name_v2.jpg", Sanitize("plain-name_v2.jpg"))
}

func TestSaveUpload(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveUpload(dir, "my invoice.pdf", strings.NewReader("content"), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "my_invoice.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestSaveUploadWithUIDPrefix(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveUpload(dir, "invoice.pdf", strings.NewReader("a"), "batch42")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "batch42_invoice.pdf"), path)
}

func TestSaveUploadCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := SaveUpload(dir, "invoice.pdf", strings.NewReader("a"), "")
	require.NoError(t, err)
}

func TestCleanupImages(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "page_1.png")
	require.NoError(t, os.WriteFile(existing, []byte("img"), 0o644))

	CleanupImages([]string{existing, filepath.Join(dir, "missing.png"), ""})

	_, err := os.Stat(existing)
	assert.True(t, os.IsNotExist(err))
}
