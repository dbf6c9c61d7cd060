package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobpulse/analyzer/internal/domain"
)

func TestCreateOutputDir(t *testing.T) {
	root := t.TempDir()
	dir, err := createOutputDir(root, time.Date(2024, 1, 15, 9, 5, 3, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "20240115_090503"), dir)
	assert.DirExists(t, dir)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	require.NoError(t, writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "a,b\n")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	err = writeFile(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return errors.New("render failed")
	})
	assert.Error(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data), "failed render must not replace the existing file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPrintPreview(t *testing.T) {
	var buf bytes.Buffer
	postings := make([]domain.Posting, 7)
	for i := range postings {
		postings[i] = domain.Posting{Title: "Job", Employer: "Acme", Location: "Lisbon", HoursAgo: 1.5}
	}
	printPreview(&buf, postings, 5)
	assert.Equal(t, 5, bytes.Count(buf.Bytes(), []byte("Acme")))
}
