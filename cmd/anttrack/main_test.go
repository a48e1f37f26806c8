package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOr(t *testing.T) {
	t.Setenv(envDB, "")
	assert.Equal(t, "fallback", envOr(envDB, "fallback"))
	t.Setenv(envDB, "results.db")
	assert.Equal(t, "results.db", envOr(envDB, "fallback"))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, writeCSV(path, func(f *os.File) error {
		_, err := f.WriteString("a,b\n")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	err = writeCSV(path, func(f *os.File) error { return errors.New("disk full") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
