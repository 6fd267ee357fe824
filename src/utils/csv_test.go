package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"pipeline/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVRecords(t *testing.T) {
	t.Run("strips byte order mark from first header", func(t *testing.T) {
		rows, err := utils.ReadCSVRecords(writeFile(t, "\ufeffticker,price\nAAPL,1\n"))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "ticker", rows[0][0])
	})

	t.Run("empty file has no records", func(t *testing.T) {
		rows, err := utils.ReadCSVRecords(writeFile(t, ""))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := utils.ReadCSVRecords(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})
}
