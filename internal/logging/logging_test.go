package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestOpenLogFileEmptyPath(t *testing.T) {
	file, err := OpenLogFile("")

	require.NoError(t, err)
	assert.Nil(t, file)
}

func TestAttachFileLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pos.log")
	file, err := OpenLogFile(path)
	require.NoError(t, err)
	defer file.Close()

	logger := AttachFileLogger(zaptest.NewLogger(t), file, false)
	logger.Info("sale committed", zap.String("sale_id", "abc"))
	logger.Debug("hidden")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"sale committed"`)
	assert.Contains(t, string(data), `"sale_id":"abc"`)
	assert.Contains(t, string(data), `"service":"pos_core"`)
	assert.Contains(t, string(data), fmt.Sprintf(`"pid":%d`, os.Getpid()))
	assert.NotContains(t, string(data), "hidden")
}

func TestAttachFileLoggerWithoutFile(t *testing.T) {
	base := zaptest.NewLogger(t)

	assert.Same(t, base, AttachFileLogger(base, nil, true))
}
