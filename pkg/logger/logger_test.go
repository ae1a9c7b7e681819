package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("JSON输出到文件", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")

		logger, err := New(Options{Level: "info", Format: "json", Output: path})
		require.NoError(t, err)

		logger.Debug("不应输出")
		logger.Info("图书已创建")
		require.NoError(t, logger.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, `"msg":"图书已创建"`)
		assert.False(t, strings.Contains(content, "不应输出"))
	})

	t.Run("日志级别大小写不敏感", func(t *testing.T) {
		logger, err := New(Options{Level: "WARN", Format: "console"})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("无效的日志级别", func(t *testing.T) {
		_, err := New(Options{Level: "verbose"})
		assert.Error(t, err)
	})
}
