package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amanthanvi/assetvault/internal/config"
)

func TestRedactingHandlerMasksSensitiveAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("login attempt",
		slog.String("username", "admin"),
		slog.String("password", "admin123"),
	)

	output := buf.String()
	require.Contains(t, output, "username=admin")
	require.Contains(t, output, "password=[REDACTED]")
	require.NotContains(t, output, "admin123")
}

func TestRedactingHandlerMasksNestedGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewTextHandler(&buf, nil)))

	logger.Info("event", slog.Group("auth",
		slog.String("token", "abc"),
		slog.String("actor", "admin"),
	))

	output := buf.String()
	require.Contains(t, output, "auth.token=[REDACTED]")
	require.Contains(t, output, "auth.actor=admin")
}

func TestNewHonorsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closer, err := New(config.LoggingConfig{Level: "warn"}, &buf)
	require.NoError(t, err)
	require.Nil(t, closer)

	logger.Info("hidden")
	logger.Warn("visible")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "visible")
}

func TestNewWritesToRotatingFile(t *testing.T) {
	t.Parallel()

	logFile := filepath.Join(t.TempDir(), "logs", "assetvault.log")
	logger, closer, err := New(config.LoggingConfig{Level: "info", File: logFile, MaxSizeMB: 1, MaxFiles: 1}, nil)
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer func() { require.NoError(t, closer.Close()) }()

	logger.Info("rotated entry", slog.String("actor", "admin"))

	data := readFile(t, logFile)
	require.True(t, strings.Contains(data, "rotated entry"))
}

func TestNewRotatingWriterRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := NewRotatingWriter(RotationConfig{})
	require.Error(t, err)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
