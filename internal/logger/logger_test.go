package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-hostkit/internal/validation"
)

func TestOptions_Defaults(t *testing.T) {
	var o Options
	o.ApplyDefaults()
	assert.Equal(t, "logs", o.Dir)
	assert.Equal(t, "info", o.Level)
	assert.NoError(t, o.Validate())
}

func TestOptions_MaxBackups(t *testing.T) {
	var o Options
	o.ApplyDefaults()
	require.NotNil(t, o.MaxBackups)
	assert.Equal(t, 7, *o.MaxBackups)

	zero := 0
	o = Options{MaxBackups: &zero}
	o.ApplyDefaults()
	assert.Equal(t, 0, *o.MaxBackups, "explicit zero must survive defaults")
	assert.NoError(t, o.Validate())

	neg := -1
	o = Options{MaxBackups: &neg}
	o.ApplyDefaults()
	err := o.Validate()
	require.ErrorIs(t, err, validation.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "MaxBackups")
}

func TestOptions_InvalidLevel(t *testing.T) {
	o := Options{Level: "verbose"}
	o.ApplyDefaults()
	err := o.Validate()
	require.ErrorIs(t, err, validation.ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "Level")
}

func TestNew_WritesDailyFile(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	root := t.TempDir()
	log, err := New(root, Options{Level: "debug"})
	require.NoError(t, err)
	log.Infow("hello", "k", "v")
	_ = log.Sync()

	entries, err := os.ReadDir(filepath.Join(root, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	raw, err := os.ReadFile(filepath.Join(root, "logs", entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"hello"`)
	assert.Contains(t, string(raw), `"level":"info"`)
}
