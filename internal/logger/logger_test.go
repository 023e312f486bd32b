package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, log.DebugLevel, levelFor(true))
	assert.Equal(t, log.WarnLevel, levelFor(false))
}

func TestNewWithConfig(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "lsp", log.InfoLevel, false, false, log.LogfmtFormatter)

	l.Debug("hidden")
	l.Info("shown", "uri", "file:///a")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "prefix=lsp")
	assert.Contains(t, buf.String(), "uri=file:///a")
}
