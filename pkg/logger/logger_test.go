package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestCaptureToHTML(t *testing.T) {
	lg := New()
	lg.Info("[sweep] started", zap.Int("segments", 3))
	lg.Warn("[sweep] <budget> exhausted")

	out := lg.HTML()
	assert.True(t, strings.HasPrefix(out, "<pre>"))
	assert.True(t, strings.HasSuffix(out, "</pre>"))
	assert.Contains(t, out, `<span style="color: green;">info</span>`)
	assert.Contains(t, out, `<span style="color: yellow;">warn</span>`)
	assert.Contains(t, out, "segments")
	assert.Contains(t, out, "&lt;budget&gt;")
	assert.NotContains(t, out, "\033[")

	lg.Reset()
	assert.Equal(t, "<pre></pre>", lg.HTML())
}

func TestWithSharesCapture(t *testing.T) {
	lg := New()
	child := lg.With(zap.String("batch", "a.wkt"))
	child.Debug("[sweep-event] popped")
	assert.Contains(t, lg.HTML(), "a.wkt")
}

func TestConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := NewConsole(&buf, zapcore.WarnLevel)
	lg.Info("hidden")
	lg.Error("shown", zap.Error(assert.AnError))
	require.NoError(t, lg.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.False(t, lg.Enabled(zapcore.InfoLevel))
	assert.Empty(t, lg.HTML())
}

func TestNopAndWrapped(t *testing.T) {
	NewNop().Info("dropped")
	assert.Empty(t, NewNop().HTML())

	lg := FromZap(zaptest.NewLogger(t))
	lg.Debug("through zaptest")
	assert.True(t, lg.Enabled(zapcore.DebugLevel))
}

func TestAnsiToHTMLResets(t *testing.T) {
	in := "\033[31mred\033[0m plain \033[36mcyan"
	assert.Equal(t,
		`<pre><span style="color: red;">red</span> plain <span style="color: cyan;">cyan</span></pre>`,
		ansiToHTML(in))
}
