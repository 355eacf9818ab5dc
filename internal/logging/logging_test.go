package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf, Options{Level: level, ANSI: ANSINever}), &buf
}

func TestTaggedLineFormat(t *testing.T) {
	l, buf := newBufferLogger(LevelInfo)

	l.Tagged(TagPlatform).Info("window created", "width", 800, "title", "hello world")

	line := buf.String()
	assert.Contains(t, line, "INFO  [PLATFORM] window created")
	assert.Contains(t, line, "width=800")
	assert.Contains(t, line, `title="hello world"`)
	assert.NotContains(t, line, "tag=")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LevelWarn)
	tl := l.Tagged(TagRenderer)

	tl.Trace("t")
	tl.Debug("d")
	tl.Info("i")
	assert.Empty(t, buf.String())

	tl.Warn("w")
	tl.Error("e")
	tl.Fatal("f")
	out := buf.String()
	assert.Contains(t, out, "WARN  [RENDERER] w")
	assert.Contains(t, out, "ERROR [RENDERER] e")
	assert.Contains(t, out, "FATAL [RENDERER] f")

	buf.Reset()
	l.SetLevel(LevelTrace)
	tl.Trace("now visible")
	assert.Contains(t, buf.String(), "TRACE [RENDERER] now visible")
}

func TestMuteTag(t *testing.T) {
	l, buf := newBufferLogger(LevelTrace)

	l.Mute(TagPlatform, true)
	l.Tagged(TagPlatform).Error("hidden")
	l.Tagged(TagInput).Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[INPUT] shown")

	l.Mute(TagPlatform, false)
	l.Tagged(TagPlatform).Info("back")
	assert.Contains(t, buf.String(), "[PLATFORM] back")
}

func TestMuteAllOnlyAffectsUntagged(t *testing.T) {
	l, buf := newBufferLogger(LevelTrace)
	l.Mute(TagAll, true)

	l.Tagged(TagAll).Info("untagged")
	l.Tagged(TagRenderer).Info("tagged")

	assert.NotContains(t, buf.String(), "untagged")
	assert.Contains(t, buf.String(), "tagged")
}

func TestSilence(t *testing.T) {
	l, buf := newBufferLogger(LevelTrace)
	l.Silence(true)
	l.Tagged(TagRenderer).Fatal("nothing")
	assert.Empty(t, buf.String())
}

func TestANSIAlwaysColorsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Level: LevelInfo, ANSI: ANSIAlways})
	l.Tagged(TagPlatform).Error("boom")
	assert.Contains(t, buf.String(), ansiRed+"ERROR"+ansiReset)
}

func TestANSIAutoOnBufferIsOff(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Level: LevelInfo, ANSI: ANSIAuto})
	l.Tagged(TagPlatform).Error("boom")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestDefaultIsSilentAndLazy(t *testing.T) {
	orig := Default()
	t.Cleanup(func() { SetDefault(orig) })

	SetDefault(nil)
	lazy := For(TagInput)
	assert.False(t, lazy.Enabled(LevelFatal))

	l, buf := newBufferLogger(LevelTrace)
	SetDefault(l)
	lazy.Info("picked up")
	assert.Contains(t, buf.String(), "[INPUT] picked up")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"DEBUG", LevelDebug},
		{"", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"fatal", LevelFatal},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestParseTag(t *testing.T) {
	tag, err := ParseTag("renderer-diagnostics")
	require.NoError(t, err)
	assert.Equal(t, TagRendererDiagnostics, tag)

	_, err = ParseTag("audio")
	assert.Error(t, err)
}

func TestNopHandler(t *testing.T) {
	h := nopHandler{}
	assert.False(t, h.Enabled(context.Background(), LevelFatal))
	assert.NoError(t, h.Handle(context.Background(), slog.Record{}))
	assert.IsType(t, nopHandler{}, h.WithAttrs(nil))
	assert.IsType(t, nopHandler{}, h.WithGroup("g"))
}

func TestGroupedAttrs(t *testing.T) {
	l, buf := newBufferLogger(LevelInfo)
	l.Slog(TagRenderer).WithGroup("layer").Info("found", "name", "VK_LAYER_KHRONOS_validation")
	assert.Contains(t, buf.String(), "layer.name=VK_LAYER_KHRONOS_validation")
	assert.Contains(t, buf.String(), "[RENDERER]")
}
