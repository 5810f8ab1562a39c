package sinks

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessonics/spdlog"
)

func TestNullSink_DiscardsButStillFormats(t *testing.T) {
	n := NewNullSink()
	require.NoError(t, n.Log(spdlog.LogRecord{Level: spdlog.Info, Payload: []byte("x")}))
	require.NoError(t, n.Flush())
	assert.True(t, n.Accepts(spdlog.Trace))
}

func TestTestSink_RecordsLinesAndCounts(t *testing.T) {
	ts := NewTestSink()
	require.NoError(t, ts.SetPattern("%v"))

	for i := 0; i < 3; i++ {
		require.NoError(t, ts.Log(spdlog.LogRecord{Level: spdlog.Info, Payload: []byte("line")}))
	}
	require.NoError(t, ts.Flush())

	assert.Equal(t, 3, ts.MsgCount())
	assert.Equal(t, 1, ts.FlushCount())
	assert.Equal(t, []string{"line", "line", "line"}, ts.Lines())
}

func TestTestSink_FailingReturnsConfiguredError(t *testing.T) {
	ts := NewTestSink()
	want := errors.New("boom")
	ts.SetFailing(want)

	err := ts.Log(spdlog.LogRecord{Level: spdlog.Info})
	assert.ErrorIs(t, err, want)

	err = ts.Flush()
	assert.ErrorIs(t, err, want)

	ts.ClearFailing()
	assert.NoError(t, ts.Log(spdlog.LogRecord{Level: spdlog.Info}))
}

func TestMultiSink_FansOutToAll(t *testing.T) {
	a, b := NewTestSink(), NewTestSink()
	m := NewMultiSink(a, b)

	require.NoError(t, m.Log(spdlog.LogRecord{Level: spdlog.Info, Payload: []byte("x")}))
	assert.Equal(t, 1, a.MsgCount())
	assert.Equal(t, 1, b.MsgCount())

	require.NoError(t, m.Flush())
	assert.Equal(t, 1, a.FlushCount())
	assert.Equal(t, 1, b.FlushCount())
}

func TestMultiSink_CollectsErrorsWithoutAbortingFanOut(t *testing.T) {
	failing := NewTestSink()
	failing.SetFailing(errors.New("first sink down"))
	healthy := NewTestSink()

	m := NewMultiSink(failing, healthy)
	err := m.Log(spdlog.LogRecord{Level: spdlog.Info, Payload: []byte("x")})

	assert.Error(t, err)
	assert.Equal(t, 1, healthy.MsgCount())
}

func TestMultiSink_AcceptsIfAnyDownstreamAccepts(t *testing.T) {
	quiet := NewTestSink()
	quiet.SetLevel(spdlog.Err)
	chatty := NewTestSink()
	chatty.SetLevel(spdlog.Trace)

	m := NewMultiSink(quiet, chatty)
	assert.True(t, m.Accepts(spdlog.Info))

	m2 := NewMultiSink(quiet)
	assert.False(t, m2.Accepts(spdlog.Info))
}

func TestFileSink_WritesAndFlushes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	fs, err := NewFileSink(path, spdlog.Trace)
	require.NoError(t, err)
	require.NoError(t, fs.SetPattern("%v"))

	require.NoError(t, fs.Log(spdlog.LogRecord{Level: spdlog.Info, Payload: []byte("hello")}))
	require.NoError(t, fs.Flush())
	require.NoError(t, fs.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestRotatingFileSink_RotatesOnSize(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "app")

	rs, err := NewRotatingFileSink(base, 10, 2, spdlog.Trace)
	require.NoError(t, err)
	require.NoError(t, rs.SetPattern("%v"))

	for i := 0; i < 5; i++ {
		require.NoError(t, rs.Log(spdlog.LogRecord{Level: spdlog.Info, Payload: []byte("0123456789")}))
	}
	require.NoError(t, rs.Close())

	_, err = os.Stat(base + ".log")
	assert.NoError(t, err)
	_, err = os.Stat(base + ".1.log")
	assert.NoError(t, err)
}

func TestDailyFileSink_OpensTodaysFile(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "daily")

	ds, err := NewDailyFileSink(base, spdlog.Trace)
	require.NoError(t, err)
	require.NoError(t, ds.Log(spdlog.LogRecord{Level: spdlog.Info, Payload: []byte("hi")}))
	require.NoError(t, ds.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "daily-")
}

func TestConsoleSink_NeverColorModeWritesPlain(t *testing.T) {
	c := NewConsoleSink(spdlog.Trace, ColorNever)
	require.NoError(t, c.Log(spdlog.LogRecord{Level: spdlog.Critical, Payload: []byte("x")}))
	require.NoError(t, c.Flush())
}

func TestUDPSink_SendsDatagram(t *testing.T) {
	addr, stop := startUDPEcho(t)
	defer stop()

	u, err := NewUDPSink(addr, spdlog.Trace)
	require.NoError(t, err)
	require.NoError(t, u.SetPattern("%v"))

	require.NoError(t, u.Log(spdlog.LogRecord{Level: spdlog.Info, Payload: []byte("ping")}))
	require.NoError(t, u.Close())
}
