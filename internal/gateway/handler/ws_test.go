package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adapterforge/internal/gateway/identity"
	"adapterforge/internal/gateway/run"
)

func dialCreateWS(t *testing.T, provider identity.Provider) (*websocket.Conn, *run.Service) {
	t.Helper()
	svc := run.NewService(run.Options{})
	h := NewCreateWS(svc, provider)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, svc
}

func readFrames(t *testing.T, conn *websocket.Conn) []wsOutbound {
	t.Helper()
	var frames []wsOutbound
	for {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var out wsOutbound
		if err := conn.ReadJSON(&out); err != nil {
			t.Fatalf("connection closed before terminal frame: %v", err)
		}
		frames = append(frames, out)
		if out.Result != nil {
			return frames
		}
	}
}

func TestCreateWSArchiveRun(t *testing.T) {
	conn, _ := dialCreateWS(t, &identity.StaticProvider{})

	require.NoError(t, conn.WriteJSON(wsStart{
		Answers: map[string]any{
			"expert":      "yes",
			"cli":         false,
			"adapterName": "foo",
		},
		Target: "zip",
	}))

	frames := readFrames(t, conn)
	require.NotEmpty(t, frames)

	terminal := frames[len(frames)-1]
	require.NotNil(t, terminal.Result)
	assert.True(t, *terminal.Result)
	assert.Contains(t, terminal.ResultLink, "/download/")
	assert.True(t, strings.HasSuffix(terminal.ResultLink, "/adapter.zip"))

	// Progress frames precede the terminal frame.
	var sawLog bool
	for _, f := range frames[:len(frames)-1] {
		if f.Log != "" {
			sawLog = true
		}
		assert.Nil(t, f.Result)
	}
	assert.True(t, sawLog)
}

func TestCreateWSClosesAfterTerminalResult(t *testing.T) {
	conn, _ := dialCreateWS(t, &identity.StaticProvider{})

	require.NoError(t, conn.WriteJSON(wsStart{
		Answers: map[string]any{
			"expert":      "yes",
			"cli":         false,
			"adapterName": "foo",
		},
		Target: "zip",
	}))

	frames := readFrames(t, conn)
	require.NotNil(t, frames[len(frames)-1].Result)

	// The server hangs up once the result is out; the next read must hit
	// a normal close, not idle forever.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestCreateWSTerminalFrameSurvivesFullBuffer(t *testing.T) {
	ch := make(chan wsOutbound, 2)
	pushWS(ch, wsOutbound{Log: "a"})
	pushWS(ch, wsOutbound{Log: "b"})
	// Overflow drops the oldest progress frame to keep the pipeline moving.
	pushWS(ch, wsOutbound{Log: "c"})

	ok := true
	queued := make(chan struct{})
	go func() {
		defer close(queued)
		sendWS(context.Background(), ch, wsOutbound{Result: &ok})
	}()

	var frames []wsOutbound
	for len(frames) < 3 {
		frames = append(frames, <-ch)
	}
	<-queued
	require.NotNil(t, frames[2].Result, "terminal frame must be queued even when the buffer was full")
	assert.Equal(t, []string{"b", "c"}, []string{frames[0].Log, frames[1].Log})
}

func TestCreateWSInvalidAnswersFailWithRedLog(t *testing.T) {
	conn, _ := dialCreateWS(t, &identity.StaticProvider{})

	require.NoError(t, conn.WriteJSON(wsStart{
		Answers: map[string]any{"expert": "yes"},
		Target:  "zip",
	}))

	frames := readFrames(t, conn)
	terminal := frames[len(frames)-1]
	require.NotNil(t, terminal.Result)
	assert.False(t, *terminal.Result)
	assert.Empty(t, terminal.ResultLink)

	require.GreaterOrEqual(t, len(frames), 2)
	assert.Equal(t, "red", frames[len(frames)-2].Color)
}

func TestCreateWSGitHubWithoutIdentity(t *testing.T) {
	conn, _ := dialCreateWS(t, &identity.StaticProvider{})

	require.NoError(t, conn.WriteJSON(wsStart{
		Answers: map[string]any{
			"expert":      "yes",
			"cli":         false,
			"adapterName": "foo",
		},
		Target: "github",
	}))

	frames := readFrames(t, conn)
	terminal := frames[len(frames)-1]
	require.NotNil(t, terminal.Result)
	assert.False(t, *terminal.Result)

	// Authorization fails before the pipeline, so no stage log leaks out.
	for _, f := range frames {
		assert.NotContains(t, f.Log, "Generating")
	}
}

func TestCreateWSUnknownTargetClosesWithoutResult(t *testing.T) {
	conn, _ := dialCreateWS(t, &identity.StaticProvider{})

	require.NoError(t, conn.WriteJSON(wsStart{
		Answers: map[string]any{"adapterName": "foo"},
		Target:  "ftp",
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var out wsOutbound
	err := conn.ReadJSON(&out)
	require.Error(t, err, "protocol violation must close the connection")
}

func TestCreateWSSecondStartClosesConnection(t *testing.T) {
	conn, _ := dialCreateWS(t, &identity.StaticProvider{})

	start := wsStart{
		Answers: map[string]any{
			"expert":      "yes",
			"cli":         false,
			"adapterName": "foo",
		},
		Target: "zip",
	}
	require.NoError(t, conn.WriteJSON(start))
	require.NoError(t, conn.WriteJSON(start))

	// Eventually the server tears the connection down; drain until error.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var out wsOutbound
		if err := conn.ReadJSON(&out); err != nil {
			return
		}
	}
}
