package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper: receive one line with a timeout so tests never hang
func recvLine(t *testing.T, ch <-chan string, within time.Duration) string {
	t.Helper()
	select {
	case line, ok := <-ch:
		if !ok {
			t.Fatalf("outbox closed unexpectedly")
		}
		return line
	case <-time.After(within):
		t.Fatalf("timed out waiting for a line")
		return ""
	}
}

func waitClosed(t *testing.T, ch <-chan string, within time.Duration) {
	t.Helper()
	deadline := time.After(within)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("outbox was not closed")
		}
	}
}

func TestRelay_PublishReachesEverySpectator(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRelay(ctx)

	a := make(chan string, 4)
	b := make(chan string, 4)
	require.True(t, r.Join("a", a))
	require.True(t, r.Join("b", b))

	r.Publish("MOLE_UP 3")
	assert.Equal(t, "MOLE_UP 3", recvLine(t, a, 100*time.Millisecond))
	assert.Equal(t, "MOLE_UP 3", recvLine(t, b, 100*time.Millisecond))
	assert.Equal(t, 2, r.Spectators())

	r.Leave("a")
	assert.Equal(t, 1, r.Spectators())
}

func TestRelay_LateJoinerGetsLatestScore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRelay(ctx)

	r.Publish("SCORE 0 0")
	r.Publish("MOLE_UP 1")
	r.Publish("SCORE 2 0")

	out := make(chan string, 4)
	require.True(t, r.Join("late", out))
	assert.Equal(t, "SCORE 2 0", recvLine(t, out, 100*time.Millisecond))

	r.Publish("MOLE_DOWN 1")
	assert.Equal(t, "MOLE_DOWN 1", recvLine(t, out, 100*time.Millisecond))
}

func TestRelay_DropSlowSpectator(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewRelay(ctx)

	out := make(chan string, 1)
	require.True(t, r.Join("slow", out))

	r.Publish("MOLE_UP 0")
	r.Publish("MOLE_DOWN 0")

	assert.Equal(t, 0, r.Spectators())
	assert.Equal(t, "MOLE_UP 0", recvLine(t, out, 100*time.Millisecond))
	waitClosed(t, out, 100*time.Millisecond)
}

func TestRelay_ShutdownClosesOutboxes(t *testing.T) {
	r := NewRelay(context.Background())

	out := make(chan string, 4)
	require.True(t, r.Join("a", out))
	r.Publish("SCORE 1")
	r.Shutdown()

	assert.Equal(t, "SCORE 1", recvLine(t, out, 100*time.Millisecond))
	waitClosed(t, out, 100*time.Millisecond)

	<-r.Done()
	assert.False(t, r.Join("b", make(chan string, 1)))
	assert.Equal(t, 0, r.Spectators())
	r.Publish("ignored")
	r.Leave("a")
}

func TestHandler_StreamsLinesUntilShutdown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	r := NewRelay(context.Background())
	srv := httptest.NewServer(Handler(r))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.Eventually(t, func() bool { return r.Spectators() == 1 }, time.Second, 5*time.Millisecond)

	r.Publish("MOLE_UP 4")
	r.Publish("SCORE 2 x")

	for _, want := range []string{"MOLE_UP 4", "SCORE 2 x"} {
		typ, data, err := conn.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, websocket.MessageText, typ)
		assert.Equal(t, want, string(data))
	}

	r.Shutdown()
	_, _, err = conn.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
}
