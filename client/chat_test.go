package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSession_StreamsIntoPlaceholder(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		flusher := w.(http.Flusher)
		for _, chunk := range []string{"Hello", ", ", "world"} {
			w.Write([]byte(chunk))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	session := NewChatSession(c)
	require.NoError(t, session.Send(context.Background(), "hi"))

	turns := session.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, ChatTurn{Speaker: "user", Text: "hi"}, turns[0])
	assert.Equal(t, ChatTurn{Speaker: "bot", Text: "Hello, world"}, turns[1])
}

func TestChatSession_ZeroByteStream(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}))
	defer srv.Close()

	session := NewChatSession(c)
	require.NoError(t, session.Send(context.Background(), "hi"))

	turns := session.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "bot", turns[1].Speaker)
	assert.Empty(t, turns[1].Text)
}

func TestChatSession_SplitRuneAcrossChunks(t *testing.T) {
	// "é" is 0xC3 0xA9; split it across two writes.
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Write([]byte("caf"))
		w.Write([]byte{0xC3})
		flusher.Flush()
		w.Write([]byte{0xA9})
		flusher.Flush()
	}))
	defer srv.Close()

	session := NewChatSession(c)
	require.NoError(t, session.Send(context.Background(), "hi"))

	turns := session.Turns()
	assert.Equal(t, "café", turns[1].Text)
}

func TestChatSession_RejectsConcurrentSend(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("thinking"))
		w.(http.Flusher).Flush()
		close(started)
		<-release
	}))
	defer srv.Close()
	defer close(release)

	session := NewChatSession(c)

	done := make(chan error, 1)
	go func() {
		done <- session.Send(context.Background(), "first")
	}()

	<-started
	err := session.Send(context.Background(), "second")
	assert.ErrorIs(t, err, ErrStreamInFlight)

	release <- struct{}{}
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("first send never finished")
	}
}

func TestChatSession_RejectsEmptyMessage(t *testing.T) {
	c, srv := newTestClient(failIfCalled(t))
	defer srv.Close()

	session := NewChatSession(c)
	assert.Error(t, session.Send(context.Background(), "   "))
	assert.Empty(t, session.Turns())
}
