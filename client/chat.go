package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrStreamInFlight rejects a Send while a previous reply is still
// streaming, so no two streams ever write into the same transcript slot.
var ErrStreamInFlight = errors.New("a chat reply is already streaming")

// ChatTurn is one transcript entry.
type ChatTurn struct {
	Speaker string `json:"speaker"` // "user" or "bot"
	Text    string `json:"text"`
}

// ChatSession keeps the ordered transcript of the assistant widget. Send
// appends the user's turn plus an empty bot placeholder, then streams the
// reply into that placeholder chunk by chunk.
type ChatSession struct {
	api *Client

	mu       sync.Mutex
	turns    []ChatTurn
	inFlight bool

	// pending holds bytes of the streaming reply; the visible text is the
	// longest prefix that ends on a rune boundary, so a multi-byte rune
	// split across chunks never renders as garbage mid-stream.
	pending []byte
	slot    int
}

func NewChatSession(api *Client) *ChatSession {
	return &ChatSession{api: api}
}

// Turns returns a copy of the transcript.
func (s *ChatSession) Turns() []ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Send posts the message and streams the reply into the bot placeholder.
// It blocks until the stream closes; a zero-byte stream leaves the
// placeholder empty without error.
func (s *ChatSession) Send(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return errors.New("empty message")
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrStreamInFlight
	}
	s.inFlight = true
	s.turns = append(s.turns,
		ChatTurn{Speaker: "user", Text: message},
		ChatTurn{Speaker: "bot"},
	)
	s.slot = len(s.turns) - 1
	s.pending = nil
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	resp, err := s.api.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"message": message}).
		SetDoNotParseResponse(true).
		Post("/chat")
	if err != nil {
		return fmt.Errorf("chat request: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			s.appendChunk(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("chat stream: %w", err)
		}
	}

	s.finishTurn()
	return nil
}

// appendChunk adds raw bytes and republishes the rune-complete prefix.
func (s *ChatSession) appendChunk(chunk []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, chunk...)

	// Hold back a trailing rune that has not fully arrived yet.
	complete := len(s.pending)
	for i := 1; i <= utf8.UTFMax && i <= len(s.pending); i++ {
		b := s.pending[len(s.pending)-i]
		if utf8.RuneStart(b) {
			if !utf8.FullRune(s.pending[len(s.pending)-i:]) {
				complete = len(s.pending) - i
			}
			break
		}
	}

	s.turns[s.slot].Text = string(s.pending[:complete])
}

// finishTurn flushes any held-back bytes once the stream is closed.
func (s *ChatSession) finishTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[s.slot].Text = string(s.pending)
	s.pending = nil
}
