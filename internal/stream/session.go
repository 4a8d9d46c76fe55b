// Package stream records the JSON frames exchanged over the server's media
// WebSocket and lets tests wait for frames that match a pattern.
package stream

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vms-e2e/internal/logger"
)

type Direction string

const (
	Incoming Direction = "incoming"
	Outgoing Direction = "outgoing"
)

var ErrClosed = errors.New("stream closed")

// Frame is one text message with the time it was sent or received.
type Frame struct {
	Direction Direction       `json:"direction"`
	Data      json.RawMessage `json:"data"`
	Time      time.Time       `json:"time"`
}

type DialOptions struct {
	Header      http.Header
	InsecureTLS bool
	Timeout     time.Duration
}

type Session struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	frames  []Frame
	changed chan struct{}
	err     error
	done    chan struct{}
}

// URL turns the server base URL into the WebSocket endpoint URL.
func URL(base string, query url.Values) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/ws")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// Dial connects and starts recording incoming frames.
func Dial(ctx context.Context, rawURL string, opts DialOptions) (*Session, error) {
	dialer := *websocket.DefaultDialer
	if opts.InsecureTLS {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	if opts.Timeout > 0 {
		dialer.HandshakeTimeout = opts.Timeout
	}

	conn, resp, err := dialer.DialContext(ctx, rawURL, opts.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: status %d: %w", rawURL, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}

	s := &Session{
		conn:    conn,
		changed: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.readLoop()
	logger.Debug("stream connected", "url", rawURL)
	return s, nil
}

func (s *Session) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.err = ErrClosed
			} else {
				s.err = fmt.Errorf("%w: %v", ErrClosed, err)
			}
			close(s.done)
			s.mu.Unlock()
			return
		}
		s.record(Incoming, data)
	}
}

func (s *Session) record(dir Direction, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, Frame{Direction: dir, Data: append(json.RawMessage(nil), data...), Time: time.Now()})
	close(s.changed)
	s.changed = make(chan struct{})
}

// Send marshals v, writes it as a text frame and records it as outgoing.
func (s *Session) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	s.record(Outgoing, data)
	return nil
}

// Frames returns everything recorded so far.
func (s *Session) Frames() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.frames...)
}

// Wait returns the first recorded frame in direction dir that matches p,
// blocking until one arrives, the connection closes or ctx ends.
func (s *Session) Wait(ctx context.Context, dir Direction, p Pattern) (Frame, error) {
	next := 0
	for {
		s.mu.Lock()
		frames := s.frames[next:]
		changed, err := s.changed, s.err
		s.mu.Unlock()

		for _, f := range frames {
			next++
			if f.Direction == dir && Match(f.Data, p) {
				return f, nil
			}
		}
		if err != nil {
			return Frame{}, err
		}

		select {
		case <-changed:
		case <-s.done:
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		}
	}
}

// Close sends a close frame and tears the connection down.
func (s *Session) Close() error {
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	s.writeMu.Unlock()

	err := s.conn.Close()
	<-s.done
	return err
}
