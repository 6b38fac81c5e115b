package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type staticTokens map[string]uint

func (s staticTokens) ParseAccess(token string) (uint, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("invalid")
}

func newServer(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	r := gin.New()
	r.GET("/ws/:token", NewHandler(hub, staticTokens{"good": 11}).Connect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + token
}

func TestConnect_RejectsBadToken(t *testing.T) {
	srv, _ := newServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "bad"), nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

func TestConnect_EchoAndPush(t *testing.T) {
	srv, hub := newServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "good"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	var echo Event
	if err := conn.ReadJSON(&echo); err != nil {
		t.Fatalf("read echo: %v", err)
	}
	if echo.Type != EventEcho || echo.Data != "hello" {
		t.Fatalf("unexpected echo %+v", echo)
	}

	if err := hub.Publish(context.Background(), 11, Event{Type: EventNotification, Data: "n"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read push: %v", err)
	}
	var pushed map[string]any
	_ = json.Unmarshal(raw, &pushed)
	if pushed["type"] != EventNotification {
		t.Fatalf("unexpected push %s", raw)
	}
}
