package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"studyhub/internal/logger"
	"studyhub/internal/model"
	"studyhub/internal/service"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

func TestOriginChecker(t *testing.T) {
	cases := []struct {
		allowed []string
		origin  string
		want    bool
	}{
		{nil, "http://anything.test", true},
		{[]string{"*"}, "http://anything.test", true},
		{[]string{"https://app.studyhub.test"}, "https://app.studyhub.test", true},
		{[]string{"https://app.studyhub.test"}, "https://evil.test", false},
		{[]string{"https://app.studyhub.test"}, "", true},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/v1/ws/notebooks/nb", nil)
		if c.origin != "" {
			r.Header.Set("Origin", c.origin)
		}
		if got := originChecker(c.allowed)(r); got != c.want {
			t.Fatalf("allowed=%v origin=%q got %v", c.allowed, c.origin, got)
		}
	}
}

func TestNotebookWSRejectsForeignOrigin(t *testing.T) {
	log := logger.Nop()
	authSvc := service.NewAuthService(nil, "ws-secret")
	token, err := authSvc.IssueToken(&model.User{ID: "u1", Pseudonym: "ana"})
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	hub := NewHub(log)
	h := NewHandler(hub, authSvc, log, []string{"https://app.studyhub.test"})
	r := mux.NewRouter()
	r.HandleFunc("/v1/ws/notebooks/{id}", h.NotebookWS)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/notebooks/nb?token=" + token

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.test"}})
	if err == nil {
		t.Fatalf("foreign origin upgraded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("resp=%v err=%v", resp, err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://app.studyhub.test"}})
	if err != nil {
		t.Fatalf("allowed origin: %v", err)
	}
	conn.Close()
}
