package http_test

import (
	"context"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"storefront-ai/internal/chat"
	"storefront-ai/internal/http"
	storagemocks "storefront-ai/internal/storage/mocks"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubConversation struct{}

func (stubConversation) Converse(ctx context.Context, query string, history []chat.Turn, opts chat.Options) (chat.Result, error) {
	return chat.Result{
		Answer:  "stub answer",
		History: chat.AppendExchange(history, query, "stub answer"),
	}, nil
}

func newTestRouter(t *testing.T) nethttp.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	sessions := storagemocks.NewMockSessionStore(ctrl)
	sessions.EXPECT().GetMessages(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	sessions.EXPECT().ReplaceMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sessions.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return http.NewRouter(&http.Deps{
		Conversation: stubConversation{},
		Sessions:     sessions,
		Locks:        chat.NewSessionLocks(),
	})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "chat", method: nethttp.MethodPost, path: "/api/chat", body: `{"message":"hi"}`, wantStatus: nethttp.StatusOK},
		{name: "reset", method: nethttp.MethodPost, path: "/api/reset", body: `{"session_id":"s1"}`, wantStatus: nethttp.StatusOK},
		{name: "health", method: nethttp.MethodGet, path: "/health", wantStatus: nethttp.StatusOK},
		{name: "unknown path", method: nethttp.MethodGet, path: "/nope", wantStatus: nethttp.StatusNotFound},
		{name: "chat wrong method", method: nethttp.MethodGet, path: "/api/chat", wantStatus: nethttp.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
