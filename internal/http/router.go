package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"storefront-ai/internal/chat"
	"storefront-ai/internal/handlers"
	"storefront-ai/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Conversation handlers.Conversation
	Sessions     storage.SessionStore
	Locks        *chat.SessionLocks
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)

	chatHandler := handlers.NewChatHandler(deps.Conversation, deps.Sessions, deps.Locks)
	resetHandler := handlers.NewResetHandler(deps.Sessions)
	healthHandler := handlers.NewHealthHandler()

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodPost, "/reset", resetHandler)
	})

	r.Method(http.MethodGet, "/health", healthHandler)

	return r
}
