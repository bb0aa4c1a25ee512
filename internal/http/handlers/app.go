package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"adcraft/internal/controller"
	"adcraft/internal/session"
)

// App carries the dependencies shared by every handler.
type App struct {
	Sessions  *session.Store
	Generator controller.Generator
	Provider  string
	Logger    zerolog.Logger

	// WaitTimeout bounds submit?wait=true; zero waits for as long as the
	// request context allows.
	WaitTimeout time.Duration
	// CheckOrigin vets websocket upgrades; nil keeps gorilla's same-origin check.
	CheckOrigin func(r *http.Request) bool
}

func NewApp(store *session.Store, gen controller.Generator, provider string, logger zerolog.Logger) *App {
	return &App{
		Sessions:  store,
		Generator: gen,
		Provider:  provider,
		Logger:    logger,
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, errorBody{Error: errorDetail{Code: errCode, Message: message}})
}

// session looks up the {id} route parameter and writes a 404 when missing.
func (a *App) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := a.Sessions.Get(chi.URLParam(r, "id"))
	if errors.Is(err, session.ErrNotFound) {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return nil, false
	}
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load session")
		return nil, false
	}
	return sess, true
}

func (a *App) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     a.CheckOrigin,
	}
}
