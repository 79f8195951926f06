package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Rakabidaasta/npc-hackaton/internal/apperror"
	"github.com/Rakabidaasta/npc-hackaton/internal/auth"
	"github.com/Rakabidaasta/npc-hackaton/internal/service"
	"github.com/Rakabidaasta/npc-hackaton/internal/ws"
)

// ChatHandler serves the room: the rendered view, the form write path, and
// the websocket endpoint. All three sit behind RequireAuth.
type ChatHandler struct {
	chat     *service.ChatService
	hub      *ws.Hub
	renderer *Renderer
	logger   *slog.Logger
}

func NewChatHandler(chat *service.ChatService, hub *ws.Hub, renderer *Renderer, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chat:     chat,
		hub:      hub,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleChatView serves GET /chat: the last 50 messages, oldest first.
func (h *ChatHandler) HandleChatView(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	entries, err := h.chat.Recent(r.Context())
	if err != nil {
		h.logger.Error("loading chat view", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.renderer.render(w, http.StatusOK, "chat", pageData{
		Title:    "Chat",
		User:     user,
		Error:    r.URL.Query().Get("error"),
		Messages: entries,
	})
}

// HandlePostMessage serves POST /chat: persist the message, broadcast it to
// the websocket clients, and send the browser back to the room.
func (h *ChatHandler) HandlePostMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/chat?error="+url.QueryEscape("invalid form submission"), http.StatusSeeOther)
		return
	}

	msg, err := h.chat.Post(r.Context(), user.ID, r.PostFormValue("text"))
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && errors.Is(err, apperror.ErrValidation) {
			http.Redirect(w, r, "/chat?error="+url.QueryEscape(appErr.Message), http.StatusSeeOther)
			return
		}
		h.logger.Error("posting message", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	h.hub.BroadcastMessage(h.chat.EntryFor(r.Context(), msg))

	http.Redirect(w, r, "/chat", http.StatusSeeOther)
}

// HandleSocket serves GET /ws: upgrade to a websocket and hand the
// connection to the hub.
func (h *ChatHandler) HandleSocket(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	ws.Serve(h.hub, h.chat, user, h.logger, w, r)
}
