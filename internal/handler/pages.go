package handler

import (
	"log/slog"
	"net/http"

	"github.com/Rakabidaasta/npc-hackaton/internal/auth"
)

// PageHandler serves the static-ish pages: landing and profile.
type PageHandler struct {
	renderer *Renderer
	logger   *slog.Logger
}

func NewPageHandler(renderer *Renderer, logger *slog.Logger) *PageHandler {
	return &PageHandler{renderer: renderer, logger: logger}
}

// HandleLanding serves GET /.
func (h *PageHandler) HandleLanding(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, http.StatusOK, "index", pageData{
		Title: "Chat for everyone",
	})
}

// HandleProfile serves GET /profile (behind RequireAuth). Read-only view of
// the session's identity.
func (h *PageHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// RequireAuth guarantees a user here; redirect anyway if not.
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	h.renderer.render(w, http.StatusOK, "profile", pageData{
		Title: "Profile",
		User:  user,
	})
}
