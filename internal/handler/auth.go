package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Rakabidaasta/npc-hackaton/internal/apperror"
	"github.com/Rakabidaasta/npc-hackaton/internal/auth"
	"github.com/Rakabidaasta/npc-hackaton/internal/service"
)

// AuthHandler serves the signup/login/logout surface.
//
//	GET  /auth/signup → form
//	POST /auth/signup → create account, redirect to login
//	GET  /auth/login  → form
//	POST /auth/login  → verify credentials, set session cookie
//	GET  /logout      → clear session cookie (behind RequireAuth)
type AuthHandler struct {
	auth     *service.AuthService
	renderer *Renderer
	logger   *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, renderer *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		renderer: renderer,
		logger:   logger,
	}
}

// HandleSignupForm serves GET /auth/signup. Error/notice text from a prior
// redirect arrives as query parameters.
func (h *AuthHandler) HandleSignupForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, http.StatusOK, "signup", pageData{
		Title:  "Sign up",
		Error:  r.URL.Query().Get("error"),
		Notice: r.URL.Query().Get("notice"),
	})
}

// HandleSignup serves POST /auth/signup.
//
// A duplicate email (or any validation failure) bounces back to the signup
// form with the message; success redirects to the login form with a
// confirmation notice.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/auth/signup?error="+url.QueryEscape("invalid form submission"), http.StatusSeeOther)
		return
	}

	_, err := h.auth.Signup(r.Context(),
		r.PostFormValue("email"),
		r.PostFormValue("name"),
		r.PostFormValue("password"),
	)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) &&
			(errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrValidation)) {
			http.Redirect(w, r, "/auth/signup?error="+url.QueryEscape(appErr.Message), http.StatusSeeOther)
			return
		}
		h.logger.Error("signup failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	http.Redirect(w, r, "/auth/login?notice="+url.QueryEscape("You are signed up, please log in"), http.StatusSeeOther)
}

// HandleLoginForm serves GET /auth/login.
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, http.StatusOK, "login", pageData{
		Title:  "Log in",
		Error:  r.URL.Query().Get("error"),
		Notice: r.URL.Query().Get("notice"),
	})
}

// HandleLogin serves POST /auth/login.
//
// On failure the login form is re-rendered with one generic message. An
// unknown email and a wrong password produce identical responses, so the
// form cannot be used to probe which addresses have accounts.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.render(w, http.StatusOK, "login", pageData{
			Title: "Log in",
			Error: "invalid form submission",
		})
		return
	}

	_, token, err := h.auth.Login(r.Context(),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
	)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			h.renderer.render(w, http.StatusOK, "login", pageData{
				Title: "Log in",
				Error: "Invalid email or password",
			})
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	auth.SetCookie(w, token)
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// HandleLogout serves GET /logout (behind RequireAuth). Sessions are
// stateless, so logout is clearing the cookie; the token itself lapses at
// its expiry.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := auth.UserFromContext(r.Context()); ok {
		h.logger.Info("user logged out", slog.String("userID", user.ID))
	}
	auth.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
