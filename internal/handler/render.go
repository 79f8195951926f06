package handler

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/Rakabidaasta/npc-hackaton/internal/model"
	"github.com/Rakabidaasta/npc-hackaton/internal/service"
)

// pageData is what every template receives. Error and Notice are the
// one-shot form messages carried across redirects as query parameters.
type pageData struct {
	Title    string
	User     *model.User
	Error    string
	Notice   string
	Messages []service.ChatEntry
}

// Renderer holds the parsed page templates. Each page is parsed together
// with base.html so {{template "content" .}} composition works; parsing
// happens once at startup, not per request.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses base.html plus every page template in templateDir.
func NewRenderer(templateDir string, logger *slog.Logger) (*Renderer, error) {
	names := []string{"index", "signup", "login", "profile", "chat"}

	pages := make(map[string]*template.Template, len(names))
	base := filepath.Join(templateDir, "base.html")
	for _, name := range names {
		tmpl, err := template.ParseFiles(base, filepath.Join(templateDir, name+".html"))
		if err != nil {
			return nil, err
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// render executes a page template with the given data. The status goes out
// with the headers, so callers pass it rather than writing it themselves.
func (rn *Renderer) render(w http.ResponseWriter, status int, page string, data pageData) {
	tmpl, ok := rn.pages[page]
	if !ok {
		rn.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Execute into a buffer so a template failure becomes a clean 500
	// rather than a truncated page behind an already-written status.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		rn.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rn.logger.Error("writing rendered page",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}
