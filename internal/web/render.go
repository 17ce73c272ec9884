package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/Masterminds/sprig/v3"

	"github.com/Aleph-Alpha/superheroes/internal/apperr"
	"github.com/Aleph-Alpha/superheroes/internal/superhero"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageTitle    = "Humble Superheroes"
	pageSubtitle = "Where everyday heroes shine through humility"
	indexPage    = "index.html"

	defaultHumilityScore = 5
	avatarBaseURL        = "https://api.multiavatar.com/"
)

// formValues is what the create form shows. After a failed submit it holds
// the values the user entered.
type formValues struct {
	Name          string
	Superpower    string
	HumilityScore int
}

type pageData struct {
	Title       string
	Subtitle    string
	Heroes      []superhero.Superhero
	MinHumility string
	Form        formValues
	Error       string
	Issues      []apperr.Issue
	LoadError   string
}

func newPageData() *pageData {
	return &pageData{
		Title:    pageTitle,
		Subtitle: pageSubtitle,
		Form:     formValues{HumilityScore: defaultHumilityScore},
	}
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{"avatarURL": avatarURL}

	tmpl, err := template.New("pages").Funcs(sprig.FuncMap()).Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return tmpl, nil
}

// avatarURL derives a deterministic avatar from the hero name.
func avatarURL(name string) string {
	return avatarBaseURL + url.PathEscape(name) + ".png"
}

// render executes the page fully before writing so a template failure still
// yields a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data *pageData) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, indexPage, data); err != nil {
		h.logger.ErrorWithContext(r.Context(), "failed to render page", err, map[string]interface{}{"path": r.URL.Path})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
