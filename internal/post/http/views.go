package http

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	postDomain "github.com/allisson/blog/internal/post/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	viewIndex  = "index"
	viewPost   = "post"
	viewCreate = "create"
	viewEdit   = "edit"
	viewError  = "error"
)

type pageData struct {
	Flashes    []string
	Posts      []*postDomain.Post
	Post       *postDomain.Post
	Status     int
	StatusText string
	Message    string
}

// views holds one template set per page, each layered over the base layout.
type views map[string]*template.Template

func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

func loadViews() (views, error) {
	base, err := template.New("base").
		Funcs(template.FuncMap{
			"markdown":   renderMarkdown,
			"formatTime": formatTime,
		}).
		ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parse base template: %w", err)
	}

	v := make(views)
	for _, page := range []string{viewIndex, viewPost, viewCreate, viewEdit, viewError} {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+page+".html"); err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		v[page] = clone
	}
	return v, nil
}
