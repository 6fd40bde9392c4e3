package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"everjourney/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// views holds one template set per page, each cloned from the layout.
type views struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": func(amount float64, currency string) string {
		if currency == "" {
			currency = "INR"
		}
		return currency + " " + strconv.FormatFloat(amount, 'f', 0, 64)
	},
	"num": func(p *float64) string {
		if p == nil {
			return "-"
		}
		return strconv.FormatFloat(*p, 'f', 1, 64)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006")
	},
	"datetime": func(t time.Time) string { return t.Format("02 Jan 2006, 15:04") },
	"when": func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format("02 Jan 2006, 15:04")
	},
	"str": func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	},
	"intp": func(p *int) string {
		if p == nil {
			return "-"
		}
		return strconv.Itoa(*p)
	},
	"deref": func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	},
	"list": func(v ...string) []string { return v },
	"join": strings.Join,
	"checked": func(list []string, v string) bool {
		for _, x := range list {
			if x == v {
				return true
			}
		}
		return false
	},
}

func loadViews() (*views, error) {
	layout, err := template.New(path.Base(layoutFile)).Funcs(funcs).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	v := &views{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		v.pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return v, nil
}

// page is the data every template receives.
type page struct {
	Title  string
	User   *domain.SessionUser
	Active string
	Query  url.Values
	Errors []string
	Old    url.Values
	Data   any
}

// pageURL returns the current listing URL with only the page number changed.
func pageURL(base string, q url.Values, n int) string {
	c := url.Values{}
	for k, v := range q {
		c[k] = v
	}
	c.Set("page", strconv.Itoa(n))
	return base + "?" + c.Encode()
}

func activePage(p string) string {
	if p == "/" {
		return "home"
	}
	return strings.SplitN(strings.TrimPrefix(p, "/"), "/", 2)[0]
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	t, ok := h.views.pages[name]
	if !ok {
		log.Error().Str("template", name).Msg("unknown template")
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	if u, ok := CurrentUser(r.Context()); ok {
		p.User = &u
	}
	if p.Title == "" {
		p.Title = "EverJourney"
	} else {
		p.Title += " • EverJourney"
	}
	p.Active = activePage(r.URL.Path)
	if p.Query == nil {
		p.Query = r.URL.Query()
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Str("template", name).Msg("write page failed")
	}
}
