package web

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/justestif/retailtunes/internal/clustering"
	"github.com/justestif/retailtunes/internal/dashboard"
	"github.com/justestif/retailtunes/internal/engine"
	"github.com/justestif/retailtunes/internal/panels"
)

// Templates manages HTML template rendering.
type Templates struct {
	templates map[string]*template.Template
	funcs     template.FuncMap
}

// NewTemplates creates a new template manager by loading templates from the given filesystem.
func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{
		templates: make(map[string]*template.Template),
		funcs:     defaultFuncs(),
	}

	if err := t.load(templatesFS); err != nil {
		return nil, err
	}

	return t, nil
}

// Render renders a page template with the given data.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}

	// Execute the "base" template which includes the page content
	return tmpl.ExecuteTemplate(w, "base", data)
}

// load parses all templates from the filesystem.
func (t *Templates) load(templatesFS fs.FS) error {
	layouts, err := fs.Glob(templatesFS, "layouts/*.html")
	if err != nil {
		return fmt.Errorf("finding layouts: %w", err)
	}

	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("finding partials: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("finding pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	// Common files to include with every page
	commonFiles := append(layouts, partials...)

	for _, page := range pages {
		name := filepath.Base(page)
		name = name[:len(name)-len(".html")] // Remove .html extension

		files := append([]string{page}, commonFiles...)

		tmpl, err := template.New(name).Funcs(t.funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		t.templates[name] = tmpl
	}

	return nil
}

// defaultFuncs returns the default template functions.
func defaultFuncs() template.FuncMap {
	return template.FuncMap{
		// score formats a 0-10 figure with one decimal
		"score": func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},

		// percent scales a 0-10 figure to a 0-100 progress value
		"percent": func(v float64) float64 {
			return v * 10
		},

		// formatTime formats a time as "3:04:05 PM"
		"formatTime": func(t time.Time) string {
			return t.Format("3:04:05 PM")
		},

		// formatDuration formats a duration as "9m25s"
		"formatDuration": func(d time.Duration) string {
			return d.Round(time.Second).String()
		},

		// add adds two integers (for 1-based indexing in loops)
		"add": func(a, b int) int {
			return a + b
		},
	}
}

// PageData contains common data passed to all page templates.
type PageData struct {
	Title       string
	Flash       *FlashMessage
	CurrentPath string
	// AutoRefresh reloads the page every second while set.
	AutoRefresh bool
}

// FlashMessage represents a temporary notification message.
type FlashMessage struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// TabLink is one entry in the sidebar navigation.
type TabLink struct {
	ID     string
	Label  string
	Href   string
	Active bool
}

// DashboardPageData contains data for the dashboard page template.
type DashboardPageData struct {
	PageData
	Tab   string
	Tabs  []TabLink
	State dashboard.ViewState

	Weather         panels.Weather
	Mood            panels.Mood
	Factors         []panels.Factor
	Playlists       []panels.Playlist
	Recommendations []panels.Recommendation
	Events          []panels.Event
}

// EnginePageData contains data for the recommendation engine page template.
type EnginePageData struct {
	PageData
	Tabs []TabLink

	Form     EngineForm
	Weathers []engine.Weather
	Events   []engine.Event
	Weekdays []time.Weekday

	MoodScore float64
	Playlist  engine.Playlist
	Groups    []clustering.MoodGroup

	Query   string
	Matches []engine.Track
}

// EngineForm echoes the engine inputs back into the form.
type EngineForm struct {
	Weather      engine.Weather
	TemperatureF float64
	Hour         int
	Weekday      time.Weekday
	Event        engine.Event
	Minutes      int
}
