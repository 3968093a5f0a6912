package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/retailtunes/internal/clustering"
	"github.com/justestif/retailtunes/internal/engine"
	"github.com/justestif/retailtunes/internal/panels"
)

const (
	flashCookieName = "flash"
	defaultTab      = "overview"
	pageTitle       = "RetailTunes AI"

	defaultPlaylistMinutes = 90
	maxPlaylistMinutes     = 600
)

// dashboardTabs lists the sidebar entries in display order.
var dashboardTabs = []TabLink{
	{ID: "overview", Label: "Overview"},
	{ID: "weather", Label: "Weather Impact"},
	{ID: "mood", Label: "Mood Analysis"},
	{ID: "playlists", Label: "Playlists"},
	{ID: "calendar", Label: "Seasonal Events"},
	{ID: "engine", Label: "Engine", Href: "/engine"},
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	sessions  *SessionStore
	templates *Templates
	engine    *engine.Engine
	groups    []clustering.MoodGroup
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sessions *SessionStore, templates *Templates, eng *engine.Engine, groups []clustering.MoodGroup) *Handlers {
	return &Handlers{
		sessions:  sessions,
		templates: templates,
		engine:    eng,
		groups:    groups,
	}
}

// Dashboard renders the dashboard page (GET /).
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	tab := parseTab(r.URL.Query().Get("tab"))
	state := session.Dashboard.State()

	data := DashboardPageData{
		PageData: PageData{
			Title:       pageTitle,
			Flash:       h.popFlash(w, r),
			CurrentPath: r.URL.Path,
			AutoRefresh: state.IsAnalyzing,
		},
		Tab:             tab,
		Tabs:            tabLinks(tab),
		State:           state,
		Weather:         panels.WeatherPanel(tab == "weather"),
		Mood:            panels.MoodPanel(tab == "mood"),
		Factors:         panels.Factors(),
		Playlists:       panels.Playlists(),
		Recommendations: panels.Recommendations(),
		Events:          panels.SeasonalEvents(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "dashboard", data); err != nil {
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}

// TogglePlayback flips playback (POST /playback/toggle).
func (h *Handlers) TogglePlayback(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	session.Dashboard.TogglePlayback()
	redirectBack(w, r)
}

// AdjustVolume sets the volume from the range input (POST /volume).
func (h *Handlers) AdjustVolume(w http.ResponseWriter, r *http.Request) {
	volume, err := strconv.Atoi(strings.TrimSpace(r.FormValue("volume")))
	if err != nil {
		http.Error(w, "Volume must be an integer", http.StatusBadRequest)
		return
	}

	session, err := h.session(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	session.Dashboard.AdjustVolume(volume)
	redirectBack(w, r)
}

// SelectTrack plays the clicked track (POST /tracks/select).
func (h *Handlers) SelectTrack(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	session.Dashboard.SelectTrack(r.FormValue("track"))
	redirectBack(w, r)
}

// RefreshRecommendations starts a refresh (POST /recommendations/refresh).
// A post that arrives while one is pending is ignored, matching the disabled
// button on the page.
func (h *Handlers) RefreshRecommendations(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	session.Dashboard.RefreshIfIdle()
	redirectBack(w, r)
}

// CreatePlaylist shows the placeholder playlist prompt (POST /playlists).
// It does not touch the dashboard state.
func (h *Handlers) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	name := "Custom Playlist " + uuid.NewString()[:8]
	setFlash(w, FlashMessage{Type: "info", Message: "Creating playlist: " + name})
	http.Redirect(w, r, "/?tab=playlists", http.StatusSeeOther)
}

// ResetSession discards the session and its dashboard (POST /session/reset).
func (h *Handlers) ResetSession(w http.ResponseWriter, r *http.Request) {
	if session := h.sessions.GetFromRequest(r); session != nil {
		h.sessions.Delete(session.ID)
	}

	h.sessions.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// State returns the session view state as JSON (GET /api/state).
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, session.Dashboard.State())
}

// Engine renders the recommendation engine page (GET /engine).
func (h *Handlers) Engine(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	form, err := parseEngineForm(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	factors := engine.DefaultFactors()
	factors.Weather = form.Weather
	factors.TemperatureF = form.TemperatureF
	factors.Hour = form.Hour
	factors.Weekday = form.Weekday
	factors.Event = form.Event

	query := strings.TrimSpace(q.Get("q"))

	data := EnginePageData{
		PageData: PageData{
			Title:       pageTitle + " - Engine",
			CurrentPath: r.URL.Path,
		},
		Tabs:      tabLinks("engine"),
		Form:      form,
		Weathers:  engine.Weathers,
		Events:    engine.Events,
		Weekdays:  weekdays(),
		MoodScore: h.engine.MoodScore(factors),
		Playlist:  h.engine.GeneratePlaylist(factors, form.Minutes),
		Groups:    h.groups,
		Query:     query,
		Matches:   engine.Search(h.engine.Tracks(), query),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "engine", data); err != nil {
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}

// Health reports that the server is up (GET /health).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// session returns the request's session, mounting a new dashboard when the
// browser has none.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if session := h.sessions.GetFromRequest(r); session != nil {
		return session, nil
	}

	session, err := h.sessions.Create()
	if err != nil {
		return nil, err
	}
	h.sessions.SetCookie(w, session)
	return session, nil
}

// parseTab falls back to the overview for unknown tabs.
func parseTab(tab string) string {
	for _, t := range dashboardTabs {
		if t.ID == tab && t.Href == "" {
			return tab
		}
	}
	return defaultTab
}

func tabLinks(active string) []TabLink {
	links := make([]TabLink, len(dashboardTabs))
	for i, t := range dashboardTabs {
		if t.Href == "" {
			t.Href = "/?tab=" + t.ID
		}
		t.Active = t.ID == active
		links[i] = t
	}
	return links
}

// redirectBack returns the browser to the tab the form was posted from.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := "/?tab=" + url.QueryEscape(parseTab(r.FormValue("tab")))
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// parseEngineForm reads engine inputs, using the default factors for
// missing values.
func parseEngineForm(q url.Values) (EngineForm, error) {
	def := engine.DefaultFactors()
	form := EngineForm{
		Weather:      def.Weather,
		TemperatureF: def.TemperatureF,
		Hour:         def.Hour,
		Weekday:      def.Weekday,
		Event:        def.Event,
		Minutes:      defaultPlaylistMinutes,
	}

	if v := q.Get("weather"); v != "" {
		w, err := engine.ParseWeather(v)
		if err != nil {
			return form, err
		}
		form.Weather = w
	}

	if v := q.Get("temp"); v != "" {
		temp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return form, fmt.Errorf("invalid temperature %q", v)
		}
		form.TemperatureF = temp
	}

	if v := q.Get("hour"); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil || hour < 0 || hour > 23 {
			return form, fmt.Errorf("invalid hour %q: want 0-23", v)
		}
		form.Hour = hour
	}

	if v := q.Get("day"); v != "" {
		day, err := parseWeekday(v)
		if err != nil {
			return form, err
		}
		form.Weekday = day
	}

	if q.Has("event") {
		e, err := engine.ParseEvent(q.Get("event"))
		if err != nil {
			return form, err
		}
		form.Event = e
	}

	if v := q.Get("minutes"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 || minutes > maxPlaylistMinutes {
			return form, fmt.Errorf("invalid playlist length %q: want 1-%d minutes", v, maxPlaylistMinutes)
		}
		form.Minutes = minutes
	}

	return form, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	for _, d := range weekdays() {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid day %q", s)
}

// weekdays returns the days of the week starting on Monday.
func weekdays() []time.Weekday {
	return []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
}

// setFlash stores a one-shot message for the next page view.
func setFlash(w http.ResponseWriter, msg FlashMessage) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg.Type + ":" + msg.Message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// popFlash reads and clears the flash message, if any.
func (h *Handlers) popFlash(w http.ResponseWriter, r *http.Request) *FlashMessage {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	kind, message, ok := strings.Cut(raw, ":")
	if !ok {
		return nil
	}
	return &FlashMessage{Type: kind, Message: message}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
