// Package dashboard holds the per-session view state of the RetailTunes
// dashboard and the transitions the page controls apply to it.
package dashboard

import (
	"slices"
	"time"
)

// Initial values used when a dashboard is mounted.
const (
	InitialTrack         = "Uplifting Ambient - Perfect for Sunny Shopping"
	InitialVolume        = 75
	InitialMoodScore     = 7.2
	InitialWeatherImpact = 8.5
	InitialHolidayFactor = 6.0
)

// InitialRecommendations is the track list shown before the first refresh.
var InitialRecommendations = []string{
	"Uplifting Ambient - Perfect for Sunny Shopping",
	"Energetic Pop - Boost Customer Energy",
	"Calm Jazz - Relaxing Shopping Experience",
}

// ViewState is the full record behind one dashboard page.
type ViewState struct {
	IsPlaying     bool      `json:"isPlaying"`
	CurrentTrack  string    `json:"currentTrack"`
	Volume        int       `json:"volume"`
	MoodScore     float64   `json:"moodScore"`
	WeatherImpact float64   `json:"weatherImpact"`
	HolidayFactor float64   `json:"holidayFactor"`
	IsAnalyzing   bool      `json:"isAnalyzing"`
	LastUpdated   time.Time `json:"lastUpdated"`
	// Recommendations is in display order and may contain duplicates.
	Recommendations []string `json:"recommendations"`
	// LastError is set when the most recent refresh failed.
	LastError string `json:"lastError,omitempty"`
}

// InitialState returns the state a freshly mounted dashboard starts with.
func InitialState(now time.Time) ViewState {
	return ViewState{
		IsPlaying:       false,
		CurrentTrack:    InitialTrack,
		Volume:          InitialVolume,
		MoodScore:       InitialMoodScore,
		WeatherImpact:   InitialWeatherImpact,
		HolidayFactor:   InitialHolidayFactor,
		IsAnalyzing:     false,
		LastUpdated:     now,
		Recommendations: slices.Clone(InitialRecommendations),
	}
}

// Clone returns a deep copy of the state.
func (s ViewState) Clone() ViewState {
	s.Recommendations = slices.Clone(s.Recommendations)
	return s
}

// IsCurrent reports whether track is the one currently selected.
func (s ViewState) IsCurrent(track string) bool {
	return s.CurrentTrack == track
}

// IsPlayingTrack reports whether track is selected and playback is on.
func (s ViewState) IsPlayingTrack(track string) bool {
	return s.IsPlaying && s.CurrentTrack == track
}

// TogglePlayback flips playback and stamps the update time.
func TogglePlayback(s ViewState, now time.Time) ViewState {
	next := s.Clone()
	next.IsPlaying = !s.IsPlaying
	next.LastUpdated = now
	return next
}

// AdjustVolume stores v as the volume. Range checking is left to the input
// control that supplies it.
func AdjustVolume(s ViewState, v int) ViewState {
	next := s.Clone()
	next.Volume = v
	return next
}

// SelectTrack makes track current and starts playback. The track does not have
// to be one of the recommendations.
func SelectTrack(s ViewState, track string, now time.Time) ViewState {
	next := s.Clone()
	next.CurrentTrack = track
	next.IsPlaying = true
	next.LastUpdated = now
	return next
}

// BeginRefresh marks a refresh as pending. Nothing else changes.
func BeginRefresh(s ViewState) ViewState {
	next := s.Clone()
	next.IsAnalyzing = true
	return next
}

// CompleteRefresh applies a successful refresh result.
func CompleteRefresh(s ViewState, r Result, now time.Time) ViewState {
	next := s.Clone()
	next.Recommendations = slices.Clone(r.Recommendations)
	next.MoodScore = r.MoodScore
	next.WeatherImpact = r.WeatherImpact
	next.HolidayFactor = r.HolidayFactor
	next.IsAnalyzing = false
	next.LastError = ""
	next.LastUpdated = now
	return next
}

// FailRefresh ends a pending refresh without touching the recommendations or
// scores, recording err for display.
func FailRefresh(s ViewState, err error) ViewState {
	next := s.Clone()
	next.IsAnalyzing = false
	next.LastError = err.Error()
	return next
}
