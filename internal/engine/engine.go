package engine

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Mood score weights and bounds.
const (
	baseMoodScore  = 5.0
	weatherWeight  = 0.3
	tempWeight     = 0.2
	timeWeight     = 0.25
	baseWeight     = 0.25
	minMoodScore   = 1.0
	maxMoodScore   = 10.0
	weekendBoost   = 1.2
	christmasBoost = 1.3
	holidayBoost   = 1.15
)

// playlistCandidates is how many ranked tracks playlist generation considers.
const playlistCandidates = 20

// Engine ranks catalog tracks against environmental factors.
type Engine struct {
	tracks []Track
}

// New creates an engine over the given catalog.
func New(tracks []Track) *Engine {
	return &Engine{tracks: slices.Clone(tracks)}
}

// Tracks returns the engine catalog.
func (e *Engine) Tracks() []Track {
	return slices.Clone(e.tracks)
}

// MoodScore estimates customer mood on a 1-10 scale.
func (e *Engine) MoodScore(f Factors) float64 {
	weather := ProfileFor(f.Weather).MoodBoost
	temp := temperatureScore(f.TemperatureF)
	timeOfDay := TimeEnergy(f.Hour)

	dayBoost := 1.0
	if f.IsWeekend() {
		dayBoost = weekendBoost
	}

	score := (weather*weatherWeight +
		temp*tempWeight +
		timeOfDay*timeWeight +
		baseMoodScore*baseWeight) * dayBoost * seasonalBoost(f.Event)

	return min(maxMoodScore, max(minMoodScore, score))
}

// temperatureScore favours moderate temperatures.
func temperatureScore(f float64) float64 {
	switch {
	case f >= 65 && f <= 75:
		return 8.0
	case f >= 60 && f <= 80:
		return 7.0
	case f < 50 || f > 85:
		return 4.0
	default:
		return 5.0
	}
}

func seasonalBoost(e Event) float64 {
	switch e {
	case Christmas:
		return christmasBoost
	case Valentines, NewYear:
		return holidayBoost
	default:
		return 1.0
	}
}

// Confidence scores how well a track fits the factors. Higher is better;
// the maximum is 11.
func (e *Engine) Confidence(t Track, f Factors) float64 {
	profile := ProfileFor(f.Weather)
	var confidence float64

	if t.SuitsWeather(f.Weather) {
		confidence += 3.0
	}
	if t.SuitsEvent(f.Event) {
		confidence += 2.5
	}
	if profile.PreferredTempo.Contains(float64(t.Tempo)) {
		confidence += 2.0
	}
	if profile.PreferredEnergy.Contains(t.Energy) {
		confidence += 2.0
	}

	diff := t.Energy - TimeEnergy(f.Hour)
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 1.0:
		confidence += 1.5
	case diff <= 2.0:
		confidence += 1.0
	}

	return confidence
}

// Scored is a track with its recommendation confidence.
type Scored struct {
	Track      Track
	Confidence float64
}

// Recommend returns up to n tracks ordered by confidence, highest first.
// Ties keep catalog order.
func (e *Engine) Recommend(f Factors, n int) []Scored {
	scored := make([]Scored, len(e.tracks))
	for i, t := range e.tracks {
		scored[i] = Scored{Track: t, Confidence: e.Confidence(t, f)}
	}

	slices.SortStableFunc(scored, func(a, b Scored) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})

	if n >= 0 && n < len(scored) {
		scored = scored[:n]
	}
	return scored
}

// PlaylistEntry is one track in a generated playlist.
type PlaylistEntry struct {
	Track      Track
	Confidence float64
	Reason     string
}

// Playlist is a generated playlist for a set of conditions.
type Playlist struct {
	Entries        []PlaylistEntry
	TotalDuration  time.Duration
	MoodScore      float64
	SpendingImpact float64
	Summary        string
}

// GeneratePlaylist fills a playlist of roughly the given length with the best
// fitting tracks. Tracks that would overrun the target are skipped, and
// filling stops once 90% of the target is reached.
func (e *Engine) GeneratePlaylist(f Factors, minutes int) Playlist {
	target := time.Duration(minutes) * time.Minute
	var total time.Duration
	var entries []PlaylistEntry

	for _, s := range e.Recommend(f, playlistCandidates) {
		if total+s.Track.Duration() <= target {
			entries = append(entries, PlaylistEntry{
				Track:      s.Track,
				Confidence: s.Confidence,
				Reason:     Reason(s.Track, f),
			})
			total += s.Track.Duration()
		}
		if total >= target*9/10 {
			break
		}
	}

	mood := e.MoodScore(f)
	return Playlist{
		Entries:        entries,
		TotalDuration:  total,
		MoodScore:      mood,
		SpendingImpact: ProfileFor(f.Weather).SpendingImpact,
		Summary:        Summary(f, mood),
	}
}

// Reason explains why a track was picked.
func Reason(t Track, f Factors) string {
	var reasons []string

	if t.SuitsWeather(f.Weather) {
		reasons = append(reasons, fmt.Sprintf("Perfect for %s weather", f.Weather))
	}
	if t.SuitsEvent(f.Event) {
		reasons = append(reasons, fmt.Sprintf("Ideal for %s season", f.Event))
	}
	switch {
	case t.Energy >= 7.0:
		reasons = append(reasons, "High energy to boost customer mood")
	case t.Energy <= 4.0:
		reasons = append(reasons, "Calming effect to reduce stress")
	}

	if len(reasons) == 0 {
		return "Good general fit for current conditions"
	}
	return strings.Join(reasons, "; ")
}

// Summary describes the optimization strategy for the conditions.
func Summary(f Factors, mood float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Mood optimization score: %.1f/10. ", mood)

	impact := ProfileFor(f.Weather).SpendingImpact
	switch {
	case impact > 1.05:
		sb.WriteString("Weather conditions favor increased spending - using energetic, upbeat tracks. ")
	case impact < 0.95:
		sb.WriteString("Weather may reduce spending - using comforting, mood-lifting tracks. ")
	}

	if f.Event == Christmas {
		sb.WriteString("Holiday season active - incorporating festive elements to enhance nostalgia and generosity. ")
	}

	energy := TimeEnergy(f.Hour)
	switch {
	case energy >= 7.5:
		sb.WriteString("Peak shopping hours - maintaining high energy without overstimulation.")
	case energy <= 5.0:
		sb.WriteString("Low energy period - using gentle, ambient tracks to create comfortable atmosphere.")
	}

	return strings.TrimSpace(sb.String())
}
