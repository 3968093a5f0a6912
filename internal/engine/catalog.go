package engine

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog string

// ErrEmptyCatalog is returned when a catalog contains no tracks.
var ErrEmptyCatalog = errors.New("catalog has no tracks")

// Track is a catalog entry the engine can recommend.
type Track struct {
	Title       string    `yaml:"title"`
	Artist      string    `yaml:"artist"`
	Genre       string    `yaml:"genre"`
	Tempo       int       `yaml:"tempo"`  // BPM
	Energy      float64   `yaml:"energy"` // 0-10
	MoodTags    []string  `yaml:"mood_tags"`
	Weather     []Weather `yaml:"weather"`
	Seasons     []Event   `yaml:"seasons"`
	DurationSec int       `yaml:"duration_sec"`
}

// Duration returns the track length.
func (t Track) Duration() time.Duration {
	return time.Duration(t.DurationSec) * time.Second
}

// SuitsWeather reports whether the track is tagged for w.
func (t Track) SuitsWeather(w Weather) bool {
	return slices.Contains(t.Weather, w)
}

// SuitsEvent reports whether the track is tagged for e. No event never
// matches.
func (t Track) SuitsEvent(e Event) bool {
	return e != EventNone && slices.Contains(t.Seasons, e)
}

type catalogFile struct {
	Tracks []Track `yaml:"tracks"`
}

// LoadCatalog decodes a YAML track catalog and validates its entries.
func LoadCatalog(r io.Reader) ([]Track, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if len(file.Tracks) == 0 {
		return nil, ErrEmptyCatalog
	}

	for i, t := range file.Tracks {
		if t.Title == "" {
			return nil, fmt.Errorf("track %d: missing title", i)
		}
		for _, w := range t.Weather {
			if !w.Valid() {
				return nil, fmt.Errorf("track %q: %w %q", t.Title, ErrUnknownWeather, w)
			}
		}
		for _, e := range t.Seasons {
			if !e.Valid() || e == EventNone {
				return nil, fmt.Errorf("track %q: %w %q", t.Title, ErrUnknownEvent, e)
			}
		}
		if t.DurationSec <= 0 {
			return nil, fmt.Errorf("track %q: duration must be positive", t.Title)
		}
	}

	return file.Tracks, nil
}

// DefaultCatalog returns the embedded sample catalog.
func DefaultCatalog() []Track {
	tracks, err := LoadCatalog(strings.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("engine: embedded catalog: %v", err))
	}
	return tracks
}

// Search returns catalog tracks whose title or artist fuzzily matches query,
// ignoring case. An empty query matches nothing.
func Search(tracks []Track, query string) []Track {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var matches []Track
	for _, t := range tracks {
		if fuzzy.MatchFold(query, t.Title) || fuzzy.MatchFold(query, t.Artist) {
			matches = append(matches, t)
		}
	}
	return matches
}
