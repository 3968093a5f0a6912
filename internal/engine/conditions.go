// Package engine implements the rule-based music recommendation engine:
// environmental conditions are mapped to a mood score, and catalog tracks are
// ranked by how well they suit those conditions.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors.
var (
	ErrUnknownWeather = errors.New("unknown weather condition")
	ErrUnknownEvent   = errors.New("unknown seasonal event")
)

// Weather is a weather condition.
type Weather string

const (
	Sunny  Weather = "sunny"
	Cloudy Weather = "cloudy"
	Rainy  Weather = "rainy"
	Snowy  Weather = "snowy"
	Stormy Weather = "stormy"
)

// Weathers lists every known condition in display order.
var Weathers = []Weather{Sunny, Cloudy, Rainy, Snowy, Stormy}

// Valid reports whether w is a known condition.
func (w Weather) Valid() bool {
	switch w {
	case Sunny, Cloudy, Rainy, Snowy, Stormy:
		return true
	}
	return false
}

// ParseWeather parses a condition name, ignoring case.
func ParseWeather(s string) (Weather, error) {
	w := Weather(strings.ToLower(strings.TrimSpace(s)))
	if !w.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownWeather, s)
	}
	return w, nil
}

// Event is a seasonal event or season.
type Event string

const (
	EventNone    Event = ""
	Christmas    Event = "christmas"
	NewYear      Event = "new_year"
	Valentines   Event = "valentines"
	Spring       Event = "spring"
	Summer       Event = "summer"
	Fall         Event = "fall"
	Winter       Event = "winter"
	BackToSchool Event = "back_to_school"
)

// Events lists every known event in display order, excluding EventNone.
var Events = []Event{Christmas, NewYear, Valentines, Spring, Summer, Fall, Winter, BackToSchool}

// Valid reports whether e is a known event or EventNone.
func (e Event) Valid() bool {
	switch e {
	case EventNone, Christmas, NewYear, Valentines, Spring, Summer, Fall, Winter, BackToSchool:
		return true
	}
	return false
}

// ParseEvent parses an event name, ignoring case. Empty and "none" parse to
// EventNone.
func ParseEvent(s string) (Event, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" {
		return EventNone, nil
	}
	e := Event(s)
	if !e.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
	}
	return e, nil
}

// Factors describes the store environment at one moment.
type Factors struct {
	Weather       Weather
	TemperatureF  float64
	HumidityPct   float64
	Hour          int // 0-23
	Weekday       time.Weekday
	Event         Event
	CustomerCount int
	AgeGroup      string // young, middle, senior or mixed
}

// IsWeekend reports whether the factors fall on a Saturday or Sunday.
func (f Factors) IsWeekend() bool {
	return f.Weekday == time.Saturday || f.Weekday == time.Sunday
}

// DefaultFactors is a sunny Saturday afternoon during the Christmas season.
func DefaultFactors() Factors {
	return Factors{
		Weather:       Sunny,
		TemperatureF:  68,
		HumidityPct:   45,
		Hour:          14,
		Weekday:       time.Saturday,
		Event:         Christmas,
		CustomerCount: 45,
		AgeGroup:      "mixed",
	}
}

// Range is an inclusive numeric interval.
type Range struct {
	Min, Max float64
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// WeatherProfile is how a weather condition shapes mood and music choice.
type WeatherProfile struct {
	MoodBoost       float64
	EnergyIncrease  float64
	SpendingImpact  float64 // multiplier on baseline spending
	PreferredTempo  Range   // BPM
	PreferredEnergy Range   // 0-10
}

// weatherProfiles holds the known weather mappings. Stormy has none and uses
// fallbackProfile.
var weatherProfiles = map[Weather]WeatherProfile{
	Sunny: {
		MoodBoost:       8.5,
		EnergyIncrease:  7.8,
		SpendingImpact:  1.119,
		PreferredTempo:  Range{110, 140},
		PreferredEnergy: Range{7.0, 9.5},
	},
	Cloudy: {
		MoodBoost:       5.5,
		EnergyIncrease:  5.2,
		SpendingImpact:  0.95,
		PreferredTempo:  Range{90, 120},
		PreferredEnergy: Range{5.0, 7.5},
	},
	Rainy: {
		MoodBoost:       4.2,
		EnergyIncrease:  3.8,
		SpendingImpact:  0.903,
		PreferredTempo:  Range{70, 100},
		PreferredEnergy: Range{3.0, 6.0},
	},
	Snowy: {
		MoodBoost:       6.0,
		EnergyIncrease:  4.5,
		SpendingImpact:  0.92,
		PreferredTempo:  Range{80, 110},
		PreferredEnergy: Range{4.0, 7.0},
	},
}

var fallbackProfile = WeatherProfile{
	MoodBoost:       5.0,
	SpendingImpact:  1.0,
	PreferredTempo:  Range{80, 120},
	PreferredEnergy: Range{4.0, 7.0},
}

// ProfileFor returns the weather profile for w, or the neutral fallback.
func ProfileFor(w Weather) WeatherProfile {
	if p, ok := weatherProfiles[w]; ok {
		return p
	}
	return fallbackProfile
}

// defaultTimeEnergy applies outside opening hours.
const defaultTimeEnergy = 5.0

// timeEnergy is the target energy level per opening hour.
var timeEnergy = map[int]float64{
	9:  6.0,
	10: 6.5,
	11: 7.0,
	12: 7.5,
	13: 8.0,
	14: 8.2, // 2-4 PM is the shopping peak
	15: 8.0,
	16: 7.5,
	17: 7.0,
	18: 6.5,
	19: 6.0,
	20: 5.5,
	21: 5.0,
}

// TimeEnergy returns the optimal music energy for an hour of the day.
func TimeEnergy(hour int) float64 {
	if e, ok := timeEnergy[hour]; ok {
		return e
	}
	return defaultTimeEnergy
}
