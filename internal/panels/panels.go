// Package panels provides the static display panels of the dashboard.
//
// Every panel renders from its own literal data table and never reads the
// session view state, so figures that look related (the weather mood impact
// and the overview weather score, for instance) are not kept consistent.
package panels

import (
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Score is a 0-10 figure displayed as "x/10" with a progress bar.
type Score float64

// String formats the score with one decimal.
func (s Score) String() string {
	return strconv.FormatFloat(float64(s), 'f', 1, 64)
}

// Percent returns the score scaled to a 0-100 progress value.
func (s Score) Percent() float64 {
	return float64(s) * 10
}

// Weather is the current weather snapshot panel.
type Weather struct {
	Detailed            bool
	Condition           string
	TemperatureF        int
	HumidityPct         int
	WindMPH             int
	MoodImpact          Score
	MusicRecommendation string
	MusicTypes          []string // detailed layout only
	Correlation         string   // detailed layout only
}

// WeatherPanel returns the weather panel in its compact or detailed layout.
func WeatherPanel(detailed bool) Weather {
	w := Weather{
		Detailed:            detailed,
		Condition:           "Sunny",
		TemperatureF:        72,
		HumidityPct:         45,
		WindMPH:             8,
		MoodImpact:          8.5,
		MusicRecommendation: "Upbeat, energetic tracks",
	}
	if detailed {
		w.MusicTypes = []string{"Upbeat Pop", "Energetic", "Feel-Good", "Motivational"}
		w.Correlation = "Sunny weather increases serotonin levels, making customers more likely " +
			"to respond positively to upbeat, energetic music."
	}
	return w
}

// TrendPoint is one hourly mood reading.
type TrendPoint struct {
	Time string
	Mood Score
}

// Mood is the customer mood breakdown panel.
type Mood struct {
	Detailed      bool
	OverallMood   Score
	EnergyLevel   Score
	StressLevel   Score
	Positivity    Score
	CustomerCount int
	PeakHours     string
	Trends        []TrendPoint
	Actions       []string // detailed layout only
	Insight       string   // detailed layout only
}

// MoodPanel returns the mood panel in its compact or detailed layout.
func MoodPanel(detailed bool) Mood {
	m := Mood{
		Detailed:      detailed,
		OverallMood:   7.2,
		EnergyLevel:   6.8,
		StressLevel:   3.2,
		Positivity:    8.1,
		CustomerCount: 45,
		PeakHours:     "2-4 PM",
		Trends: []TrendPoint{
			{Time: "9 AM", Mood: 6.5},
			{Time: "11 AM", Mood: 7.0},
			{Time: "1 PM", Mood: 7.5},
			{Time: "3 PM", Mood: 7.2},
			{Time: "5 PM", Mood: 6.8},
		},
	}
	if detailed {
		m.Actions = []string{
			"Maintain upbeat tempo",
			"Add energizing tracks",
			"Reduce stress-inducing sounds",
		}
		m.Insight = "High positivity detected. Current music selection is effectively enhancing customer mood."
	}
	return m
}

// TrendAverage returns the mean of the hourly mood readings, or 0 if there
// are none.
func (m Mood) TrendAverage() Score {
	if len(m.Trends) == 0 {
		return 0
	}
	values := make([]float64, len(m.Trends))
	for i, p := range m.Trends {
		values[i] = float64(p.Mood)
	}
	return Score(stat.Mean(values, nil))
}

// Factor is one environmental factor card.
type Factor struct {
	Name           string
	Value          string
	Impact         Score
	Description    string
	Recommendation string
	Icon           string
}

// Factors returns the environmental factor cards.
func Factors() []Factor {
	return []Factor{
		{
			Name:           "Time of Day",
			Value:          "Afternoon Peak",
			Impact:         7.5,
			Description:    "2:30 PM - High shopping activity period",
			Recommendation: "Maintain moderate energy, avoid overstimulation",
			Icon:           "clock",
		},
		{
			Name:           "Day of Week",
			Value:          "Saturday",
			Impact:         8.2,
			Description:    "Weekend shopping - families and leisure shoppers",
			Recommendation: "Family-friendly, upbeat but not aggressive",
			Icon:           "calendar",
		},
		{
			Name:           "Location Context",
			Value:          "Suburban Mall",
			Impact:         6.8,
			Description:    "Mixed demographics, family-oriented",
			Recommendation: "Broad appeal, avoid niche genres",
			Icon:           "map-pin",
		},
		{
			Name:           "Seasonal Factor",
			Value:          "Holiday Season",
			Impact:         9.1,
			Description:    "Christmas shopping period - high emotional engagement",
			Recommendation: "Mix holiday classics with contemporary favorites",
			Icon:           "trending-up",
		},
	}
}
