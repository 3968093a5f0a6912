package dashboard

import (
	"context"
	"math/rand/v2"
	"slices"
)

// RefreshedRecommendations is the list every mock refresh produces.
var RefreshedRecommendations = []string{
	"Dynamic Pop Mix - High Energy Shopping",
	"Seasonal Holiday Blend - Festive Atmosphere",
	"Weather-Adaptive Ambient - Current Conditions",
	"Customer Flow Optimizer - Peak Hours",
}

// Score ranges drawn by the mock source, as [min, min+span).
const (
	moodScoreMin      = 7.0
	moodScoreSpan     = 3.0
	weatherImpactMin  = 8.0
	weatherImpactSpan = 2.0
	holidayFactorMin  = 6.0
	holidayFactorSpan = 4.0
)

// Result is what a refresh replaces in the view state.
type Result struct {
	Recommendations []string
	MoodScore       float64
	WeatherImpact   float64
	HolidayFactor   float64
}

// Source produces refresh results. A real recommendation service would sit
// behind this interface.
type Source interface {
	Recommend(ctx context.Context) (Result, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (Result, error)

// Recommend calls f.
func (f SourceFunc) Recommend(ctx context.Context) (Result, error) {
	return f(ctx)
}

// MockSource returns the fixed refresh list with randomly drawn scores.
// It never fails.
type MockSource struct {
	// Float64 returns a value in [0, 1). Defaults to math/rand/v2.Float64.
	Float64 func() float64
}

// Recommend implements Source.
func (m MockSource) Recommend(_ context.Context) (Result, error) {
	draw := m.Float64
	if draw == nil {
		draw = rand.Float64
	}
	return Result{
		Recommendations: slices.Clone(RefreshedRecommendations),
		MoodScore:       moodScoreMin + draw()*moodScoreSpan,
		WeatherImpact:   weatherImpactMin + draw()*weatherImpactSpan,
		HolidayFactor:   holidayFactorMin + draw()*holidayFactorSpan,
	}, nil
}
