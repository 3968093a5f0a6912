package clustering

// generateMoodName names a group from its normalised energy and tempo.
// Uses a 2x2 energy/tempo quadrant system.
//
// Quadrants:
//   - High Energy + High Tempo = "Peak Hour Drive"
//   - High Energy + Low Tempo  = "Bright & Steady"
//   - Low Energy  + High Tempo = "Light Browsing"
//   - Low Energy  + Low Tempo  = "Calm Ambience"
func generateMoodName(energy, tempo float64) string {
	highEnergy := energy > 0.6
	highTempo := tempo > 0.5

	switch {
	case highEnergy && highTempo:
		return "Peak Hour Drive"
	case highEnergy && !highTempo:
		return "Bright & Steady"
	case !highEnergy && highTempo:
		return "Light Browsing"
	default: // low energy, low tempo
		return "Calm Ambience"
	}
}

// MoodCategory represents a mood classification for display purposes.
type MoodCategory struct {
	Name        string  // Display name
	Energy      float64 // Mean energy, 0-10
	Tempo       float64 // Mean tempo, BPM
	Description string  // Where in the store day the group fits
}

// Category returns the display category for a group.
func (g MoodGroup) Category() MoodCategory {
	energy := g.MeanEnergy / 10
	tempo := normaliseTempo(g.MeanTempo)

	var description string
	switch {
	case energy > 0.6 && tempo > 0.5:
		description = "Driving, upbeat tracks for the busiest shopping hours"
	case energy > 0.6:
		description = "Positive energy at an easy pace - good all-day background"
	case tempo > 0.5:
		description = "Light and lively without pushing the room"
	default:
		description = "Soft, slow tracks for quiet periods and closing time"
	}

	return MoodCategory{
		Name:        generateMoodName(energy, tempo),
		Energy:      g.MeanEnergy,
		Tempo:       g.MeanTempo,
		Description: description,
	}
}
