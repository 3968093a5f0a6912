package panels

// PlaylistStatus is the scheduling state shown on a playlist card.
type PlaylistStatus string

const (
	StatusActive    PlaylistStatus = "active"
	StatusInactive  PlaylistStatus = "inactive"
	StatusScheduled PlaylistStatus = "scheduled"
)

// BadgeVariant returns the badge style for a status. Unknown statuses use
// the outline style.
func (s PlaylistStatus) BadgeVariant() string {
	switch s {
	case StatusActive:
		return "default"
	case StatusScheduled:
		return "secondary"
	case StatusInactive:
		return "outline"
	default:
		return "outline"
	}
}

// Playlist is one managed playlist card.
type Playlist struct {
	ID          int
	Name        string
	Description string
	Tracks      int
	Duration    string
	LastUsed    string
	Performance Score
	Conditions  []string
	Status      PlaylistStatus
}

// Playlists returns the managed playlists.
func Playlists() []Playlist {
	return []Playlist{
		{
			ID:          1,
			Name:        "Sunny Day Vibes",
			Description: "Upbeat tracks for bright, sunny shopping days",
			Tracks:      32,
			Duration:    "2h 15m",
			LastUsed:    "2 hours ago",
			Performance: 8.7,
			Conditions:  []string{"Sunny", "High Energy", "Daytime"},
			Status:      StatusActive,
		},
		{
			ID:          2,
			Name:        "Rainy Day Comfort",
			Description: "Soothing music for overcast and rainy conditions",
			Tracks:      28,
			Duration:    "1h 52m",
			LastUsed:    "3 days ago",
			Performance: 7.9,
			Conditions:  []string{"Rainy", "Low Energy", "Cozy"},
			Status:      StatusInactive,
		},
		{
			ID:          3,
			Name:        "Holiday Magic",
			Description: "Festive holiday music for the Christmas season",
			Tracks:      45,
			Duration:    "3h 8m",
			LastUsed:    "1 day ago",
			Performance: 9.2,
			Conditions:  []string{"Christmas", "Festive", "Nostalgic"},
			Status:      StatusActive,
		},
		{
			ID:          4,
			Name:        "Evening Wind Down",
			Description: "Relaxing tracks for late afternoon and evening",
			Tracks:      24,
			Duration:    "1h 38m",
			LastUsed:    "5 hours ago",
			Performance: 8.1,
			Conditions:  []string{"Evening", "Relaxed", "Ambient"},
			Status:      StatusScheduled,
		},
	}
}

// Recommendation is one curated playlist in the AI recommendations panel.
type Recommendation struct {
	ID           int
	Title        string
	Description  string
	Tracks       int
	Duration     string
	MoodMatch    Score
	WeatherMatch Score
	Tags         []string
	Reason       string
}

// Recommendations returns the curated playlist recommendations.
func Recommendations() []Recommendation {
	return []Recommendation{
		{
			ID:           1,
			Title:        "Sunny Day Shopping Mix",
			Description:  "Perfect for bright, energetic shopping atmosphere",
			Tracks:       24,
			Duration:     "1h 32m",
			MoodMatch:    9.2,
			WeatherMatch: 9.5,
			Tags:         []string{"Upbeat", "Energetic", "Feel-Good"},
			Reason:       "Sunny weather + high customer energy",
		},
		{
			ID:           2,
			Title:        "Holiday Cheer Collection",
			Description:  "Festive music to enhance holiday shopping",
			Tracks:       18,
			Duration:     "1h 15m",
			MoodMatch:    8.7,
			WeatherMatch: 7.2,
			Tags:         []string{"Holiday", "Festive", "Nostalgic"},
			Reason:       "Christmas season + positive mood",
		},
		{
			ID:           3,
			Title:        "Afternoon Energy Boost",
			Description:  "Combat afternoon lull with motivating tracks",
			Tracks:       20,
			Duration:     "1h 28m",
			MoodMatch:    8.1,
			WeatherMatch: 8.0,
			Tags:         []string{"Motivational", "Pop", "Uplifting"},
			Reason:       "Time of day + energy level optimization",
		},
	}
}

// Event is an entry on the seasonal events calendar.
type Event struct {
	Name   string
	Dates  string
	Status string
}

// BadgeVariant returns the badge style for the event status.
func (e Event) BadgeVariant() string {
	if e.Status == "Active" {
		return "default"
	}
	return "outline"
}

// SeasonalEvents returns the seasonal events calendar.
func SeasonalEvents() []Event {
	return []Event{
		{Name: "Christmas Season", Dates: "December 1-25", Status: "Active"},
		{Name: "New Year Preparation", Dates: "December 26-31", Status: "Upcoming"},
		{Name: "Valentine's Day", Dates: "February 1-14", Status: "Future"},
	}
}
