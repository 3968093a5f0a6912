// Package clustering groups catalog tracks into mood groups using k-means
// over energy and tempo.
package clustering

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"gonum.org/v1/gonum/stat"

	"github.com/justestif/retailtunes/internal/engine"
)

// Tempo bounds used to normalise BPM into [0, 1].
const (
	minTempo = 60.0
	maxTempo = 140.0
)

// MoodConfig holds mood-based clustering parameters.
type MoodConfig struct {
	NumClusters    int // Number of groups to create (default: 3)
	MinClusterSize int // Smaller clusters are dropped into the leftovers
}

// DefaultMoodConfig returns the recommended default configuration.
func DefaultMoodConfig() MoodConfig {
	return MoodConfig{
		NumClusters:    3,
		MinClusterSize: 1,
	}
}

// MoodGroup is a set of tracks with a similar feel.
type MoodGroup struct {
	Name       string
	Tracks     []engine.Track
	MeanEnergy float64 // 0-10
	MeanTempo  float64 // BPM
}

// trackObservation wraps a Track to implement clusters.Observation.
type trackObservation struct {
	track  engine.Track
	coords clusters.Coordinates
}

func (o trackObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o trackObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Cluster groups tracks by energy and tempo. It returns the mood groups,
// ordered by mean energy from highest to lowest, and the tracks that ended up
// in clusters below the minimum size. With fewer tracks than clusters no
// groups are formed.
func Cluster(tracks []engine.Track, cfg MoodConfig) ([]MoodGroup, []engine.Track) {
	if len(tracks) == 0 {
		return nil, nil
	}

	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultMoodConfig().NumClusters
	}

	if len(tracks) < cfg.NumClusters {
		return nil, slices.Clone(tracks)
	}

	var obs clusters.Observations
	for _, t := range tracks {
		obs = append(obs, trackObservation{track: t, coords: extractFeatures(t)})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		fmt.Printf("Warning: k-means clustering failed: %v\n", err)
		return nil, slices.Clone(tracks)
	}

	var groups []MoodGroup
	var leftovers []engine.Track

	for _, cluster := range result {
		var members []engine.Track
		for _, o := range cluster.Observations {
			if to, ok := o.(trackObservation); ok {
				members = append(members, to.track)
			}
		}

		if len(members) == 0 {
			continue
		}
		if len(members) < cfg.MinClusterSize {
			leftovers = append(leftovers, members...)
			continue
		}

		groups = append(groups, newMoodGroup(members))
	}

	slices.SortFunc(groups, func(a, b MoodGroup) int {
		return cmp.Compare(b.MeanEnergy, a.MeanEnergy)
	})

	return groups, leftovers
}

func newMoodGroup(members []engine.Track) MoodGroup {
	energies := make([]float64, len(members))
	tempos := make([]float64, len(members))
	for i, t := range members {
		energies[i] = t.Energy
		tempos[i] = float64(t.Tempo)
	}

	// Highest energy first within a group
	slices.SortStableFunc(members, func(a, b engine.Track) int {
		return cmp.Compare(b.Energy, a.Energy)
	})

	meanEnergy := stat.Mean(energies, nil)
	meanTempo := stat.Mean(tempos, nil)

	return MoodGroup{
		Name:       generateMoodName(meanEnergy/10, normaliseTempo(meanTempo)),
		Tracks:     members,
		MeanEnergy: meanEnergy,
		MeanTempo:  meanTempo,
	}
}

// extractFeatures returns the clustering coordinates for a track.
func extractFeatures(t engine.Track) clusters.Coordinates {
	return clusters.Coordinates{
		t.Energy / 10,
		normaliseTempo(float64(t.Tempo)),
	}
}

// normaliseTempo maps BPM onto [0, 1], clamping outside minTempo..maxTempo.
func normaliseTempo(bpm float64) float64 {
	v := (bpm - minTempo) / (maxTempo - minTempo)
	return min(1, max(0, v))
}
