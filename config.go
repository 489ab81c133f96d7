package mapmodel

import (
	"math"
)

// ConflictPolicy decides whether two turns whose connector paths cross inside
// the intersection footprint actually conflict. Priority rules between
// crossing movements are a domain policy, so the rule is pluggable.
type ConflictPolicy func(a, b *Turn) bool

// Config carries every geometric policy knob of the pipeline as an explicit
// value, so edge-case geometries can be tested deterministically.
type Config struct {
	// Lane widths (meters) by lane type, used when tags carry no explicit width
	LaneWidths map[LaneType]float64
	// Allowed excess of the summed lane widths over a road's declared
	// cross-section before the configuration is reported as invalid
	CrossSectionTolerance float64
	// Distance tolerance for snap-trimming fallback
	TrimSnapTolerance float64
	// Turn classification thresholds (radians); an absolute bearing change of
	// at most StraightThreshold is straight, anything beyond UTurnThreshold to
	// the left is a u-turn
	StraightThreshold float64
	UTurnThreshold    float64
	// Number of segments a turn's connector curve is sampled into
	ConnectorSegments int
	// Radius around a building footprint centroid searched for candidate lanes
	BuildingSearchRadius float64
	// Maximum candidate lanes ranked per building
	BuildingCandidates int
	// Two parcels closer than this tolerance are adjacent
	ParcelAdjacencyTolerance float64
	// Worker goroutines per parallel stage; values below 1 mean sequential
	Workers int
	// Conflict resolution rule; nil falls back to DefaultConflictPolicy
	Conflicts ConflictPolicy
}

// DefaultConfig returns configuration with default policies applied
func DefaultConfig() *Config {
	return &Config{
		LaneWidths: map[LaneType]float64{
			LANE_DRIVING:  3.5,
			LANE_BIKING:   1.5,
			LANE_PARKING:  2.0,
			LANE_SIDEWALK: 1.8,
			LANE_BUS:      3.5,
		},
		CrossSectionTolerance:    0.5,
		TrimSnapTolerance:        0.01,
		StraightThreshold:        0.25 * math.Pi,
		UTurnThreshold:           0.75 * math.Pi,
		ConnectorSegments:        8,
		BuildingSearchRadius:     100.0,
		BuildingCandidates:       8,
		ParcelAdjacencyTolerance: 0.1,
		Workers:                  4,
		Conflicts:                DefaultConflictPolicy,
	}
}

// conflictPolicy returns the configured policy or the default one
func (cfg *Config) conflictPolicy() ConflictPolicy {
	if cfg.Conflicts != nil {
		return cfg.Conflicts
	}
	return DefaultConflictPolicy
}

// laneWidth returns configured width for given lane type
func (cfg *Config) laneWidth(laneType LaneType) float64 {
	if width, ok := cfg.LaneWidths[laneType]; ok {
		return width
	}
	return 3.5
}

// DefaultConflictPolicy ranks crossing movements as straight > right > left >
// u-turn. A right turn never conflicts with straight traffic leaving the same
// road (parallel same-side flow); every other crossing pair conflicts
// symmetrically.
func DefaultConflictPolicy(a, b *Turn) bool {
	if a.Type == TURN_RIGHT && b.Type == TURN_STRAIGHT && a.Source.Road == b.Source.Road {
		return false
	}
	if b.Type == TURN_RIGHT && a.Type == TURN_STRAIGHT && b.Source.Road == a.Source.Road {
		return false
	}
	return true
}
