package integrity

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lorekeep/lorekeep/internal/types"
)

// Weights is the scoring policy for canonical selection. The defaults
// reproduce the cleanup decisions of prior releases bit for bit; change
// them only if parity with historical runs does not matter.
type Weights struct {
	// RecencyCap bounds the recency term. Without it, entities created
	// far in the future (clock-skewed clients) would dominate scoring.
	// Default: 1000
	RecencyCap float64 `yaml:"recency_cap"`

	// RecencyDivisor converts creation epoch seconds into the recency
	// term. Larger values flatten the difference between old and new
	// entities. Default: 1000000
	RecencyDivisor float64 `yaml:"recency_divisor"`

	// FieldWeight is added once per populated core or schema-declared
	// field. This term is unbounded and usually dominates, which is
	// intentional: completeness matters more than age. Default: 10
	FieldWeight float64 `yaml:"field_weight"`

	// RelationshipWeight multiplies the entity's relationship count.
	// Entities referenced by others are expensive to delete. Default: 5
	RelationshipWeight float64 `yaml:"relationship_weight"`
}

// DefaultWeights returns the scoring weights used by prior cleanup runs.
func DefaultWeights() Weights {
	return Weights{
		RecencyCap:         1000,
		RecencyDivisor:     1_000_000,
		FieldWeight:        10,
		RelationshipWeight: 5,
	}
}

// Validate checks if the weights have usable values
func (w Weights) Validate() error {
	if w.RecencyCap < 0 {
		return fmt.Errorf("recency_cap cannot be negative (got %g)", w.RecencyCap)
	}
	if w.RecencyDivisor <= 0 {
		return fmt.Errorf("recency_divisor must be positive (got %g)", w.RecencyDivisor)
	}
	if w.FieldWeight < 0 {
		return fmt.Errorf("field_weight cannot be negative (got %g)", w.FieldWeight)
	}
	if w.RelationshipWeight < 0 {
		return fmt.Errorf("relationship_weight cannot be negative (got %g)", w.RelationshipWeight)
	}
	return nil
}

// String returns a human-readable representation of the weights
func (w Weights) String() string {
	return fmt.Sprintf("Weights{RecencyCap: %g, RecencyDivisor: %g, FieldWeight: %g, RelationshipWeight: %g}",
		w.RecencyCap, w.RecencyDivisor, w.FieldWeight, w.RelationshipWeight)
}

// WeightsFromEnv creates Weights from environment variables, falling back
// to defaults.
//
// Environment variables:
//   - LOREKEEP_SCORE_RECENCY_CAP: upper bound on the recency term (default: 1000)
//   - LOREKEEP_SCORE_RECENCY_DIVISOR: epoch-seconds divisor for recency (default: 1000000)
//   - LOREKEEP_SCORE_FIELD_WEIGHT: points per populated field (default: 10)
//   - LOREKEEP_SCORE_RELATIONSHIP_WEIGHT: points per relationship (default: 5)
//
// Returns an error if any variable has an invalid value.
func WeightsFromEnv() (Weights, error) {
	w := DefaultWeights()

	if err := parseEnvFloat("LOREKEEP_SCORE_RECENCY_CAP", &w.RecencyCap); err != nil {
		return w, err
	}
	if err := parseEnvFloat("LOREKEEP_SCORE_RECENCY_DIVISOR", &w.RecencyDivisor); err != nil {
		return w, err
	}
	if err := parseEnvFloat("LOREKEEP_SCORE_FIELD_WEIGHT", &w.FieldWeight); err != nil {
		return w, err
	}
	if err := parseEnvFloat("LOREKEEP_SCORE_RELATIONSHIP_WEIGHT", &w.RelationshipWeight); err != nil {
		return w, err
	}

	if err := w.Validate(); err != nil {
		return w, fmt.Errorf("invalid weights from environment: %w", err)
	}
	return w, nil
}

// parseEnvFloat parses a float64 from an environment variable
func parseEnvFloat(key string, dest *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// timestampLayouts are the formats the CRUD clients have historically
// written. Unparsable timestamps simply contribute no recency.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Scorer assigns a canonical-worthiness score to a single entity. Scoring
// is purely a function of the entity's own fields; no comparison across
// entities happens here.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given weights.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score computes the entity's quality score: a recency term, a
// completeness term over core fields plus the kind's declared attributes,
// and a relationship term. Higher means more canonical.
func (s *Scorer) Score(kind types.Kind, e *types.Entity) float64 {
	var score float64

	// Recency: creation epoch seconds scaled down and capped.
	if e.CreatedAt != "" {
		if t, ok := parseTimestamp(e.CreatedAt); ok {
			recency := float64(t.Unix()) / s.weights.RecencyDivisor
			if recency > s.weights.RecencyCap {
				recency = s.weights.RecencyCap
			}
			score += recency
		}
	}

	// Completeness: one FieldWeight per populated field. Empty strings
	// and a zero relationship count do not count as populated.
	for _, populated := range []bool{
		e.ID != "",
		e.Name != "",
		e.Title != "",
		e.CreatedAt != "",
		e.UpdatedAt != "",
		e.CreatedBy != "",
		e.UserID != "",
		e.RelationshipCount != 0,
	} {
		if populated {
			score += s.weights.FieldWeight
		}
	}
	for _, attr := range types.AttrSchema(kind) {
		if v := e.Attr(attr); v != "" && v != "0" {
			score += s.weights.FieldWeight
		}
	}

	// Relationships: entities other records point at are worth keeping.
	if e.RelationshipCount > 0 {
		score += s.weights.RelationshipWeight * float64(e.RelationshipCount)
	}

	return score
}
