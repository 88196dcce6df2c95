// Package ranking scores candidate garments against a parsed query and a
// user preference profile. Five independent signals are weighted and
// summed; every signal degrades to zero contribution when its inputs are
// missing, so a candidate is never excluded for lacking a field.
package ranking

import (
	"math"
	"sort"

	"github.com/prethrift/prethrift/internal/domain"
	"github.com/prethrift/prethrift/internal/domain/vector"
)

// preferenceDivisor scales the learned-weight average before the tanh
// squash so single outlier weights cannot dominate the score.
const preferenceDivisor = 3.0

// Weights are the per-signal multipliers. NegativePenalty is subtracted.
type Weights struct {
	TextSimilarity   float64 `yaml:"text_similarity"`
	AttributeOverlap float64 `yaml:"attribute_overlap"`
	PreferenceWeight float64 `yaml:"preference_weight"`
	PositiveProfile  float64 `yaml:"positive_profile"`
	NegativePenalty  float64 `yaml:"negative_penalty"`
}

// DefaultWeights returns the production signal weights.
func DefaultWeights() Weights {
	return Weights{
		TextSimilarity:   0.60,
		AttributeOverlap: 0.25,
		PreferenceWeight: 0.10,
		PositiveProfile:  0.15,
		NegativePenalty:  0.20,
	}
}

// Map renders the weights keyed by signal name for explanation payloads.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		domain.SignalTextSimilarity:   w.TextSimilarity,
		domain.SignalAttributeOverlap: w.AttributeOverlap,
		domain.SignalPreferenceWeight: w.PreferenceWeight,
		domain.SignalPositiveProfile:  w.PositiveProfile,
		domain.SignalNegativePenalty:  w.NegativePenalty,
	}
}

// Engine ranks candidates. Stateless and safe for concurrent use.
type Engine struct {
	weights Weights
}

// New creates a ranking engine with the given signal weights.
func New(weights Weights) *Engine {
	return &Engine{weights: weights}
}

// Weights returns the configured signal weights.
func (e *Engine) Weights() Weights {
	return e.weights
}

// Rank scores every candidate, keeps those with a positive score (or a
// fully neutral one where every raw signal is zero), sorts descending by
// score with candidate order as the stable tiebreak, and truncates to
// limit. limit <= 0 means no truncation.
func (e *Engine) Rank(parsed domain.ParsedQuery, candidates []domain.Garment, profile domain.Profile, limit int) []domain.RankedResult {
	results := make([]domain.RankedResult, 0, len(candidates))
	for _, g := range candidates {
		r := e.score(parsed, g, profile)
		if r.Score > 0 || allZero(r.Components) {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (e *Engine) score(parsed domain.ParsedQuery, g domain.Garment, profile domain.Profile) domain.RankedResult {
	textSim := vector.Cosine(parsed.TextEmbedding, g.DescriptionEmbedding)
	attrOverlap, details := attributeOverlap(parsed.Attributes, g.AttributesByFamily())
	prefWeight := preferenceSignal(profile.AttributeWeights, g.Attributes)
	posSim := vector.Cosine(profile.PositiveCentroid, g.DescriptionEmbedding)
	negPenalty := math.Max(0, vector.Cosine(profile.NegativeCentroid, g.DescriptionEmbedding))

	components := map[string]float64{
		domain.SignalTextSimilarity:   textSim,
		domain.SignalAttributeOverlap: attrOverlap,
		domain.SignalPreferenceWeight: prefWeight,
		domain.SignalPositiveProfile:  posSim,
		domain.SignalNegativePenalty:  negPenalty,
	}
	contributions := map[string]float64{
		domain.SignalTextSimilarity:   e.weights.TextSimilarity * textSim,
		domain.SignalAttributeOverlap: e.weights.AttributeOverlap * attrOverlap,
		domain.SignalPreferenceWeight: e.weights.PreferenceWeight * prefWeight,
		domain.SignalPositiveProfile:  e.weights.PositiveProfile * posSim,
		domain.SignalNegativePenalty:  -e.weights.NegativePenalty * negPenalty,
	}

	score := contributions[domain.SignalTextSimilarity] +
		contributions[domain.SignalAttributeOverlap] +
		contributions[domain.SignalPreferenceWeight] +
		contributions[domain.SignalPositiveProfile] +
		contributions[domain.SignalNegativePenalty]

	return domain.RankedResult{
		GarmentID:        g.ID,
		Title:            g.Title,
		Description:      g.Description,
		Score:            score,
		Components:       components,
		Contributions:    contributions,
		AttributeDetails: details,
	}
}

// attributeOverlap averages the per-family Jaccard index over the query
// families the candidate actually carries. Families absent from the
// candidate are skipped, not scored as zero.
func attributeOverlap(query map[string][]string, candidate map[string][]string) (float64, []domain.FamilyOverlap) {
	if len(query) == 0 || len(candidate) == 0 {
		return 0, nil
	}

	families := make([]string, 0, len(query))
	for f := range query {
		families = append(families, f)
	}
	sort.Strings(families)

	var details []domain.FamilyOverlap
	var sum float64
	for _, family := range families {
		candidateValues, ok := candidate[family]
		if !ok || len(candidateValues) == 0 {
			continue
		}
		queryValues := query[family]
		overlap, jaccard := jaccard(queryValues, candidateValues)
		sum += jaccard
		details = append(details, domain.FamilyOverlap{
			Family:          family,
			QueryValues:     sortedCopy(queryValues),
			CandidateValues: sortedCopy(candidateValues),
			Overlap:         overlap,
			Jaccard:         jaccard,
		})
	}
	if len(details) == 0 {
		return 0, nil
	}
	return sum / float64(len(details)), details
}

// jaccard returns the sorted intersection and |A ∩ B| / |A ∪ B| of two
// value lists, deduplicating each side first.
func jaccard(a, b []string) ([]string, float64) {
	setA := toSet(a)
	setB := toSet(b)

	var overlap []string
	union := len(setA)
	for v := range setB {
		if _, ok := setA[v]; ok {
			overlap = append(overlap, v)
		} else {
			union++
		}
	}
	sort.Strings(overlap)
	if union == 0 {
		return overlap, 0
	}
	return overlap, float64(len(overlap)) / float64(union)
}

// preferenceSignal averages the learned weights over all of the
// candidate's attribute instances, then squashes through tanh.
// Attributes the user has no weight for contribute 0 to the average,
// so a single learned weight is diluted by the rest of the garment's
// attributes; no matches at all means 0.
func preferenceSignal(weights map[domain.AttributeKey]domain.AttributeWeight, attrs []domain.AttributeInstance) float64 {
	if len(weights) == 0 || len(attrs) == 0 {
		return 0
	}
	var sum float64
	var matched int
	for _, a := range attrs {
		w, ok := weights[domain.AttributeKey{Family: a.Family, Value: a.Value}]
		if !ok {
			continue
		}
		sum += w.Weight
		matched++
	}
	if matched == 0 {
		return 0
	}
	return math.Tanh(sum / float64(len(attrs)) / preferenceDivisor)
}

func allZero(components map[string]float64) bool {
	for _, v := range components {
		if v != 0 {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func sortedCopy(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	sort.Strings(out)
	return out
}
