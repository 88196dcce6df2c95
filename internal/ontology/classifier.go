package ontology

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/prethrift/prethrift/internal/cache"
	"github.com/prethrift/prethrift/internal/domain"
)

// classifyCacheCapacity bounds the classification memo. Overflow clears
// the whole cache; re-deriving a classification is cheap and deterministic.
const classifyCacheCapacity = 2048

// Confidence scoring constants. These are part of the classifier's
// contract with downstream consumers.
const (
	confidenceBase        = 0.55
	confidenceEarlyBoost  = 0.20
	confidenceRepeatBoost = 0.10
	confidenceCueBoost    = 0.05
	confidenceCap         = 0.95
	earlyOccurrenceLimit  = 30
)

var (
	tokenRe = regexp.MustCompile(`[a-z0-9]+`)
	yearRe  = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// matcher recognizes one canonical value through either a single token or
// a whole-word phrase pattern.
type matcher struct {
	canonical string
	token     string
	re        *regexp.Regexp
}

// Classifier maps free text to canonical attribute values. It never
// returns an error: unrecognized text yields an empty mapping.
type Classifier struct {
	vocab    Vocabulary
	synonyms Synonyms
	families []string
	matchers map[string][]matcher
	valueRe  map[string]*regexp.Regexp
	eraSet   map[string]bool
	memo     *cache.Cache[map[string][]string]
}

// New builds a classifier over the given vocabulary and synonym table,
// precompiling all phrase patterns. Build it once at process start.
func New(vocab Vocabulary, synonyms Synonyms) *Classifier {
	c := &Classifier{
		vocab:    vocab,
		synonyms: synonyms,
		matchers: make(map[string][]matcher),
		valueRe:  make(map[string]*regexp.Regexp),
		eraSet:   make(map[string]bool),
		memo:     cache.New[map[string][]string](classifyCacheCapacity, cache.ClearAll),
	}

	for family := range vocab {
		c.families = append(c.families, family)
	}
	sort.Strings(c.families)

	for _, family := range c.families {
		values := append([]string(nil), vocab[family]...)
		sort.Strings(values)
		for _, value := range values {
			if _, ok := c.valueRe[value]; !ok {
				c.valueRe[value] = wholeWordPattern(value)
			}
			// Phrase-only families skip bare-token matching of their values.
			if isPhrase(value) {
				c.matchers[family] = append(c.matchers[family], matcher{canonical: value, re: c.valueRe[value]})
			} else if !phraseOnlyFamilies[family] {
				c.matchers[family] = append(c.matchers[family], matcher{canonical: value, token: value})
			}
		}

		surfaces := make([]string, 0, len(synonyms[family]))
		for surface := range synonyms[family] {
			surfaces = append(surfaces, surface)
		}
		sort.Strings(surfaces)
		for _, surface := range surfaces {
			canonical := synonyms[family][surface]
			m := matcher{canonical: canonical}
			if isPhrase(surface) {
				m.re = wholeWordPattern(surface)
			} else {
				m.token = surface
			}
			c.matchers[family] = append(c.matchers[family], m)
		}
	}

	for _, era := range vocab["era"] {
		c.eraSet[era] = true
	}

	return c
}

// WithCacheMetrics attaches a ("cache", "result") counter vec to the
// classification memo.
func (c *Classifier) WithCacheMetrics(total *prometheus.CounterVec) *Classifier {
	c.memo.WithMetrics(total, "classification")
	return c
}

// Classify returns the attribute families detected in the description,
// each with its lexicographically ordered canonical values. Results are
// memoized by normalized description text; callers must not mutate the
// returned map.
func (c *Classifier) Classify(description string) map[string][]string {
	key := cache.NormalizeKey(description)
	if key == "" {
		return map[string][]string{}
	}
	result, _ := c.memo.GetOrCompute(key, func() (map[string][]string, error) {
		return c.classify(key), nil
	})
	return result
}

// classify runs the full rule pipeline over an already-lowercased description.
func (c *Classifier) classify(lowered string) map[string][]string {
	tokens := make(map[string]bool)
	for _, tok := range tokenRe.FindAllString(lowered, -1) {
		tokens[tok] = true
	}

	matched := make(map[string]map[string]bool)
	add := func(family, value string) {
		if matched[family] == nil {
			matched[family] = make(map[string]bool)
		}
		matched[family][value] = true
	}

	for _, family := range c.families {
		for _, m := range c.matchers[family] {
			if m.token != "" {
				if tokens[m.token] {
					add(family, m.canonical)
				}
			} else if m.re.MatchString(lowered) {
				add(family, m.canonical)
			}
		}
	}

	// Subcategory implies a parent category; runs before priority reduction.
	for sub := range matched["subcategory"] {
		if cat, ok := subcategoryCategory[sub]; ok {
			add("category", cat)
		}
	}

	// A description mentions at most one category; fixed priority wins.
	if cats := matched["category"]; len(cats) > 1 {
		for _, cat := range categoryPriority {
			if cats[cat] {
				matched["category"] = map[string]bool{cat: true}
				break
			}
		}
	}

	// Fold 4-digit years into decades for the era family.
	for _, yearTok := range yearRe.FindAllString(lowered, -1) {
		year, err := strconv.Atoi(yearTok)
		if err != nil {
			continue
		}
		decade := strconv.Itoa(year-year%10) + "s"
		if c.eraSet[decade] {
			add("era", decade)
		}
	}

	// Band-tee cue: merch descriptions almost always read as vintage.
	if tokens["band"] && (tokens["tee"] || tokens["tshirt"] || tokens["shirt"] ||
		tokens["graphic"] || tokens["tour"] || tokens["concert"]) {
		add("style", "vintage")
	}

	out := make(map[string][]string, len(matched))
	for family, values := range matched {
		if len(values) == 0 {
			continue
		}
		sorted := make([]string, 0, len(values))
		for v := range values {
			sorted = append(sorted, v)
		}
		sort.Strings(sorted)
		out[family] = sorted
	}
	return out
}

// AttributeConfidences scores each extracted (family, value) pair.
// Pure and reproducible: identical inputs yield bit-identical output.
func (c *Classifier) AttributeConfidences(
	description string, attrs map[string][]string,
) map[domain.AttributeKey]float64 {
	lowered := strings.ToLower(description)
	out := make(map[domain.AttributeKey]float64)

	for family, values := range attrs {
		for _, value := range values {
			conf := confidenceBase

			re, ok := c.valueRe[value]
			if !ok {
				re = wholeWordPattern(value)
			}
			if loc := re.FindStringIndex(lowered); loc != nil && loc[0] < earlyOccurrenceLimit {
				conf += confidenceEarlyBoost
			}
			if len(re.FindAllString(lowered, -1)) > 1 {
				conf += confidenceRepeatBoost
			}
			if strongCueFamilies[family] {
				conf += confidenceCueBoost
			}
			if conf > confidenceCap {
				conf = confidenceCap
			}
			out[domain.AttributeKey{Family: family, Value: value}] = round3(conf)
		}
	}
	return out
}

// Normalize resolves a raw surface form to a canonical value within a
// family, or reports false when the value is outside the vocabulary.
func (c *Classifier) Normalize(family, raw string) (string, bool) {
	r := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := c.synonyms[family][r]; ok {
		r = canonical
	}
	for _, v := range c.vocab[family] {
		if v == r {
			return r, true
		}
	}
	return "", false
}

// AllValues returns every family with its sorted canonical values.
func (c *Classifier) AllValues() map[string][]string {
	out := make(map[string][]string, len(c.vocab))
	for _, family := range c.families {
		values := append([]string(nil), c.vocab[family]...)
		sort.Strings(values)
		out[family] = values
	}
	return out
}

// CacheStats exposes the classification memo counters.
func (c *Classifier) CacheStats() cache.Stats {
	return c.memo.Stats()
}

// ResetCache clears the classification memo. Intended for tests.
func (c *Classifier) ResetCache() {
	c.memo.Reset()
}

func isPhrase(s string) bool {
	return strings.ContainsAny(s, " -/")
}

func wholeWordPattern(value string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(value) + `\b`)
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
