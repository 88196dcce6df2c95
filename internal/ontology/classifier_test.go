package ontology

import (
	"reflect"
	"testing"

	"github.com/prethrift/prethrift/internal/domain"
)

func newTestClassifier() *Classifier {
	return New(DefaultVocabulary(), DefaultSynonyms())
}

func TestClassify_CoreExtraction(t *testing.T) {
	c := newTestClassifier()
	attrs := c.Classify("A vintage graphic band tee in soft cream cotton with relaxed fit")

	if got := attrs["category"]; !reflect.DeepEqual(got, []string{"shirt"}) {
		t.Errorf("category = %v, want [shirt]", got)
	}
	if !contains(attrs["pattern"], "graphic") {
		t.Errorf("pattern = %v, want graphic present", attrs["pattern"])
	}
	if !contains(attrs["style"], "vintage") {
		t.Errorf("style = %v, want vintage present", attrs["style"])
	}
	// cream normalizes to beige
	if !contains(attrs["color_primary"], "beige") {
		t.Errorf("color_primary = %v, want beige present", attrs["color_primary"])
	}
	if !contains(attrs["material"], "cotton") {
		t.Errorf("material = %v, want cotton present", attrs["material"])
	}
	if !contains(attrs["fit"], "relaxed") {
		t.Errorf("fit = %v, want relaxed present", attrs["fit"])
	}
}

func TestClassify_CategoryPriorityDisambiguation(t *testing.T) {
	c := newTestClassifier()
	attrs := c.Classify("A casual summer dress layered over a long sleeve shirt with a graphic print")

	if got := attrs["category"]; !reflect.DeepEqual(got, []string{"dress"}) {
		t.Errorf("category = %v, want [dress]", got)
	}
	if !contains(attrs["pattern"], "graphic") {
		t.Errorf("pattern = %v, want graphic present", attrs["pattern"])
	}
	if got := attrs["sleeve_length"]; !reflect.DeepEqual(got, []string{"long"}) {
		t.Errorf("sleeve_length = %v, want [long]", got)
	}
}

func TestClassify_CategorySingularity(t *testing.T) {
	c := newTestClassifier()
	descriptions := []string{
		"dress shirt pants skirt jacket shoes all at once",
		"a shirt and a skirt",
		"leather boots with a denim jacket",
		"plain text without garments",
	}
	for _, d := range descriptions {
		if got := c.Classify(d)["category"]; len(got) > 1 {
			t.Errorf("Classify(%q) category = %v, want at most one value", d, got)
		}
	}
}

func TestClassify_NoFalsePositiveSubstrings(t *testing.T) {
	c := newTestClassifier()
	attrs := c.Classify("An elegant skirted hem silhouette with tailored finish")
	if contains(attrs["category"], "skirt") {
		t.Errorf("category = %v; 'skirted' must not match 'skirt'", attrs["category"])
	}
}

func TestClassify_SubcategoryImpliesCategory(t *testing.T) {
	c := newTestClassifier()
	attrs := c.Classify("High-waisted jeans in washed denim")

	if !contains(attrs["subcategory"], "jeans") {
		t.Fatalf("subcategory = %v, want jeans present", attrs["subcategory"])
	}
	if got := attrs["category"]; !reflect.DeepEqual(got, []string{"pants"}) {
		t.Errorf("category = %v, want [pants] inferred from jeans", got)
	}
	if !contains(attrs["fit"], "high-waisted") {
		t.Errorf("fit = %v, want high-waisted present", attrs["fit"])
	}
}

func TestClassify_EraFromYear(t *testing.T) {
	c := newTestClassifier()

	attrs := c.Classify("Grunge flannel shirt from 1995")
	if got := attrs["era"]; !reflect.DeepEqual(got, []string{"1990s"}) {
		t.Errorf("era = %v, want [1990s]", got)
	}

	// A year outside the vocabulary's decades adds nothing.
	attrs = c.Classify("Jacket bought new in 2015")
	if _, ok := attrs["era"]; ok {
		t.Errorf("era = %v, want absent for 2015", attrs["era"])
	}
}

func TestClassify_NecklineAndSleeve(t *testing.T) {
	c := newTestClassifier()
	attrs := c.Classify("A vintage graphic crew neckline short sleeve cotton tee in beige")

	if got := attrs["neckline"]; !reflect.DeepEqual(got, []string{"crew"}) {
		t.Errorf("neckline = %v, want [crew]", got)
	}
	if got := attrs["sleeve_length"]; !reflect.DeepEqual(got, []string{"short"}) {
		t.Errorf("sleeve_length = %v, want [short]", got)
	}
}

func TestClassify_SleeveLengthNotBareTokens(t *testing.T) {
	c := newTestClassifier()
	attrs := c.Classify("A long flowing maxi dress for short evenings")
	if _, ok := attrs["sleeve_length"]; ok {
		t.Errorf("sleeve_length = %v, bare short/long must not match", attrs["sleeve_length"])
	}
}

func TestClassify_EmptyAndUnrecognized(t *testing.T) {
	c := newTestClassifier()
	if got := c.Classify(""); len(got) != 0 {
		t.Errorf("Classify(empty) = %v, want empty", got)
	}
	if got := c.Classify("   "); len(got) != 0 {
		t.Errorf("Classify(blank) = %v, want empty", got)
	}
	if got := c.Classify("zxqwv unrelated prose"); len(got) != 0 {
		t.Errorf("Classify(unrecognized) = %v, want empty", got)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	desc := "Vintage 1990s striped navy cotton shirt with crew neck"

	a := newTestClassifier().Classify(desc)
	b := newTestClassifier().Classify(desc)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("classification not deterministic:\n%v\n%v", a, b)
	}

	c := newTestClassifier()
	confA := c.AttributeConfidences(desc, a)
	confB := c.AttributeConfidences(desc, b)
	if !reflect.DeepEqual(confA, confB) {
		t.Errorf("confidences not deterministic:\n%v\n%v", confA, confB)
	}
}

func TestAttributeConfidences_Bounds(t *testing.T) {
	c := newTestClassifier()
	descriptions := []string{
		"A vintage graphic band tee in soft cream cotton with relaxed fit",
		"A red red vintage tee with crew crew neckline",
		"Striped striped striped navy shirt striped",
		"plaid wool skirt",
	}
	for _, d := range descriptions {
		attrs := c.Classify(d)
		for key, conf := range c.AttributeConfidences(d, attrs) {
			if conf < 0.55 || conf > 0.95 {
				t.Errorf("confidence for %v in %q = %f, want within [0.55, 0.95]", key, d, conf)
			}
		}
	}
}

func TestAttributeConfidences_RepeatBoost(t *testing.T) {
	c := newTestClassifier()
	desc := "A red red vintage tee with crew crew neckline"
	attrs := c.Classify(desc)
	conf := c.AttributeConfidences(desc, attrs)

	red := conf[domain.AttributeKey{Family: "color_primary", Value: "red"}]
	crew := conf[domain.AttributeKey{Family: "neckline", Value: "crew"}]
	if red < 0.7 {
		t.Errorf("red confidence = %f, want >= 0.7 (early + repeat)", red)
	}
	if crew < 0.7 {
		t.Errorf("crew confidence = %f, want >= 0.7 (early + repeat)", crew)
	}
}

func TestAttributeConfidences_SynonymOnlyValue(t *testing.T) {
	c := newTestClassifier()
	desc := "A tee in soft cream cotton"
	attrs := c.Classify(desc)
	conf := c.AttributeConfidences(desc, attrs)

	// "beige" never occurs literally: no positional boosts, only the
	// strong-cue bonus for color_primary.
	got := conf[domain.AttributeKey{Family: "color_primary", Value: "beige"}]
	if got != 0.6 {
		t.Errorf("beige confidence = %f, want 0.600", got)
	}
}

func TestClassify_Memoization(t *testing.T) {
	c := newTestClassifier()
	c.ResetCache()

	c.Classify("A vintage graphic tee") // miss
	c.Classify("A vintage graphic tee") // hit
	c.Classify("A floral dress")        // miss

	s := c.CacheStats()
	if s.Hits != 1 {
		t.Errorf("hits = %d, want 1", s.Hits)
	}
	if s.Misses != 2 {
		t.Errorf("misses = %d, want 2", s.Misses)
	}
	if s.Size != 2 {
		t.Errorf("size = %d, want 2", s.Size)
	}
	if s.HitRate <= 0 || s.HitRate >= 1 {
		t.Errorf("hit rate = %f, want in (0, 1)", s.HitRate)
	}
}

func TestNormalize(t *testing.T) {
	c := newTestClassifier()
	tests := []struct {
		family, raw string
		want        string
		ok          bool
	}{
		{"color_primary", "cream", "beige", true},
		{"color_primary", "  Grey ", "gray", true},
		{"category", "tee", "shirt", true},
		{"category", "trousers", "pants", true},
		{"style", "retro", "vintage", true},
		{"material", "cotton", "cotton", true},
		{"color_primary", "chartreuse", "", false},
		{"nonexistent", "cotton", "", false},
	}
	for _, tt := range tests {
		got, ok := c.Normalize(tt.family, tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Normalize(%q, %q) = (%q, %v), want (%q, %v)",
				tt.family, tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAllValues_SortedAndComplete(t *testing.T) {
	c := newTestClassifier()
	all := c.AllValues()
	if len(all) != len(DefaultVocabulary()) {
		t.Fatalf("AllValues families = %d, want %d", len(all), len(DefaultVocabulary()))
	}
	for family, values := range all {
		for i := 1; i < len(values); i++ {
			if values[i-1] >= values[i] {
				t.Errorf("family %s values not strictly sorted: %v", family, values)
			}
		}
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
