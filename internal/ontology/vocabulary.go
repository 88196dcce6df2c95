// Package ontology implements the controlled-vocabulary attribute
// classifier for garment descriptions: a deterministic rule engine over
// canonical value tables, family-scoped synonyms, and a small set of
// disambiguation heuristics. Callers depend on its exact confidence
// thresholds; treat changes to those as contract changes.
package ontology

// Vocabulary maps an attribute family to its canonical values.
// Immutable at runtime; loaded once at process start.
type Vocabulary map[string][]string

// Synonyms maps family-scoped surface forms to canonical values.
type Synonyms map[string]map[string]string

// Families with reliable surface cues; their matches get a small
// confidence bonus.
var strongCueFamilies = map[string]bool{
	"pattern":       true,
	"style":         true,
	"color_primary": true,
}

// Families whose values are too ambiguous to match as bare tokens
// ("short", "long"); they match through phrases and synonyms only.
var phraseOnlyFamilies = map[string]bool{
	"sleeve_length": true,
}

// categoryPriority resolves multi-category matches; first hit wins.
var categoryPriority = []string{"dress", "jacket", "shoes", "skirt", "pants", "shirt"}

// subcategoryCategory infers a parent category from a detected subcategory.
var subcategoryCategory = map[string]string{
	"blazer":   "jacket",
	"blouse":   "shirt",
	"bomber":   "jacket",
	"boots":    "shoes",
	"cardigan": "jacket",
	"chinos":   "pants",
	"gown":     "dress",
	"heels":    "shoes",
	"hoodie":   "jacket",
	"jeans":    "pants",
	"leggings": "pants",
	"loafers":  "shoes",
	"parka":    "jacket",
	"polo":     "shirt",
	"sneakers": "shoes",
	"sundress": "dress",
	"tank":     "shirt",
}

// DefaultVocabulary returns the built-in garment attribute ontology.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		"category": {"dress", "jacket", "pants", "shirt", "shoes", "skirt"},
		"subcategory": {
			"blazer", "blouse", "bomber", "boots", "cardigan", "chinos",
			"gown", "heels", "hoodie", "jeans", "leggings", "loafers",
			"parka", "polo", "sneakers", "sundress", "tank",
		},
		"fit": {"cropped", "high-waisted", "oversized", "regular", "relaxed", "slim"},
		"material": {
			"cashmere", "corduroy", "cotton", "denim", "leather", "linen",
			"nylon", "polyester", "silk", "suede", "synthetic", "velvet", "wool",
		},
		"color_primary": {
			"beige", "black", "blue", "brown", "gray", "green",
			"navy", "olive", "orange", "pink", "purple", "red",
			"white", "yellow",
		},
		"pattern": {"floral", "graphic", "paisley", "plaid", "polka-dot", "solid", "striped"},
		"style": {
			"athletic", "bohemian", "casual", "formal", "grunge",
			"minimalist", "preppy", "streetwear", "vintage", "workwear",
		},
		"season":        {"all-season", "fall", "spring", "summer", "winter"},
		"occasion":      {"casual", "evening", "outdoor", "work"},
		"era":           {"1950s", "1960s", "1970s", "1980s", "1990s", "2000s"},
		"neckline":      {"collared", "crew", "halter", "scoop", "turtleneck", "v-neck"},
		"sleeve_length": {"long", "short", "sleeveless", "three-quarter"},
	}
}

// DefaultSynonyms returns the built-in surface-form table. Keys are
// lower-cased surface forms as they appear in descriptions.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		"category": {
			"coat":      "jacket",
			"t-shirt":   "shirt",
			"tee":       "shirt",
			"tee shirt": "shirt",
			"trousers":  "pants",
			"tshirt":    "shirt",
		},
		"subcategory": {
			"boot":    "boots",
			"chino":   "chinos",
			"heel":    "heels",
			"legging": "leggings",
			"loafer":  "loafers",
			"sneaker": "sneakers",
		},
		"fit": {
			"high waisted": "high-waisted",
			"high-rise":    "high-waisted",
			"crop":         "cropped",
		},
		"material": {
			"faux leather":  "synthetic",
			"vegan leather": "synthetic",
			"jersey":        "cotton",
		},
		"color_primary": {
			"burgundy":    "red",
			"charcoal":    "gray",
			"cream":       "beige",
			"earth tone":  "olive",
			"grey":        "gray",
			"ivory":       "white",
			"khaki":       "olive",
			"maroon":      "red",
			"navy blue":   "navy",
			"off-white":   "white",
			"olive green": "olive",
			"tan":         "beige",
		},
		"pattern": {
			"floral print": "floral",
			"polka dot":    "polka-dot",
			"polka dots":   "polka-dot",
			"stripes":      "striped",
			"tartan":       "plaid",
		},
		"style": {
			"boho":          "bohemian",
			"retro":         "vintage",
			"vintage style": "vintage",
			"work wear":     "workwear",
		},
		"season": {
			"all season": "all-season",
			"autumn":     "fall",
		},
		"era": {
			"eighties":  "1980s",
			"fifties":   "1950s",
			"nineties":  "1990s",
			"seventies": "1970s",
			"sixties":   "1960s",
			"y2k":       "2000s",
		},
		"neckline": {
			"crew neck":   "crew",
			"crewneck":    "crew",
			"mock neck":   "turtleneck",
			"turtle neck": "turtleneck",
			"v neck":      "v-neck",
			"vneck":       "v-neck",
		},
		"sleeve_length": {
			"3/4 sleeve":           "three-quarter",
			"long sleeve":          "long",
			"long sleeves":         "long",
			"long-sleeve":          "long",
			"short sleeve":         "short",
			"short sleeves":        "short",
			"short-sleeve":         "short",
			"sleeveless":           "sleeveless",
			"three quarter sleeve": "three-quarter",
		},
	}
}
