package domain

// AttributeInstance is a single classified (family, value) pair on a garment.
type AttributeInstance struct {
	Family     string  `json:"family"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Garment is the read-only projection consumed by ranking and feedback.
// The catalog repository owns persistence; the engine only reads it.
type Garment struct {
	ID                   string              `json:"id"`
	Title                string              `json:"title,omitempty"`
	Brand                string              `json:"brand,omitempty"`
	Price                float64             `json:"price,omitempty"`
	Currency             string              `json:"currency,omitempty"`
	Description          string              `json:"description,omitempty"`
	DescriptionEmbedding []float32           `json:"description_embedding,omitempty"`
	Attributes           []AttributeInstance `json:"attributes,omitempty"`
}

// AttributesByFamily groups the garment's attribute values per family.
func (g Garment) AttributesByFamily() map[string][]string {
	if len(g.Attributes) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, a := range g.Attributes {
		out[a.Family] = append(out[a.Family], a.Value)
	}
	return out
}
