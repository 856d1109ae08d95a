package search

// Weight is one of the four relevance tiers applied to a field signal.
type Weight float64

const (
	WeightA Weight = 1.0
	WeightB Weight = 0.4
	WeightC Weight = 0.2
	WeightD Weight = 0.1
)

// RelevanceFloor is the minimum combined score a post needs to be returned.
const RelevanceFloor = 0.3

// termSaturation damps repeated occurrences: a term seen tf times contributes
// tf/(tf+termSaturation) to its field signal.
const termSaturation = 0.5

// Field names a scored post attribute.
type Field string

const (
	FieldTitle Field = "title"
	FieldBody  Field = "body"
)

// FieldWeight assigns a weight tier to a field.
type FieldWeight struct {
	Field  Field
	Weight Weight
}

// DefaultFields is the title-over-body weighting used for blog search.
var DefaultFields = []FieldWeight{
	{Field: FieldTitle, Weight: WeightA},
	{Field: FieldBody, Weight: WeightB},
}
