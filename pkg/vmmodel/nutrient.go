package vmmodel

const (
	NutrientMajor = "major"
	NutrientMinor = "minor"
)

// NutrientName is a column of the nutrient grid.
type NutrientName struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Position int    `json:"position,omitempty"`
}

func (n *NutrientName) setID(id string) { n.ID = id }

// NutrientRecord is keyed by the flavor id it describes. The value slices
// line up with the major and minor columns in order.
type NutrientRecord struct {
	ID             string   `json:"id"`
	Brand          string   `json:"brand"`
	Flavour        string   `json:"flavour"`
	Supplement     string   `json:"supplement"`
	MajorNutrients []string `json:"majorNutrients"`
	MinorNutrients []string `json:"minorNutrients"`
}

func (n *NutrientRecord) setID(id string) { n.ID = id }

func ValidNutrientType(t string) bool {
	return t == NutrientMajor || t == NutrientMinor
}
