package vmmodel

type Brand struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

func (b *Brand) setID(id string) { b.ID = id }

type PricePoint struct {
	Price  float64 `json:"price,omitempty"`
	Weight float64 `json:"weight,omitempty"`
}

const DefaultServingSize = "200ml"

// SupplementServingSizes lists the ml options each supplement is sold in.
var SupplementServingSizes = map[string][]string{
	"Whey":        {"200ml", "400ml"},
	"Mass Gainer": {"200ml"},
}

// Flavor.Brand holds the brand's name, not its id.
type Flavor struct {
	ID         string                `json:"id"`
	Brand      string                `json:"brand"`
	Name       string                `json:"name"`
	Supplement string                `json:"supplement"`
	ML         string                `json:"ml"`
	ImageURL   string                `json:"imageUrl,omitempty"`
	Pricing    map[string]PricePoint `json:"pricing,omitempty"`
}

func (f *Flavor) setID(id string) { f.ID = id }

// ServingSizeAllowed reports whether ml is sold for the supplement.
func ServingSizeAllowed(supplement, ml string) bool {
	for _, size := range SupplementServingSizes[supplement] {
		if size == ml {
			return true
		}
	}

	return false
}
