package console

// The dashboard overview shows these figures until machine telemetry is
// collected into the document store.

type revenuePoint struct {
	brand  string
	amount float64
}

var sampleRevenue = map[string][]revenuePoint{
	"daily": {
		{"Optimum", 5000},
		{"Muscle Blaze", 700},
		{"Avvatar", 9000},
	},
	"weekly": {
		{"Optimum", 35000},
		{"Muscle Blaze", 4900},
		{"Avvatar", 6300},
	},
	"monthly": {
		{"Optimum", 150000},
		{"Muscle Blaze", 21000},
		{"Avvatar", 270000},
	},
	"yearly": {
		{"Optimum", 18000},
		{"Muscle Blaze", 2500000},
		{"Avvatar", 32000},
	},
}

var sampleStock = []BrandStock{
	{Brand: "Optimum", Flavors: []FlavorStock{
		{Flavor: "Chocolate", Supplement: "Mass Gainer", Percentage: 25, Count: 200},
		{Flavor: "Strawberry", Supplement: "Whey", Percentage: 40, Count: 150},
		{Flavor: "Vanilla", Supplement: "Whey", Percentage: 75, Count: 50},
	}},
	{Brand: "Muscle Blaze", Flavors: []FlavorStock{
		{Flavor: "Chocolate", Supplement: "Mass Gainer", Percentage: 10, Count: 250},
		{Flavor: "Strawberry", Supplement: "Whey", Percentage: 60, Count: 100},
		{Flavor: "Vanilla", Supplement: "Whey", Percentage: 90, Count: 30},
	}},
	{Brand: "Avvatar", Flavors: []FlavorStock{
		{Flavor: "Chocolate", Supplement: "Mass Gainer", Percentage: 30, Count: 180},
		{Flavor: "Strawberry", Supplement: "Whey", Percentage: 50, Count: 120},
		{Flavor: "Vanilla", Supplement: "Whey", Percentage: 0, Count: 300},
	}},
}
