// Package vmmodel holds the typed records stored in each collection. The
// collection names match the data the console has always used.
package vmmodel

const (
	BrandsCollection        = "brands"
	FlavorsCollection       = "flavors"
	NutrientNamesCollection = "NutrientsName"
	NutrientsCollection     = "nutrients_collection"
	AdsCollection           = "AD"
	PaymentsCollection      = "payments"
	CustomersCollection     = "customer"
	UsersCollection         = "Users"
)
