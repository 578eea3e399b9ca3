// Package foods provides the embedded nutrition reference data: per-100g
// nutrient profiles, the colloquial-name alias table, and default portions.
// Tables ship as versioned YAML resources rather than code literals so they
// can be reviewed and tested independently of the pipeline.
package foods

// NutrientProfile holds nutrient values per 100 g of a canonical food.
// Fiber and Sodium are optional in the reference data; Density (g/ml) is only
// present for liquids that deviate meaningfully from water.
type NutrientProfile struct {
	Name     string   `yaml:"name"`
	Kcal     float64  `yaml:"kcal"`
	Protein  float64  `yaml:"protein"`
	Carbs    float64  `yaml:"carbs"`
	Fat      float64  `yaml:"fat"`
	Fiber    *float64 `yaml:"fiber,omitempty"`
	Sodium   *float64 `yaml:"sodium,omitempty"`
	Density  *float64 `yaml:"density,omitempty"`
	Category string   `yaml:"category,omitempty"`
}

// High-energy-density categories used by the calculator's sanity flags.
const (
	CategoryFried   = "fried"
	CategoryCheese  = "cheese"
	CategorySausage = "sausage"
)

var highEnergyCategories = map[string]bool{
	CategoryFried:   true,
	CategoryCheese:  true,
	CategorySausage: true,
}

// HighEnergy reports whether the profile belongs to a category where
// an energy density below 1.2 kcal/g is implausible.
func (p NutrientProfile) HighEnergy() bool {
	return highEnergyCategories[p.Category]
}
