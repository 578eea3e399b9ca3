package foods

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var data embed.FS

type portionTable struct {
	FallbackGrams       float64            `yaml:"fallback_grams"`
	FallbackMilliliters float64            `yaml:"fallback_milliliters"`
	Portions            map[string]float64 `yaml:"portions"`
}

// Catalog is the loaded, immutable reference table set. It is safe for
// concurrent use after Load.
type Catalog struct {
	profiles map[string]NutrientProfile
	aliases  map[string]string
	portions portionTable
}

// Load parses the embedded YAML tables into a Catalog.
func Load() (*Catalog, error) {
	c := &Catalog{}

	if err := loadYAML("data/nutrients.yaml", &c.profiles); err != nil {
		return nil, fmt.Errorf("load nutrient table: %w", err)
	}
	if err := loadYAML("data/aliases.yaml", &c.aliases); err != nil {
		return nil, fmt.Errorf("load alias table: %w", err)
	}
	if err := loadYAML("data/portions.yaml", &c.portions); err != nil {
		return nil, fmt.Errorf("load portion table: %w", err)
	}

	for alias, key := range c.aliases {
		if _, ok := c.profiles[key]; !ok {
			return nil, fmt.Errorf("alias %q targets unknown profile %q", alias, key)
		}
	}

	return c, nil
}

// Profile returns the nutrient profile for a canonical key.
func (c *Catalog) Profile(key string) (NutrientProfile, bool) {
	p, ok := c.profiles[key]
	return p, ok
}

// Resolve maps an arbitrary food name to a canonical profile key.
// The name is accent/case folded and whitespace-collapsed, then checked as an
// exact key and finally against the alias table. The second return is false
// when no profile matches.
func (c *Catalog) Resolve(name string) (string, bool) {
	folded := Fold(name)
	if folded == "" {
		return "", false
	}

	if _, ok := c.profiles[folded]; ok {
		return folded, true
	}

	key := KeyForm(folded)
	if _, ok := c.profiles[key]; ok {
		return key, true
	}

	if key, ok := c.aliases[folded]; ok {
		return key, true
	}

	return "", false
}

// DefaultPortion returns the default quantity for a canonical key, used when
// portion mode is "defaults". Units follow the profile: milliliters for
// liquids with a density entry, grams otherwise.
func (c *Catalog) DefaultPortion(key string, liquid bool) float64 {
	if v, ok := c.portions.Portions[key]; ok {
		return v
	}
	if liquid {
		return c.portions.FallbackMilliliters
	}
	return c.portions.FallbackGrams
}

// Size returns the number of nutrient profiles in the catalog.
func (c *Catalog) Size() int {
	return len(c.profiles)
}

func loadYAML(path string, out any) error {
	raw, err := data.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
