// Package nutrition computes macro-nutrient totals for resolved food items
// against the embedded per-100g reference table. Accumulation is done on raw
// values; rounding is applied once at output so errors never compound.
package nutrition

import (
	"math"

	"github.com/vidaleve/sofia/internal/foods"
)

// Anomaly flags raised by Calculate.
const (
	FlagGramsTotalZero     = "grams_total_zero"
	FlagDensityLowHighKcal = "density_too_low_high_energy_foods"
	FlagDensityLowGeneric  = "density_too_low_generic"
)

// Energy-density plausibility bounds (kcal per gram).
const (
	minDensityHighEnergy = 1.2
	minDensityGeneric    = 0.35
)

// Item is a normalized food with its mass in grams. Liquids are converted to
// grams before calculation (1 ml = 1 g unless the profile carries a density).
type Item struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
}

// Macro holds one set of nutrient values.
type Macro struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
	Fiber   float64 `json:"fiber"`
	Sodium  float64 `json:"sodium"`
}

// Detail records one item's contribution to the totals for auditability.
type Detail struct {
	Name    string                `json:"name"`
	Key     string                `json:"key"`
	Grams   float64               `json:"grams"`
	Per100g foods.NutrientProfile `json:"per_100g"`
	Contrib Macro                 `json:"contrib"`
}

// Totals is the aggregation result for one analysis.
type Totals struct {
	GramsTotal float64  `json:"grams_total"`
	Totals     Macro    `json:"totals"`
	PerGram    Macro    `json:"per_gram"`
	Per100g    Macro    `json:"per_100g"`
	Flags      []string `json:"flags"`
	Details    []Detail `json:"details"`
	Missing    []string `json:"missing"`
}

// Inconclusive reports whether the computation produced no usable result
// (nothing resolved or zero total mass).
func (t *Totals) Inconclusive() bool {
	return t.GramsTotal == 0
}

// Calculate resolves each item against the catalog, scales its profile by
// grams/100, and accumulates totals. Unresolvable names land in Missing and
// never contribute silently; resolved items always produce a Detail entry.
func Calculate(cat *foods.Catalog, items []Item) Totals {
	result := Totals{
		Flags:   []string{},
		Details: []Detail{},
		Missing: []string{},
	}

	var acc Macro
	highEnergy := false

	for _, item := range items {
		key, ok := cat.Resolve(item.Name)
		if !ok {
			result.Missing = append(result.Missing, item.Name)
			continue
		}

		profile, _ := cat.Profile(key)
		if profile.HighEnergy() {
			highEnergy = true
		}

		factor := item.Grams / 100
		contrib := Macro{
			Kcal:    profile.Kcal * factor,
			Protein: profile.Protein * factor,
			Carbs:   profile.Carbs * factor,
			Fat:     profile.Fat * factor,
		}
		if profile.Fiber != nil {
			contrib.Fiber = *profile.Fiber * factor
		}
		if profile.Sodium != nil {
			contrib.Sodium = *profile.Sodium * factor
		}

		acc.Kcal += contrib.Kcal
		acc.Protein += contrib.Protein
		acc.Carbs += contrib.Carbs
		acc.Fat += contrib.Fat
		acc.Fiber += contrib.Fiber
		acc.Sodium += contrib.Sodium
		result.GramsTotal += item.Grams

		result.Details = append(result.Details, Detail{
			Name:    item.Name,
			Key:     key,
			Grams:   item.Grams,
			Per100g: profile,
			Contrib: roundMacro(contrib),
		})
	}

	if result.GramsTotal == 0 {
		result.Flags = append(result.Flags, FlagGramsTotalZero)
		result.Totals = roundMacro(acc)
		return result
	}

	density := acc.Kcal / result.GramsTotal
	switch {
	case highEnergy && density < minDensityHighEnergy:
		result.Flags = append(result.Flags, FlagDensityLowHighKcal)
	case !highEnergy && density < minDensityGeneric:
		result.Flags = append(result.Flags, FlagDensityLowGeneric)
	}

	result.Totals = roundMacro(acc)
	result.PerGram = scaleMacro(acc, 1/result.GramsTotal)
	result.Per100g = scaleMacro(acc, 100/result.GramsTotal)

	return result
}

func roundMacro(m Macro) Macro {
	return Macro{
		Kcal:    math.Round(m.Kcal),
		Protein: round1(m.Protein),
		Carbs:   round1(m.Carbs),
		Fat:     round1(m.Fat),
		Fiber:   round1(m.Fiber),
		Sodium:  math.Round(m.Sodium),
	}
}

// scaleMacro produces the derived per-gram / per-100g ratios at 3 decimal
// precision for transparency output.
func scaleMacro(m Macro, factor float64) Macro {
	return Macro{
		Kcal:    round3(m.Kcal * factor),
		Protein: round3(m.Protein * factor),
		Carbs:   round3(m.Carbs * factor),
		Fat:     round3(m.Fat * factor),
		Fiber:   round3(m.Fiber * factor),
		Sodium:  round3(m.Sodium * factor),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
