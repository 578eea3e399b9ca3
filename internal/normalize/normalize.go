// Package normalize canonicalizes and deduplicates detected food candidates.
// Raw model output is noisy: the same dish appears under colloquial variants,
// liquids arrive untagged, and duplicate entries inflate totals. The
// normalizer folds names, resolves them against the nutrient catalog, splits
// solids from liquids, and merges duplicates under one canonical key.
package normalize

import (
	"strings"

	"github.com/vidaleve/sofia/internal/detect"
	"github.com/vidaleve/sofia/internal/foods"
)

// liquidMarkers classify an item as liquid when its folded name contains one
// of them. Matching is substring-based so "suco de laranja natural" and
// "copo de suco" both classify.
var liquidMarkers = []string{
	"suco",
	"agua",
	"cafe",
	"leite",
	"cha",
	"refrigerante",
	"vitamina",
	"bebida",
	"cerveja",
	"vinho",
	"iogurte liquido",
	"smoothie",
	"caldo",
	"sopa",
}

// Item is a normalized food entry ready for nutrition calculation. Key is
// empty when the name did not resolve against the catalog; such items carry
// no nutrition contribution and surface in the response as missing.
type Item struct {
	Input       string  `json:"input"`
	Name        string  `json:"name"`
	Key         string  `json:"key,omitempty"`
	Grams       float64 `json:"grams"`
	Milliliters float64 `json:"milliliters"`
	Liquid      bool    `json:"liquid"`
	Preparation string  `json:"preparation,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// Resolved reports whether the item matched a catalog entry.
func (i *Item) Resolved() bool {
	return i.Key != ""
}

// Normalizer resolves candidate names against a nutrient catalog.
type Normalizer struct {
	catalog *foods.Catalog
}

func New(catalog *foods.Catalog) *Normalizer {
	return &Normalizer{catalog: catalog}
}

// Liquid reports whether a raw name classifies as a liquid by marker
// substring. Classification is accent and case insensitive.
func Liquid(name string) bool {
	folded := foods.Fold(name)
	for _, marker := range liquidMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

// Normalize canonicalizes candidates and merges duplicates. Items resolving
// to the same catalog key merge into one entry with summed quantities and the
// highest confidence. Unresolved items are kept distinct by folded name and
// never merged on partial matches. The operation is idempotent: normalizing
// an already normalized list changes nothing.
func (n *Normalizer) Normalize(candidates []detect.Candidate) []Item {
	items := make([]Item, 0, len(candidates))
	index := map[string]int{}

	for _, c := range candidates {
		item := n.resolve(c)

		mergeKey := item.Key
		if mergeKey == "" {
			mergeKey = "?" + foods.Fold(item.Input)
		}

		if i, ok := index[mergeKey]; ok {
			merge(&items[i], item)
			continue
		}

		index[mergeKey] = len(items)
		items = append(items, item)
	}

	return items
}

func (n *Normalizer) resolve(c detect.Candidate) Item {
	item := Item{
		Input:       c.Name,
		Name:        c.Name,
		Preparation: c.Preparation,
		Confidence:  c.Confidence,
		Liquid:      c.Liquid() || Liquid(c.Name),
	}

	// A liquid carries its quantity in milliliters and a solid in grams,
	// whichever unit the strategy reported it under.
	var qty float64
	if c.Grams != nil {
		qty = *c.Grams
	}
	if c.Milliliters != nil && *c.Milliliters > qty {
		qty = *c.Milliliters
	}
	if item.Liquid {
		item.Milliliters = qty
	} else {
		item.Grams = qty
	}

	if key, ok := n.catalog.Resolve(c.Name); ok {
		item.Key = key
		item.Name = strings.ReplaceAll(key, "_", " ")
	}

	return item
}

// merge folds a duplicate into an existing item. Quantities sum so two
// servings of the same food total correctly; confidence keeps the maximum.
func merge(dst *Item, src Item) {
	dst.Grams += src.Grams
	dst.Milliliters += src.Milliliters
	if src.Confidence > dst.Confidence {
		dst.Confidence = src.Confidence
	}
	if dst.Preparation == "" {
		dst.Preparation = src.Preparation
	}
	dst.Liquid = dst.Liquid || src.Liquid
}
