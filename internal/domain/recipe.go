package domain

import "strings"

// Block types. A block is one service act within a visit: a plain service,
// a color/chemical service with ratio math, or a retail take-home sale.
const (
	BlockSimple = "simple"
	BlockColor  = "color"
	BlockRetail = "retail"
)

// Mixing ratios for color blocks; the right-hand side multiplies the summed
// color amount to derive the developer amount.
const (
	Ratio1to1  = "1:1"
	Ratio1to15 = "1:1.5"
	Ratio1to2  = "1:2"
)

// BlockItem is one product line inside a block. Amount is in the product's
// base unit for simple/color blocks and in ks for retail blocks. Name and
// unit are display snapshots taken at allocation time.
type BlockItem struct {
	ProductID string  `json:"productId"`
	Amount    float64 `json:"amount"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
}

// RecipeBlock is a tagged union over Type: Ratio and DeveloperID are only
// meaningful for color blocks.
type RecipeBlock struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Name        string      `json:"name"`
	Items       []BlockItem `json:"items"`
	Ratio       string      `json:"ratio,omitempty"`
	DeveloperID string      `json:"developerId,omitempty"`
	Notes       string      `json:"notes,omitempty"`
}

// RatioMultiplier maps a mixing ratio to its developer multiplier.
// Unknown ratios fall back to 1:1.
func RatioMultiplier(ratio string) float64 {
	switch ratio {
	case Ratio1to15:
		return 1.5
	case Ratio1to2:
		return 2
	}
	return 1
}

// DeveloperAmount derives the oxidant consumption of a color block from its
// manual items and mixing ratio. Never entered manually. Zero for non-color
// blocks and for color blocks without a developer.
func (b RecipeBlock) DeveloperAmount() float64 {
	if b.Type != BlockColor || b.DeveloperID == "" {
		return 0
	}
	var total float64
	for _, it := range b.Items {
		total += it.Amount
	}
	return total * RatioMultiplier(b.Ratio)
}

// ItemAmount returns the declared amount of productID among the manual
// items, and whether such an item exists.
func (b RecipeBlock) ItemAmount(productID string) (float64, bool) {
	for _, it := range b.Items {
		if it.ProductID == productID {
			return it.Amount, true
		}
	}
	return 0, false
}

// Empty reports a block with neither a name nor any items; such blocks fail
// visit validation.
func (b RecipeBlock) Empty() bool {
	return strings.TrimSpace(b.Name) == "" && len(b.Items) == 0
}
