package cart

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/medlinkvn/dms-backend/pkg/types"
)

// Rule is one threshold discount: a subtotal strictly above ThresholdVND
// earns Percent off.
type Rule struct {
	Description  string
	ThresholdVND int64
	Percent      float64
}

// PromotionResult is the outcome of evaluating the active rules against a
// cart subtotal. At most one promotion applies.
type PromotionResult struct {
	Promotions  types.Promotions
	DiscountVND int64
}

// EvaluatePromotions applies the single best rule the subtotal strictly
// exceeds. Rules never stack; when several qualify the highest threshold
// wins. The discount is rounded half up to a whole dong.
func EvaluatePromotions(subtotalVND int64, rules []Rule) PromotionResult {
	if subtotalVND <= 0 || len(rules) == 0 {
		return PromotionResult{}
	}

	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ThresholdVND > sorted[j].ThresholdVND
	})

	for _, rule := range sorted {
		if subtotalVND <= rule.ThresholdVND || rule.Percent <= 0 {
			continue
		}
		discount := decimal.NewFromInt(subtotalVND).
			Mul(decimal.NewFromFloat(rule.Percent)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
		if discount > subtotalVND {
			discount = subtotalVND
		}
		return PromotionResult{
			Promotions: types.Promotions{{
				Description: rule.Description,
				Percent:     rule.Percent,
			}},
			DiscountVND: discount,
		}
	}
	return PromotionResult{}
}
