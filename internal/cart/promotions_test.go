package cart

import "testing"

var thresholdRule = Rule{
	Description:  "Giam 2% cho don hang tren 5 trieu",
	ThresholdVND: 5_000_000,
	Percent:      2,
}

func TestEvaluatePromotionsAtThresholdDoesNotApply(t *testing.T) {
	result := EvaluatePromotions(5_000_000, []Rule{thresholdRule})
	if len(result.Promotions) != 0 {
		t.Fatalf("subtotal equal to threshold must not qualify, got %+v", result.Promotions)
	}
	if result.DiscountVND != 0 {
		t.Fatalf("expected zero discount, got %d", result.DiscountVND)
	}
}

func TestEvaluatePromotionsJustAboveThreshold(t *testing.T) {
	result := EvaluatePromotions(5_000_001, []Rule{thresholdRule})
	if len(result.Promotions) != 1 {
		t.Fatalf("expected exactly one promotion, got %d", len(result.Promotions))
	}
	if result.Promotions[0].Percent != 2 {
		t.Fatalf("expected 2 percent, got %v", result.Promotions[0].Percent)
	}
	// 2% of 5,000,001 is 100,000.02 VND; rounds half up to a whole dong.
	if result.DiscountVND != 100_000 {
		t.Fatalf("expected discount 100000, got %d", result.DiscountVND)
	}
}

func TestEvaluatePromotionsRoundsHalfUp(t *testing.T) {
	// 2% of 5,000,025 is 100,000.50 and must round up.
	result := EvaluatePromotions(5_000_025, []Rule{thresholdRule})
	if result.DiscountVND != 100_001 {
		t.Fatalf("expected discount 100001, got %d", result.DiscountVND)
	}
}

func TestEvaluatePromotionsNeverStacks(t *testing.T) {
	rules := []Rule{
		thresholdRule,
		{Description: "Giam 5% cho don hang tren 10 trieu", ThresholdVND: 10_000_000, Percent: 5},
	}
	result := EvaluatePromotions(12_000_000, rules)
	if len(result.Promotions) != 1 {
		t.Fatalf("expected a single promotion entry, got %d", len(result.Promotions))
	}
	if result.Promotions[0].Percent != 5 {
		t.Fatalf("highest qualifying threshold must win, got %v", result.Promotions[0].Percent)
	}
	if result.DiscountVND != 600_000 {
		t.Fatalf("expected discount 600000, got %d", result.DiscountVND)
	}
}

func TestEvaluatePromotionsEmptyInputs(t *testing.T) {
	if got := EvaluatePromotions(0, []Rule{thresholdRule}); got.DiscountVND != 0 || len(got.Promotions) != 0 {
		t.Fatalf("zero subtotal must not discount, got %+v", got)
	}
	if got := EvaluatePromotions(9_000_000, nil); got.DiscountVND != 0 || len(got.Promotions) != 0 {
		t.Fatalf("no rules must mean no discount, got %+v", got)
	}
}
