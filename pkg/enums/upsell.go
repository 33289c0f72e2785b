package enums

import "fmt"

// UpsellTrigger decides which purchased products surface an upsell.
type UpsellTrigger string

const (
	UpsellTriggerAll      UpsellTrigger = "all"
	UpsellTriggerSpecific UpsellTrigger = "specific"
)

// IsValid reports whether the value is a known UpsellTrigger.
func (t UpsellTrigger) IsValid() bool {
	return t == UpsellTriggerAll || t == UpsellTriggerSpecific
}

// ParseUpsellTrigger converts raw input into an UpsellTrigger. Empty input maps to all.
func ParseUpsellTrigger(value string) (UpsellTrigger, error) {
	if value == "" {
		return UpsellTriggerAll, nil
	}
	t := UpsellTrigger(value)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid upsell trigger %q", value)
	}
	return t, nil
}

// UpsellType is the placement of the upsell offer in the storefront flow.
type UpsellType string

const (
	UpsellTypePostPurchase UpsellType = "post_purchase"
	UpsellTypeOneClick     UpsellType = "one_click"
)

// IsValid reports whether the value is a known UpsellType.
func (t UpsellType) IsValid() bool {
	return t == UpsellTypePostPurchase || t == UpsellTypeOneClick
}
