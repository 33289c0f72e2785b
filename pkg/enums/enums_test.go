package enums

import "testing"

func TestParseDiscountType(t *testing.T) {
	tests := []struct {
		in      string
		want    DiscountType
		wantErr bool
	}{
		{in: "", want: DiscountTypeNone},
		{in: "percentage", want: DiscountTypePercentage},
		{in: " Fixed ", want: DiscountTypeFixed},
		{in: "bogus", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDiscountType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseDiscountType(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDiscountTypeIsTierType(t *testing.T) {
	if DiscountTypeNone.IsTierType() {
		t.Fatal("none must not be accepted on tiers")
	}
	if !DiscountTypePercentage.IsTierType() || !DiscountTypeFixed.IsTierType() {
		t.Fatal("percentage and fixed are tier types")
	}
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("SHIPPED")
	if err != nil || got != OrderStatusShipped {
		t.Fatalf("expected shipped, got %s err=%v", got, err)
	}
	if _, err := ParseOrderStatus("lost_in_space"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParseUpsellTrigger(t *testing.T) {
	got, err := ParseUpsellTrigger("")
	if err != nil || got != UpsellTriggerAll {
		t.Fatalf("expected default all, got %s err=%v", got, err)
	}
	if _, err := ParseUpsellTrigger("sometimes"); err == nil {
		t.Fatal("expected error for unknown trigger")
	}
}

func TestParseCartStatus(t *testing.T) {
	got, err := ParseCartStatus("recovered")
	if err != nil || got != CartStatusRecovered {
		t.Fatalf("expected recovered, got %s err=%v", got, err)
	}
	if _, err := ParseCartStatus("nope"); err == nil {
		t.Fatal("expected error for unknown cart status")
	}
}
