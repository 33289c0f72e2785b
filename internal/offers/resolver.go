package offers

import (
	"sort"

	"github.com/angelmondragon/minishop-backend/pkg/db/models"
)

// ResolveOffer picks the offer that applies to productID: highest priority
// first, newest first on ties. Inactive offers never match. The input slice is
// not reordered.
func ResolveOffer(offers []models.QuantityOffer, productID string) *models.QuantityOffer {
	ordered := make([]*models.QuantityOffer, 0, len(offers))
	for i := range offers {
		if offers[i].IsActive {
			ordered = append(ordered, &offers[i])
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})
	for _, offer := range ordered {
		if offer.ProductIDs.Contains(productID) {
			return offer
		}
	}
	return nil
}

// ResolveTier returns the tier with the largest threshold not above quantity.
// Equal thresholds fall back to the lower position.
func ResolveTier(offer *models.QuantityOffer, quantity int) *models.QuantityOfferTier {
	if offer == nil || quantity < 1 {
		return nil
	}
	tiers := make([]*models.QuantityOfferTier, 0, len(offer.Tiers))
	for i := range offer.Tiers {
		tiers = append(tiers, &offer.Tiers[i])
	}
	sort.SliceStable(tiers, func(i, j int) bool {
		if tiers[i].Quantity != tiers[j].Quantity {
			return tiers[i].Quantity > tiers[j].Quantity
		}
		return tiers[i].Position < tiers[j].Position
	})
	for _, tier := range tiers {
		if tier.Quantity <= quantity {
			return tier
		}
	}
	return nil
}
