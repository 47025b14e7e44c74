package balance

import (
	"errors"
	"fmt"

	container_model "freight-forward/models/container"
	partner_model "freight-forward/models/partner"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContainerBalance computes the derived balance: bookingCharge minus
// advancePayment.
func ContainerBalance(bookingCharge, advancePayment decimal.Decimal) decimal.Decimal {
	return bookingCharge.Sub(advancePayment)
}

// ResolveContainerUpdate builds the update map for a partial container
// update. When either charge input is present in the payload, the stored
// value of the absent one completes the pair and the balance is recomputed
// in the same update. When neither is present, nil is returned and the
// balance stays untouched.
func ResolveContainerUpdate(stored *container_model.Container, bookingCharge, advancePayment *decimal.Decimal) map[string]interface{} {
	if bookingCharge == nil && advancePayment == nil {
		return nil
	}

	effectiveCharge := stored.BookingCharge
	if bookingCharge != nil {
		effectiveCharge = *bookingCharge
	}
	effectiveAdvance := stored.AdvancePayment
	if advancePayment != nil {
		effectiveAdvance = *advancePayment
	}

	updates := map[string]interface{}{
		"balance_amount": ContainerBalance(effectiveCharge, effectiveAdvance),
	}
	if bookingCharge != nil {
		updates["booking_charge"] = *bookingCharge
	}
	if advancePayment != nil {
		updates["advance_payment"] = *advancePayment
	}
	return updates
}

// PriceListingTotal computes amount plus the selected delivery partner's
// price. The partner's price is looked up fresh on every call; existing
// listings do not follow later partner price changes until re-edited.
func PriceListingTotal(db *gorm.DB, amount decimal.Decimal, deliveryPartnerID *uint) (decimal.Decimal, error) {
	if deliveryPartnerID == nil {
		return amount, nil
	}

	var p partner_model.Partner
	if err := db.First(&p, *deliveryPartnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("delivery partner %d not found", *deliveryPartnerID)
		}
		return decimal.Zero, err
	}
	if p.PartnerType != partner_model.PartnerTypeDelivery {
		return decimal.Zero, fmt.Errorf("partner %d is not a delivery partner", *deliveryPartnerID)
	}

	return amount.Add(p.Price), nil
}
