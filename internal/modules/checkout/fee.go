package checkout

import (
	"math"

	"github.com/georgemunganga/bakery-backend/internal/modules/order"
)

// Policy prices delivery: a flat fee below the free-delivery threshold.
type Policy struct {
	Fee       float64
	Threshold float64
}

// DefaultPolicy charges 5.00 for deliveries under 50.00.
func DefaultPolicy() Policy { return Policy{Fee: 5.00, Threshold: 50.00} }

// DeliveryFee is zero for pickup and for subtotals at or above the threshold.
func (p Policy) DeliveryFee(subtotal float64, f order.Fulfillment) float64 {
	if f == order.FulfillmentDelivery && subtotal < p.Threshold {
		return p.Fee
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
