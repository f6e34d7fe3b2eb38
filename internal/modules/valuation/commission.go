package valuation

import (
	"math"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
)

const (
	DefaultBuyersPremiumRate     = 0.10
	DefaultSellersCommissionRate = 0.10
)

type Rates struct {
	BuyersPremium     float64
	SellersCommission float64
}

func DefaultRates() Rates {
	return Rates{BuyersPremium: DefaultBuyersPremiumRate, SellersCommission: DefaultSellersCommissionRate}
}

// Settlement is the buyer/seller split of a hammer price.
type Settlement struct {
	HammerPrice           float64 `json:"hammer_price"`
	BuyersPremiumRate     float64 `json:"buyers_premium_rate"`
	BuyersPremium         float64 `json:"buyers_premium"`
	TotalBuyerPays        float64 `json:"total_buyer_pays"`
	SellersCommissionRate float64 `json:"sellers_commission_rate"`
	SellersCommission     float64 `json:"sellers_commission"`
	TotalSellerReceives   float64 `json:"total_seller_receives"`
}

// RoundCurrency rounds half away from zero to whole pence.
func RoundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}

func validRate(r float64) bool {
	return !math.IsNaN(r) && r >= 0 && r <= 1
}

// CalculateCommission has no side effects. The only rejected inputs are a non-positive
// hammer price and rates outside [0, 1].
func CalculateCommission(hammerPrice float64, rates Rates) (Settlement, error) {
	const op = "valuation.commission"
	if math.IsNaN(hammerPrice) || math.IsInf(hammerPrice, 0) || hammerPrice <= 0 {
		return Settlement{}, types.InvalidArgument(op, "hammer_price must be greater than zero")
	}
	if !validRate(rates.BuyersPremium) {
		return Settlement{}, types.InvalidArgument(op, "buyers_premium_rate must be between 0 and 1")
	}
	if !validRate(rates.SellersCommission) {
		return Settlement{}, types.InvalidArgument(op, "sellers_commission_rate must be between 0 and 1")
	}

	premium := RoundCurrency(hammerPrice * rates.BuyersPremium)
	commission := RoundCurrency(hammerPrice * rates.SellersCommission)
	return Settlement{
		HammerPrice:           hammerPrice,
		BuyersPremiumRate:     rates.BuyersPremium,
		BuyersPremium:         premium,
		TotalBuyerPays:        RoundCurrency(hammerPrice + premium),
		SellersCommissionRate: rates.SellersCommission,
		SellersCommission:     commission,
		TotalSellerReceives:   RoundCurrency(hammerPrice - commission),
	}, nil
}
