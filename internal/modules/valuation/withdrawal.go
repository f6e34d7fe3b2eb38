package valuation

import (
	"time"

	types "github.com/yungbote/fotherbys-backend/internal/domain"
)

const (
	// Withdrawing with less notice than this before the sale is charged.
	WithdrawalNoticeDays = 14
	WithdrawalFeeRate    = 0.05
)

// WithdrawalFee is charged only when the lot is in an auction fewer than
// WithdrawalNoticeDays calendar days away (including auctions already past).
func WithdrawalFee(estimateLow float64, auctionDate *time.Time, today time.Time) float64 {
	if auctionDate == nil {
		return 0
	}
	if types.DaysUntil(today, *auctionDate) < WithdrawalNoticeDays {
		return RoundCurrency(estimateLow * WithdrawalFeeRate)
	}
	return 0
}
