// Package money holds the pure deposit/tip/fee arithmetic. Everything is
// integer minor-currency units (cents); this package is the only place that
// parses human-entered amounts.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"holdmytime/internal/domain"
)

var (
	ErrAmountBelowDeposit = errors.New("amount is below the required deposit")
	ErrAmountAbovePrice   = errors.New("amount exceeds the service price")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDeposit     = errors.New("invalid deposit configuration")
)

const CentsPerDollar = 100

// DepositTiersCents are the allowed fixed-deposit amounts.
var DepositTiersCents = []int64{2500, 5000, 7500, 10000}

// DepositPercentages are the allowed percentage choices.
var DepositPercentages = []int64{25, 50, 75, 100}

// ValidFixedTier reports whether cents is one of the allowed fixed deposits.
func ValidFixedTier(cents int64) bool {
	for _, t := range DepositTiersCents {
		if t == cents {
			return true
		}
	}
	return false
}

// ValidPercentage reports whether pct is one of the allowed deposit
// percentages.
func ValidPercentage(pct int64) bool {
	for _, p := range DepositPercentages {
		if p == pct {
			return true
		}
	}
	return false
}

// ComputeDeposit derives the minimum payable deposit and the effective
// service price from the business's deposit configuration. For fixed deposits
// without an explicit service price, the deposit doubles as the price.
func ComputeDeposit(b *domain.Business) (depositCents, servicePriceCents int64, err error) {
	switch b.DepositType {
	case domain.DepositPercentage:
		if !ValidPercentage(b.DepositPercentage) {
			return 0, 0, fmt.Errorf("%w: percentage %d", ErrInvalidDeposit, b.DepositPercentage)
		}
		if b.ServicePriceCents <= 0 {
			return 0, 0, fmt.Errorf("%w: percentage deposit requires a service price", ErrInvalidDeposit)
		}
		return roundPercent(b.ServicePriceCents, b.DepositPercentage), b.ServicePriceCents, nil

	case domain.DepositFixed:
		if !ValidFixedTier(b.DepositCents) {
			return 0, 0, fmt.Errorf("%w: fixed deposit %d", ErrInvalidDeposit, b.DepositCents)
		}
		price := b.ServicePriceCents
		if price <= 0 {
			price = b.DepositCents
		}
		if b.DepositCents > price {
			return 0, 0, fmt.Errorf("%w: deposit exceeds service price", ErrInvalidDeposit)
		}
		return b.DepositCents, price, nil

	default:
		return 0, 0, fmt.Errorf("%w: unknown deposit type %q", ErrInvalidDeposit, b.DepositType)
	}
}

// ResolvePaymentAmount validates the customer-chosen payment against the
// deposit floor and price ceiling. A zero request means "pay the deposit".
func ResolvePaymentAmount(depositCents, servicePriceCents, requestedCents int64) (int64, error) {
	if requestedCents == 0 {
		return depositCents, nil
	}
	if requestedCents < depositCents {
		return 0, ErrAmountBelowDeposit
	}
	if requestedCents > servicePriceCents {
		return 0, ErrAmountAbovePrice
	}
	return requestedCents, nil
}

// ComputeTip resolves a tip from either a percentage of the service price or
// a custom amount. Custom wins when both are supplied. Tips never go
// negative and are excluded from the platform-fee base.
func ComputeTip(servicePriceCents, tipPercent, customTipCents int64) (int64, error) {
	if customTipCents < 0 || tipPercent < 0 {
		return 0, ErrInvalidAmount
	}
	if customTipCents > 0 {
		return customTipCents, nil
	}
	if tipPercent > 0 {
		return roundPercent(servicePriceCents, tipPercent), nil
	}
	return 0, nil
}

// ParseAmount normalizes a human-entered amount into cents. Plain integers
// are dollars, not cents. Accepts a leading dollar sign and up to two decimal
// places: "$25", "25", "25.5", "25.50".
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, ErrInvalidAmount
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || dollars < 0 {
		return 0, ErrInvalidAmount
	}

	cents := dollars * CentsPerDollar
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, ErrInvalidAmount
		}
		if len(frac) == 1 {
			frac += "0"
		}
		f, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		cents += f
	}
	return cents, nil
}

// roundPercent computes cents*pct/100 rounded half away from zero.
func roundPercent(cents, pct int64) int64 {
	return (cents*pct + 50) / 100
}
