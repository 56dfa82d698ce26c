package service

import (
	"github.com/shopspring/decimal"

	"parkbooking/internal/domain"
)

const bundleTrigger = 3

var (
	bundleDiscountRate = decimal.RequireFromString("0.10")
	taxRate            = decimal.RequireFromString("0.0825")
)

type CartTotals struct {
	RegularTotal    domain.Money
	DiscountedTotal domain.Money
	Tax             domain.Money
	TotalWithTax    domain.Money
	Items           []domain.CartItem
}

// ComputeTotals prices items as subtotal, then bundle discount, then tax.
// Each step rounds to two decimals before the next one runs.
func ComputeTotals(cart *domain.Cart) (CartTotals, error) {
	regular, err := cart.Total(regularTotal)
	if err != nil {
		return CartTotals{}, err
	}

	items := cart.Items()
	discounted, err := applyBundleDiscount(regular, len(items))
	if err != nil {
		return CartTotals{}, err
	}

	tax := discounted.Mul(taxRate)
	total, err := discounted.Add(tax)
	if err != nil {
		return CartTotals{}, err
	}

	return CartTotals{
		RegularTotal:    regular,
		DiscountedTotal: discounted,
		Tax:             tax,
		TotalWithTax:    total,
		Items:           items,
	}, nil
}

func regularTotal(items []domain.CartItem) (domain.Money, error) {
	if len(items) == 0 {
		return domain.ZeroMoney(domain.DefaultCurrency), nil
	}
	total := domain.ZeroMoney(items[0].UnitPrice.Currency())
	for _, item := range items {
		var err error
		total, err = total.Add(item.Subtotal())
		if err != nil {
			return domain.Money{}, err
		}
	}
	return total, nil
}

func applyBundleDiscount(regular domain.Money, itemCount int) (domain.Money, error) {
	if itemCount < bundleTrigger {
		return regular, nil
	}
	return regular.Sub(regular.Mul(bundleDiscountRate))
}
