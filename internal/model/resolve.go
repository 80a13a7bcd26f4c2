package model

import "github.com/shopspring/decimal"

// Fallback field resolution.
//
// Orders reach the dashboard from several POS generations that filled
// different fields for the same fact. The chains below are the single place
// those fallbacks are written down; everything else (filter engine, metrics,
// handlers) goes through these accessors. Each chain returns the first
// defined value, in order.

// UnknownSection labels orders whose section cannot be resolved.
const UnknownSection = "Unknown"

// ResolvedItems returns the order's line items. Older orders that carried no
// items resolve to an empty slice, never nil dereferences downstream.
func (o *Order) ResolvedItems() []OrderItem {
	return o.Items
}

// PieceCount sums the line-item quantities.
func (o *Order) PieceCount() int {
	total := 0
	for _, item := range o.ResolvedItems() {
		total += item.Quantity
	}
	return total
}

// ResolvedSection resolves the order's section label: order-level Section,
// Category, ServiceType, then the first item's Section, then "Unknown".
func (o *Order) ResolvedSection() string {
	for _, s := range []string{o.Section, o.Category, o.ServiceType} {
		if s != "" {
			return s
		}
	}
	if items := o.ResolvedItems(); len(items) > 0 && items[0].Section != "" {
		return items[0].Section
	}
	return UnknownSection
}

// ResolvedPriceList resolves the price-list name, defaulting to
// "Default Price List" for orders created before price lists existed.
func (o *Order) ResolvedPriceList() string {
	if o.PriceList != "" {
		return o.PriceList
	}
	return DefaultPriceListName
}

// ResolvedTotal is the order's value: TotalAmount, else Total, else zero.
func (o *Order) ResolvedTotal() decimal.Decimal {
	return firstDecimal(o.TotalAmount, o.Total)
}

// ResolvedPaid is the amount settled so far: PaidAmount, else Paid, else zero.
func (o *Order) ResolvedPaid() decimal.Decimal {
	return firstDecimal(o.PaidAmount, o.Paid)
}

// ResolvedDue is the outstanding balance: the explicit DueAmount when the
// order carries one, otherwise max(0, total - paid). Never negative.
func (o *Order) ResolvedDue() decimal.Decimal {
	if o.DueAmount != nil {
		return *o.DueAmount
	}
	due := o.ResolvedTotal().Sub(o.ResolvedPaid())
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

func firstDecimal(candidates ...*decimal.Decimal) decimal.Decimal {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return decimal.Zero
}
