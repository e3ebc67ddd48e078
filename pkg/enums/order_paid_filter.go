package enums

import "fmt"

// OrderPaidFilter narrows admin order listings by payment flag.
type OrderPaidFilter string

const (
	OrderPaidFilterAll    OrderPaidFilter = "all"
	OrderPaidFilterPaid   OrderPaidFilter = "paid"
	OrderPaidFilterUnpaid OrderPaidFilter = "unpaid"
)

var validOrderPaidFilters = []OrderPaidFilter{
	OrderPaidFilterAll,
	OrderPaidFilterPaid,
	OrderPaidFilterUnpaid,
}

// String implements fmt.Stringer.
func (o OrderPaidFilter) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderPaidFilter.
func (o OrderPaidFilter) IsValid() bool {
	for _, candidate := range validOrderPaidFilters {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderPaidFilter converts raw input into an OrderPaidFilter. Blank input
// means all orders.
func ParseOrderPaidFilter(value string) (OrderPaidFilter, error) {
	if value == "" {
		return OrderPaidFilterAll, nil
	}
	for _, candidate := range validOrderPaidFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid paid filter %q", value)
}
