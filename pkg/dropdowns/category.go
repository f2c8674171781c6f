package dropdowns

import "fmt"

// Category identifies one of the option lists served by the dropdown sheet.
type Category string

const (
	CategoryAcceptanceVia Category = "acceptanceVia"
	CategoryPaymentMode   Category = "paymentMode"
	CategoryReasonStatus  Category = "reasonStatus"
	CategoryHoldReason    Category = "holdReason"
)

// Categories lists every category in column order.
func Categories() []Category {
	return []Category{
		CategoryAcceptanceVia,
		CategoryPaymentMode,
		CategoryReasonStatus,
		CategoryHoldReason,
	}
}

// Column returns the zero-based sheet column that holds the category.
func (c Category) Column() int {
	switch c {
	case CategoryAcceptanceVia:
		return 7
	case CategoryPaymentMode:
		return 8
	case CategoryReasonStatus:
		return 9
	case CategoryHoldReason:
		return 10
	default:
		return -1
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c.Column() >= 0
}

// ParseCategory maps a wire name onto a Category.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.Valid() {
		return "", fmt.Errorf("dropdowns: unknown category %q", raw)
	}
	return c, nil
}
