package model

import "github.com/shopspring/decimal"

func init() {
	// The SPA reads prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Service{},
		&Slot{},
		&Booking{},
		&Review{},
	}
}
