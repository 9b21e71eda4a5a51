package models

import "github.com/shopspring/decimal"

// Product is a catalog entry. Read-only from the list workflow's viewpoint.
type Product struct {
	ID    string
	Name  string
	Image string
	Price decimal.Decimal
}
