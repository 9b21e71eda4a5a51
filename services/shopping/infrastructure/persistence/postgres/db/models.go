package db

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type ShoppingList struct {
	ID                 string
	CustomerID         string
	CustomerName       string
	Status             string
	AssignedEmployeeID sql.NullString
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type ShoppingListItem struct {
	ID             string
	ShoppingListID string
	ProductID      string
	ProductName    string
	ProductImage   string
	UnitPrice      decimal.Decimal
	Quantity       int32
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ListItemRow is one row of a list joined with one of its items.
type ListItemRow struct {
	List ShoppingList
	Item ShoppingListItem
}

type Product struct {
	ID    string
	Name  string
	Image string
	Price decimal.Decimal
}

type User struct {
	ID   string
	Name string
	Role string
}
