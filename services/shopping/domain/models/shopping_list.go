package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/clickcollect/services/shopping/domain"
)

// MaxQuantity bounds the quantity of one item, after duplicate product lines
// are merged.
const MaxQuantity = 999

// ShoppingList is the aggregate root of the shopping context. Its item set is
// fixed at creation; status changes go through domain/services.
type ShoppingList struct {
	ID                 string
	CustomerID         string
	CustomerName       string
	AssignedEmployeeID string // empty when unassigned
	Status             ListStatus
	Items              []Item // creation order
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Item is one product line of a list. Product data is a snapshot taken at
// creation so a list keeps its historical prices when the catalog changes.
type Item struct {
	ID           string
	ListID       string
	ProductID    string
	ProductName  string
	ProductImage string
	UnitPrice    decimal.Decimal
	Quantity     int
	Status       ItemStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Line is a requested product and quantity resolved against the catalog.
type Line struct {
	Product  Product
	Quantity int
}

// NewShoppingList constructs a pending list with one pending item per line.
// IDs are generated here; every item shares the list's creation timestamp
// plus its index in microseconds so creation order survives a round trip.
func NewShoppingList(customerID, customerName, assignedEmployeeID string, lines []Line) (*ShoppingList, error) {
	customerID = strings.TrimSpace(customerID)
	customerName = strings.TrimSpace(customerName)
	if customerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", domain.ErrInvalidInput)
	}
	if customerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: a list needs at least one item", domain.ErrInvalidInput)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	list := &ShoppingList{
		ID:                 uuid.NewString(),
		CustomerID:         customerID,
		CustomerName:       customerName,
		AssignedEmployeeID: strings.TrimSpace(assignedEmployeeID),
		Status:             ListPending,
		Items:              make([]Item, 0, len(lines)),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	for i, ln := range lines {
		if ln.Product.ID == "" {
			return nil, fmt.Errorf("%w: item %d has no product", domain.ErrInvalidInput, i)
		}
		if ln.Quantity <= 0 || ln.Quantity > MaxQuantity {
			return nil, fmt.Errorf("%w: quantity for product %s must be between 1 and %d, got %d",
				domain.ErrInvalidInput, ln.Product.ID, MaxQuantity, ln.Quantity)
		}
		at := now.Add(time.Duration(i) * time.Microsecond)
		list.Items = append(list.Items, Item{
			ID:           uuid.NewString(),
			ListID:       list.ID,
			ProductID:    ln.Product.ID,
			ProductName:  ln.Product.Name,
			ProductImage: ln.Product.Image,
			UnitPrice:    ln.Product.Price,
			Quantity:     ln.Quantity,
			Status:       ItemPending,
			CreatedAt:    at,
			UpdatedAt:    at,
		})
	}

	return list, nil
}

// Item returns a pointer to the item with the given id, or nil.
func (l *ShoppingList) Item(id string) *Item {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return &l.Items[i]
		}
	}
	return nil
}

// PendingItems returns how many items have not been adjudicated.
func (l *ShoppingList) PendingItems() int {
	n := 0
	for _, it := range l.Items {
		if it.Status == ItemPending {
			n++
		}
	}
	return n
}

// Summary is a derived view of a list used by the presentation layer.
type Summary struct {
	TotalQuantity  int
	Pending        int
	Collected      int
	Unavailable    int
	CanComplete    bool
	EstimatedTotal decimal.Decimal // collected items only
}

// Summary computes counts and the estimated total of collected items.
func (l *ShoppingList) Summary() Summary {
	s := Summary{EstimatedTotal: decimal.Zero}
	for _, it := range l.Items {
		s.TotalQuantity += it.Quantity
		switch it.Status {
		case ItemPending:
			s.Pending++
		case ItemCollected:
			s.Collected++
			s.EstimatedTotal = s.EstimatedTotal.Add(it.LineTotal())
		case ItemUnavailable:
			s.Unavailable++
		}
	}
	s.CanComplete = !l.Status.IsTerminal() && s.Pending == 0 && len(l.Items) > 0
	return s
}

// LineTotal is unit price times quantity.
func (it Item) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
