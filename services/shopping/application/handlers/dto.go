package handlers

import (
	"context"
	"time"

	"github.com/ghuser/clickcollect/services/shopping/application/services"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

// ListEngine is the state engine as seen by the HTTP layer.
type ListEngine interface {
	CreateList(ctx context.Context, in services.CreateListInput) (*models.ShoppingList, error)
	SetItemStatus(ctx context.Context, listID, itemID, status string) (*models.ShoppingList, error)
	CompleteList(ctx context.Context, listID string) (*models.ShoppingList, error)
	OverrideStatus(ctx context.Context, listID, status, actor string) (*models.ShoppingList, error)
	GetList(ctx context.Context, listID string) (*models.ShoppingList, error)
	ListsForCustomer(ctx context.Context, customerID string, activeOnly bool) ([]*models.ShoppingList, error)
	ListsForEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]*models.ShoppingList, error)
	AllLists(ctx context.Context, activeOnly bool) ([]*models.ShoppingList, error)
}

// Catalog lists products.
type Catalog interface {
	Products(ctx context.Context) ([]models.Product, error)
}

// Bootstrapper prepares the store.
type Bootstrapper interface {
	Run(ctx context.Context) (*services.SetupResult, error)
}

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"shopping list not found"`
} // @name ErrorResponse

// ProductResponse is one catalog entry.
type ProductResponse struct {
	ID    string `json:"id"    example:"1"`
	Name  string `json:"name"  example:"Fresh Milk"`
	Image string `json:"image" example:"/images/milk.jpg"`
	Price string `json:"price" example:"1.50"`
} // @name ProductResponse

// ItemResponse is one line of a shopping list. Product carries the snapshot
// taken when the list was created, not the current catalog entry.
type ItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId" example:"1"`
	Product   ProductResponse `json:"product"`
	Quantity  int             `json:"quantity"  example:"2"`
	Status    string          `json:"status"    example:"pending"`
	UpdatedAt time.Time       `json:"updatedAt"`
} // @name ItemResponse

// SummaryResponse is the derived progress of a list.
type SummaryResponse struct {
	TotalQuantity  int    `json:"totalQuantity"  example:"5"`
	Pending        int    `json:"pending"        example:"1"`
	Collected      int    `json:"collected"      example:"1"`
	Unavailable    int    `json:"unavailable"    example:"0"`
	CanComplete    bool   `json:"canComplete"    example:"false"`
	EstimatedTotal string `json:"estimatedTotal" example:"3.00"`
} // @name SummaryResponse

// ListResponse is a shopping list with its items.
type ListResponse struct {
	ID                 string          `json:"id"`
	CustomerID         string          `json:"customerId"                   example:"1"`
	CustomerName       string          `json:"customerName"                 example:"John Customer"`
	AssignedEmployeeID string          `json:"assignedEmployeeId,omitempty" example:"2"`
	Status             string          `json:"status"                       example:"in_progress"`
	Items              []ItemResponse  `json:"items"`
	Summary            SummaryResponse `json:"summary"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
} // @name ListResponse

// CreatedResponse carries the id of a new resource.
type CreatedResponse struct {
	ID string `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
} // @name CreatedResponse

func toListResponse(l *models.ShoppingList) ListResponse {
	items := make([]ItemResponse, 0, len(l.Items))
	for _, it := range l.Items {
		items = append(items, ItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Product: ProductResponse{
				ID:    it.ProductID,
				Name:  it.ProductName,
				Image: it.ProductImage,
				Price: it.UnitPrice.StringFixed(2),
			},
			Quantity:  it.Quantity,
			Status:    it.Status.String(),
			UpdatedAt: it.UpdatedAt,
		})
	}
	s := l.Summary()
	return ListResponse{
		ID:                 l.ID,
		CustomerID:         l.CustomerID,
		CustomerName:       l.CustomerName,
		AssignedEmployeeID: l.AssignedEmployeeID,
		Status:             l.Status.String(),
		Items:              items,
		Summary: SummaryResponse{
			TotalQuantity:  s.TotalQuantity,
			Pending:        s.Pending,
			Collected:      s.Collected,
			Unavailable:    s.Unavailable,
			CanComplete:    s.CanComplete,
			EstimatedTotal: s.EstimatedTotal.StringFixed(2),
		},
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toListResponses(lists []*models.ShoppingList) []ListResponse {
	out := make([]ListResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, toListResponse(l))
	}
	return out
}
