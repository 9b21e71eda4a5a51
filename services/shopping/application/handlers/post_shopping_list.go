package handlers

import (
	"net/http"

	"github.com/ghuser/clickcollect/pkg/auth"
	"github.com/ghuser/clickcollect/pkg/errhttp"
	"github.com/ghuser/clickcollect/pkg/httpx"
	pkgvalidator "github.com/ghuser/clickcollect/pkg/validator"
	"github.com/ghuser/clickcollect/services/shopping/application/services"
)

// CreateListItemRequest is one requested product line.
type CreateListItemRequest struct {
	ProductID string `json:"productId" validate:"required,opaqueid" example:"1"`
	Quantity  int    `json:"quantity"  validate:"gt=0,lte=999"   example:"2"` // lte is models.MaxQuantity
} // @name CreateListItemRequest

// CreateListRequest is the request body for POST /shopping-lists.
// customerId falls back to the identity selected in the session.
type CreateListRequest struct {
	CustomerID         string                  `json:"customerId"         validate:"omitempty,opaqueid" example:"1"`
	CustomerName       string                  `json:"customerName"       validate:"omitempty,max=255" example:"John Customer"`
	Items              []CreateListItemRequest `json:"items"              validate:"required,min=1,dive"`
	AssignedEmployeeID string                  `json:"assignedEmployeeId" validate:"omitempty,opaqueid" example:"2"`
} // @name CreateListRequest

// PostShoppingListHandler handles POST /shopping-lists.
type PostShoppingListHandler struct {
	engine ListEngine
}

// NewPostShoppingListHandler returns a PostShoppingListHandler.
func NewPostShoppingListHandler(engine ListEngine) *PostShoppingListHandler {
	return &PostShoppingListHandler{engine: engine}
}

// Execute creates a list with all its items in pending state.
//
//	@Summary		Create shopping list
//	@Description	Creates a pending list; product data and prices are snapshotted from the catalog
//	@Tags			shopping-lists
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateListRequest	true	"List creation request"
//	@Success		201		{object}	CreatedResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/shopping-lists [post]
func (h *PostShoppingListHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateListRequest](w, r)
	if !ok {
		return
	}

	customerID := req.CustomerID
	if customerID == "" {
		id, err := auth.UserIDFromCtx(r.Context())
		if err != nil {
			httpx.JSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "customerId is required when no identity is selected"})
			return
		}
		customerID = id
	}

	items := make([]services.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, services.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	list, err := h.engine.CreateList(r.Context(), services.CreateListInput{
		CustomerID:         customerID,
		CustomerName:       req.CustomerName,
		Items:              items,
		AssignedEmployeeID: req.AssignedEmployeeID,
	})
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, CreatedResponse{ID: list.ID})
}
