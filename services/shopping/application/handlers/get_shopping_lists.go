package handlers

import (
	"net/http"
	"strconv"

	"github.com/ghuser/clickcollect/pkg/errhttp"
	"github.com/ghuser/clickcollect/pkg/httpx"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

// GetShoppingListsHandler handles GET /shopping-lists.
type GetShoppingListsHandler struct {
	engine ListEngine
}

// NewGetShoppingListsHandler returns a GetShoppingListsHandler.
func NewGetShoppingListsHandler(engine ListEngine) *GetShoppingListsHandler {
	return &GetShoppingListsHandler{engine: engine}
}

// Execute lists shopping lists for a customer, for an employee or for the
// whole store, most recent first.
//
//	@Summary		List shopping lists
//	@Description	customerId selects a customer's lists, employeeId an employee's queue; neither returns every list
//	@Tags			shopping-lists
//	@Produce		json
//	@Param			customerId	query		string	false	"Customer id"
//	@Param			employeeId	query		string	false	"Employee id"
//	@Param			active		query		bool	false	"Exclude completed lists"
//	@Success		200			{array}		ListResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/shopping-lists [get]
func (h *GetShoppingListsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	active := false
	if v := q.Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "active must be a boolean"})
			return
		}
		active = b
	}

	var (
		lists []*models.ShoppingList
		err   error
	)
	switch {
	case q.Get("customerId") != "":
		lists, err = h.engine.ListsForCustomer(r.Context(), q.Get("customerId"), active)
	case q.Get("employeeId") != "":
		lists, err = h.engine.ListsForEmployee(r.Context(), q.Get("employeeId"), active)
	default:
		lists, err = h.engine.AllLists(r.Context(), active)
	}
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toListResponses(lists))
}
