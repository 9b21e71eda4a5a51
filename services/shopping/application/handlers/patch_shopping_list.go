package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/clickcollect/pkg/errhttp"
	"github.com/ghuser/clickcollect/pkg/httpx"
	pkgvalidator "github.com/ghuser/clickcollect/pkg/validator"
	"github.com/ghuser/clickcollect/services/shopping/domain/models"
)

const (
	actionUpdateItemStatus = "updateItemStatus"
	actionUpdateStatus     = "updateStatus"
)

// PatchListRequest is the request body for PATCH /shopping-lists/{id}.
// updateItemStatus needs itemId; updateStatus only accepts "completed".
type PatchListRequest struct {
	Action string `json:"action" validate:"required,oneof=updateItemStatus updateStatus" example:"updateItemStatus"`
	ItemID string `json:"itemId" validate:"required_if=Action updateItemStatus,max=64"`
	Status string `json:"status" validate:"required,max=32"                               example:"collected"`
} // @name PatchListRequest

// PatchShoppingListHandler handles PATCH /shopping-lists/{id}.
type PatchShoppingListHandler struct {
	engine ListEngine
}

// NewPatchShoppingListHandler returns a PatchShoppingListHandler.
func NewPatchShoppingListHandler(engine ListEngine) *PatchShoppingListHandler {
	return &PatchShoppingListHandler{engine: engine}
}

// Execute adjudicates an item or applies the administrative status action.
//
//	@Summary		Update shopping list
//	@Description	updateItemStatus marks an item collected or unavailable; updateStatus with status=completed completes the list
//	@Tags			shopping-lists
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"List id"
//	@Param			request	body		PatchListRequest	true	"Update request"
//	@Success		200		{object}	ListResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		412		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/shopping-lists/{id} [patch]
func (h *PatchShoppingListHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[PatchListRequest](w, r)
	if !ok {
		return
	}
	listID := chi.URLParam(r, "id")

	var (
		list *models.ShoppingList
		err  error
	)
	switch req.Action {
	case actionUpdateItemStatus:
		list, err = h.engine.SetItemStatus(r.Context(), listID, req.ItemID, req.Status)
	case actionUpdateStatus:
		list, err = h.engine.OverrideStatus(r.Context(), listID, req.Status, r.RemoteAddr)
	}
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toListResponse(list))
}
