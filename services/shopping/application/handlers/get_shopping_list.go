package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/clickcollect/pkg/errhttp"
	"github.com/ghuser/clickcollect/pkg/httpx"
)

// GetShoppingListHandler handles GET /shopping-lists/{id}.
type GetShoppingListHandler struct {
	engine ListEngine
}

// NewGetShoppingListHandler returns a GetShoppingListHandler.
func NewGetShoppingListHandler(engine ListEngine) *GetShoppingListHandler {
	return &GetShoppingListHandler{engine: engine}
}

// Execute returns one list.
//
//	@Summary	Get shopping list
//	@Tags		shopping-lists
//	@Produce	json
//	@Param		id	path		string	true	"List id"
//	@Success	200	{object}	ListResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/shopping-lists/{id} [get]
func (h *GetShoppingListHandler) Execute(w http.ResponseWriter, r *http.Request) {
	list, err := h.engine.GetList(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toListResponse(list))
}
