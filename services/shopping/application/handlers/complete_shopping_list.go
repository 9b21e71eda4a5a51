package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/clickcollect/pkg/errhttp"
	"github.com/ghuser/clickcollect/pkg/httpx"
)

// CompleteShoppingListHandler handles POST /shopping-lists/{id}/complete.
type CompleteShoppingListHandler struct {
	engine ListEngine
}

// NewCompleteShoppingListHandler returns a CompleteShoppingListHandler.
func NewCompleteShoppingListHandler(engine ListEngine) *CompleteShoppingListHandler {
	return &CompleteShoppingListHandler{engine: engine}
}

// Execute completes a list whose items are all collected or unavailable.
//
//	@Summary	Complete shopping list
//	@Tags		shopping-lists
//	@Produce	json
//	@Param		id	path		string	true	"List id"
//	@Success	200	{object}	ListResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Failure	412	{object}	ErrorResponse
//	@Router		/shopping-lists/{id}/complete [post]
func (h *CompleteShoppingListHandler) Execute(w http.ResponseWriter, r *http.Request) {
	list, err := h.engine.CompleteList(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toListResponse(list))
}
