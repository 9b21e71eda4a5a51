package handlers

import (
	"net/http"

	"github.com/ghuser/clickcollect/pkg/errhttp"
	"github.com/ghuser/clickcollect/pkg/httpx"
)

// GetProductsHandler handles GET /products.
type GetProductsHandler struct {
	catalog Catalog
}

// NewGetProductsHandler returns a GetProductsHandler.
func NewGetProductsHandler(catalog Catalog) *GetProductsHandler {
	return &GetProductsHandler{catalog: catalog}
}

// Execute lists the catalog.
//
//	@Summary		List products
//	@Description	Returns the product catalog ordered by name
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{array}		ProductResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/products [get]
func (h *GetProductsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ProductResponse{ID: p.ID, Name: p.Name, Image: p.Image, Price: p.Price.StringFixed(2)})
	}
	httpx.JSON(w, http.StatusOK, out)
}
