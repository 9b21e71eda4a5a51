package handlers

import (
	"net/http"

	"github.com/ghuser/clickcollect/pkg/errhttp"
	"github.com/ghuser/clickcollect/pkg/httpx"
)

// GetUsersHandler handles GET /users.
type GetUsersHandler struct {
	identities Identities
}

// NewGetUsersHandler returns a GetUsersHandler.
func NewGetUsersHandler(identities Identities) *GetUsersHandler {
	return &GetUsersHandler{identities: identities}
}

// Execute returns the users of a role as an array, or one user by id as an
// object.
//
//	@Summary	List users
//	@Tags		identity
//	@Produce	json
//	@Param		role	query		string	false	"customer or employee"
//	@Param		id		query		string	false	"User id"
//	@Success	200		{array}		UserResponse	"Users of the role, or a single UserResponse object when id is given"
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/users [get]
func (h *GetUsersHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	switch {
	case q.Get("id") != "":
		u, err := h.identities.User(r.Context(), q.Get("id"))
		if err != nil {
			errhttp.WriteError(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusOK, toUserResponse(u))
	case q.Get("role") != "":
		users, err := h.identities.UsersByRole(r.Context(), q.Get("role"))
		if err != nil {
			errhttp.WriteError(w, r, err)
			return
		}
		out := make([]UserResponse, 0, len(users))
		for _, u := range users {
			out = append(out, toUserResponse(u))
		}
		httpx.JSON(w, http.StatusOK, out)
	default:
		httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: "role or id query parameter is required"})
	}
}
