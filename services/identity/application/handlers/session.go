package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/clickcollect/pkg/auth"
	"github.com/ghuser/clickcollect/pkg/errhttp"
	"github.com/ghuser/clickcollect/pkg/httpx"
	"github.com/ghuser/clickcollect/pkg/logger"
	pkgvalidator "github.com/ghuser/clickcollect/pkg/validator"
	"github.com/ghuser/clickcollect/services/shopping/domain"
)

// SelectIdentityRequest is the request body for POST /session.
type SelectIdentityRequest struct {
	Role   string `json:"role"   validate:"omitempty,oneof=customer employee" example:"customer"`
	UserID string `json:"userId" validate:"omitempty,opaqueid"                   example:"1"`
} // @name SelectIdentityRequest

// SessionHandler serves /session: selecting, reading and clearing the
// identity the caller acts as.
type SessionHandler struct {
	identities Identities
	store      sessions.Store
	log        logger.Logger
}

// NewSessionHandler returns a SessionHandler.
func NewSessionHandler(identities Identities, store sessions.Store, log logger.Logger) *SessionHandler {
	return &SessionHandler{identities: identities, store: store, log: log}
}

// Select picks a user and stores it in the session.
//
//	@Summary		Select identity
//	@Description	Acts as the given user, or as the first user of the given role. No credentials are checked.
//	@Tags			identity
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SelectIdentityRequest	true	"Identity selection"
//	@Success		200		{object}	UserResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/session [post]
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[SelectIdentityRequest](w, r)
	if !ok {
		return
	}

	u, err := h.identities.Select(r.Context(), req.Role, req.UserID)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	if err := auth.SelectIdentity(h.store, w, r, u.ID); err != nil {
		h.log.ErrorContext(r.Context(), "failed to save session", "error", err, "user_id", u.ID)
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(u))
}

// Current returns the selected user.
//
//	@Summary	Current identity
//	@Tags		identity
//	@Produce	json
//	@Success	200	{object}	UserResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/session [get]
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	id, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}

	u, err := h.identities.User(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: auth.ErrNoIdentity.Error()})
			return
		}
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(u))
}

// Clear forgets the selected identity.
//
//	@Summary	Clear identity
//	@Tags		identity
//	@Success	204
//	@Router		/session [delete]
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := auth.ClearIdentity(h.store, w, r); err != nil {
		h.log.WarnContext(r.Context(), "failed to clear session", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
