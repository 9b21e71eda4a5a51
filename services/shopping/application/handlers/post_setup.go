package handlers

import (
	"errors"
	"net/http"

	"github.com/ghuser/clickcollect/pkg/database"
	"github.com/ghuser/clickcollect/pkg/errhttp"
	"github.com/ghuser/clickcollect/pkg/httpx"
)

// SetupResponse reports a successful bootstrap.
type SetupResponse struct {
	ServerVersion string `json:"serverVersion" example:"PostgreSQL 16.4"`
	FromVersion   int64  `json:"fromVersion"   example:"0"`
	ToVersion     int64  `json:"toVersion"     example:"2"`
} // @name SetupResponse

// SetupErrorResponse names which connectivity check failed.
type SetupErrorResponse struct {
	Error  string `json:"error"  example:"database unavailable"`
	Reason string `json:"reason" example:"connection_refused"`
} // @name SetupErrorResponse

// PostSetupHandler handles POST /setup.
type PostSetupHandler struct {
	setup Bootstrapper
}

// NewPostSetupHandler returns a PostSetupHandler.
func NewPostSetupHandler(setup Bootstrapper) *PostSetupHandler {
	return &PostSetupHandler{setup: setup}
}

// Execute bootstraps the schema and seed data. Safe to call repeatedly.
//
//	@Summary		Bootstrap store
//	@Description	Tests connectivity, then applies schema and seed migrations idempotently
//	@Tags			setup
//	@Produce		json
//	@Success		200	{object}	SetupResponse
//	@Failure		503	{object}	SetupErrorResponse
//	@Router			/setup [post]
func (h *PostSetupHandler) Execute(w http.ResponseWriter, r *http.Request) {
	res, err := h.setup.Run(r.Context())
	if err != nil {
		if reason := unavailableReason(err); reason != "" {
			httpx.JSON(w, http.StatusServiceUnavailable, SetupErrorResponse{Error: "database unavailable", Reason: reason})
			return
		}
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, SetupResponse{
		ServerVersion: res.ServerVersion,
		FromVersion:   res.FromVersion,
		ToVersion:     res.ToVersion,
	})
}

func unavailableReason(err error) string {
	switch {
	case errors.Is(err, database.ErrAuthFailed):
		return "authentication_failed"
	case errors.Is(err, database.ErrHostNotFound):
		return "host_not_found"
	case errors.Is(err, database.ErrConnRefused):
		return "connection_refused"
	case errors.Is(err, database.ErrUnavailable):
		return "unavailable"
	}
	return ""
}
