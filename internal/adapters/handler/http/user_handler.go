package http

import (
	"net/http"

	"github.com/pollwise/api/internal/adapters/identity"
	"github.com/pollwise/api/internal/core/domain"
	"github.com/pollwise/api/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ident := identity.FromContext(r.Context())
	if ident == nil {
		writeError(w, domain.ErrNotAuthenticated)
		return
	}

	user, err := h.service.GetByID(r.Context(), ident.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeFieldErrors(w, http.StatusNotFound, domain.RootErrors("User not found"))
		return
	}

	writeData(w, http.StatusOK, user)
}
