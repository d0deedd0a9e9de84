package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/medlinkvn/dms-backend/api/middleware"
	"github.com/medlinkvn/dms-backend/pkg/enums"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
)

type actor struct {
	UserID  uuid.UUID
	Role    enums.UserRole
	HubCode string
}

// actorFromRequest pulls the authenticated identity out of the context. The
// auth middleware guarantees these values on protected routes.
func actorFromRequest(r *http.Request) (actor, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role")
	}
	return actor{
		UserID:  userID,
		Role:    role,
		HubCode: middleware.HubCodeFromContext(r.Context()),
	}, nil
}
