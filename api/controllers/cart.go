package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medlinkvn/dms-backend/api/responses"
	"github.com/medlinkvn/dms-backend/api/validators"
	"github.com/medlinkvn/dms-backend/internal/orders"
	"github.com/medlinkvn/dms-backend/pkg/enums"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
	"github.com/medlinkvn/dms-backend/pkg/logger"
)

// CartGet returns the rep's priced cart for one customer.
func CartGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, customerID, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.GetCart(r.Context(), act.UserID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type updateQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Field     string    `json:"field" validate:"required,oneof=case each"`
	Value     string    `json:"value"`
}

// CartUpdateQuantity applies one field edit. Value is the raw input from the
// quantity box: empty clears the field, digits set it.
func CartUpdateQuantity(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, customerID, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		field, err := enums.ParseQuantityField(payload.Field)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quantity field"))
			return
		}

		view, err := svc.UpdateQuantity(r.Context(), act.UserID, customerID, payload.ProductID, field, payload.Value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartClear discards the session cart.
func CartClear(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, customerID, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ClearCart(r.Context(), act.UserID, customerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

func cartScope(r *http.Request) (actor, uuid.UUID, error) {
	act, err := actorFromRequest(r)
	if err != nil {
		return actor{}, uuid.Nil, err
	}
	customerID, err := validators.ParsePathUUID(chi.URLParam(r, "customerID"), "customerID")
	if err != nil {
		return actor{}, uuid.Nil, err
	}
	return act, customerID, nil
}
