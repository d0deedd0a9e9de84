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
	"github.com/medlinkvn/dms-backend/pkg/pagination"
)

type submitOrderRequest struct {
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	Notes      string    `json:"notes" validate:"max=500"`
}

// OrderSubmit turns the rep's cart for the customer into a pending order.
func OrderSubmit(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload submitOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Submit(r.Context(), orders.SubmitInput{
			UserID:     act.UserID,
			CustomerID: payload.CustomerID,
			Notes:      payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type reviseOrderRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// OrderRevise replaces a pending order's content with the session cart.
func OrderRevise(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, orderID, err := orderScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload reviseOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Revise(r.Context(), orders.ReviseInput{
			UserID:  act.UserID,
			OrderID: orderID,
			Notes:   payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderStartEdit seeds the cart session from a pending order.
func OrderStartEdit(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, orderID, err := orderScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.StartEdit(r.Context(), act.UserID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderStatus moves the order along its lifecycle. Admin only.
func OrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, orderID, err := orderScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.Transition(r.Context(), orderID, target)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderGet returns one order.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, orderID, err := orderScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), orderID, act.UserID, act.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderList returns one page of the rep's order history.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListOrders(r.Context(), act.UserID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func orderScope(r *http.Request) (actor, uuid.UUID, error) {
	act, err := actorFromRequest(r)
	if err != nil {
		return actor{}, uuid.Nil, err
	}
	orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
	if err != nil {
		return actor{}, uuid.Nil, err
	}
	return act, orderID, nil
}
