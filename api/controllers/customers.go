package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/medlinkvn/dms-backend/api/responses"
	"github.com/medlinkvn/dms-backend/api/validators"
	"github.com/medlinkvn/dms-backend/internal/customers"
	pkgerrors "github.com/medlinkvn/dms-backend/pkg/errors"
	"github.com/medlinkvn/dms-backend/pkg/logger"
	"github.com/medlinkvn/dms-backend/pkg/pagination"
)

// CustomerList returns the rep's hub directory. Passing lat and lng sorts by
// distance from the rep, nearest first; otherwise the listing is a plain
// cursor page.
func CustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}
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
		lat, hasLat, err := validators.ParseQueryFloat(r, "lat")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lng, hasLng, err := validators.ParseQueryFloat(r, "lng")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if hasLat != hasLng {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "lat and lng must be provided together"))
			return
		}

		if hasLat {
			listed, err := svc.ListNearby(r.Context(), customers.ListNearbyInput{
				HubCode:   act.HubCode,
				Latitude:  lat,
				Longitude: lng,
				Limit:     limit,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, map[string]any{"customers": listed})
			return
		}

		page, err := svc.ListPage(r.Context(), customers.ListPageInput{
			HubCode: act.HubCode,
			Params: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"customers":   page.Customers,
			"next_cursor": page.NextCursor,
		})
	}
}

// CustomerGet returns one customer.
func CustomerGet(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}
		customerID, err := validators.ParsePathUUID(chi.URLParam(r, "customerID"), "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.GetCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}
