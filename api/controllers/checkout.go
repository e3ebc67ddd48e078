package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/types"
)

// CheckoutPreview returns the cart about to be ordered. An empty cart is
// answered with the EmptyCart redirect.
func CheckoutPreview(carts cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if carts == nil {
			serviceUnavailable(w, r, logg, "cart")
			return
		}
		sess, ok := requestSession(w, r, logg)
		if !ok {
			return
		}

		result, err := carts.Get(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(result.Items) == 0 {
			responses.WriteError(r.Context(), logg, w, checkout.EmptyCartError())
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CheckoutPlaceOrder turns the session cart into an order. The empty cart
// check runs before the body is decoded.
func CheckoutPlaceOrder(svc checkout.Service, carts cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || carts == nil {
			serviceUnavailable(w, r, logg, "checkout")
			return
		}
		sess, ok := requestSession(w, r, logg)
		if !ok {
			return
		}

		count, err := carts.Count(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if count == 0 {
			responses.WriteError(r.Context(), logg, w, checkout.EmptyCartError())
			return
		}

		var form checkout.ShippingForm
		if err := validators.DecodeJSON(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := validators.ValidateStruct(&form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PlaceOrder(r.Context(), sess, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessages(w, http.StatusCreated, result, types.Success(result.Message))
	}
}
