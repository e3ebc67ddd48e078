package controllers

import (
	"net/http"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/validators"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/types"
)

const (
	loggedInMessage   = "Welcome back!"
	loggedOutMessage  = "You have been logged out."
	registeredMessage = "Your account was created."
)

// AuthLogin authenticates by email or phone and attaches the user to the
// session under a new identifier.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "auth")
			return
		}
		sess, ok := requestSession(w, r, logg)
		if !ok {
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), sess, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessages(w, http.StatusOK, result, types.Success(loggedInMessage))
	}
}

// AuthLogout ends the session, cart included.
func AuthLogout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "auth")
			return
		}
		sess, ok := requestSession(w, r, logg)
		if !ok {
			return
		}

		if err := svc.Logout(r.Context(), sess); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessMessages(w, http.StatusOK, map[string]bool{"logged_out": true}, types.Info(loggedOutMessage))
	}
}

// AuthMe returns the authenticated user.
func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "auth")
			return
		}
		sess, ok := requestSession(w, r, logg)
		if !ok {
			return
		}

		user, err := svc.Me(r.Context(), sess)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// AuthRegister creates an account and tries to log it in straight away. A
// failed automatic login still answers 201 with a notice.
func AuthRegister(svc auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "registration")
			return
		}
		sess, ok := requestSession(w, r, logg)
		if !ok {
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), sess, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message := types.Success(registeredMessage)
		if !result.LoggedIn {
			message = types.Warning(result.Message)
		}
		responses.WriteSuccessMessages(w, http.StatusCreated, result, message)
	}
}
