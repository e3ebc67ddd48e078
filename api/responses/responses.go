package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/types"
)

// EmptyCartLocation is where clients are sent when an action needs a
// non-empty cart.
const EmptyCartLocation = "/api/v1/products"

var errUnknown = errors.New("unknown error")

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteSuccessMessages writes data together with one-shot user notices.
func WriteSuccessMessages(w http.ResponseWriter, status int, data any, messages ...types.Message) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data, Messages: messages})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError renders err as an error envelope. Untyped errors surface as
// INTERNAL_ERROR and server-side messages never reach the client.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errUnknown
	}
	typed := pkgerrors.Ensure(err, "unexpected error")
	status := pkgerrors.MetadataFor(typed.Code()).HTTPStatus

	if typed.Code() == pkgerrors.CodeEmptyCart {
		w.Header().Set("Location", EmptyCartLocation)
	}
	logRejection(ctx, logg, status, err, typed)
	writeJSON(w, status, errorEnvelope(typed))
}

func errorEnvelope(typed *pkgerrors.Error) types.ErrorEnvelope {
	msg := typed.PublicMessage()
	env := types.ErrorEnvelope{
		Error: types.APIError{Code: string(typed.Code()), Message: msg},
	}
	if details := typed.Details(); details != nil && pkgerrors.MetadataFor(typed.Code()).DetailsAllowed {
		env.Error.Details = details
	}
	if typed.Code() == pkgerrors.CodeEmptyCart {
		env.Messages = []types.Message{types.Warning(msg)}
	}
	return env
}

func logRejection(ctx context.Context, logg *logger.Logger, status int, err error, typed *pkgerrors.Error) {
	switch {
	case logg == nil:
	case status >= http.StatusInternalServerError:
		logg.Error(logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "request.error", err)
	default:
		logg.Debug(logg.WithFields(ctx, map[string]any{
			"error":      typed.Error(),
			"error_code": typed.Code(),
		}), "request.rejected")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Int("status", status).Msg("response.encode_failed")
	}
}
