package httptransport

import (
	"errors"
	"net/http"

	"walletgate/internal/transport/http/json"
	dErrors "walletgate/pkg/domain-errors"
)

// writeError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and
// error envelopes; handlers never pick status codes themselves.
func writeError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		response := map[string]string{
			"error": string(domainErr.Code),
		}
		if domainErr.Message != "" {
			response["error_description"] = domainErr.Message
		}
		json.WriteJSON(w, domainCodeToHTTPStatus(domainErr.Code), response)
		return
	}

	json.WriteJSON(w, http.StatusInternalServerError, map[string]string{
		"error": string(dErrors.CodeInternal),
	})
}

// domainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func domainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeInvalidShareToken:
		return http.StatusBadRequest
	case dErrors.CodeConflict, dErrors.CodeAlreadyRegistered, dErrors.CodeDuplicateCredentialID:
		return http.StatusConflict
	case dErrors.CodeUnauthenticated, dErrors.CodeVerificationFailed:
		return http.StatusUnauthorized
	case dErrors.CodeUnknownPrincipal:
		return http.StatusNotFound
	case dErrors.CodeDeliveryError, dErrors.CodeDirectoryError:
		return http.StatusBadGateway
	case dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
