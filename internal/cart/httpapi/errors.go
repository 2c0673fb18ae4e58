package httpapi

import (
	"errors"
	"net/http"

	catalog "github.com/dwikikusuma/cart-service/internal/catalog/domain"
)

var (
	errInvalidProductID = errors.New("product id must be a decimal integer")
	errInvalidBody      = errors.New("request body is not valid JSON for this endpoint")
)

// httpStatusFrom maps an error to an HTTP status, a stable machine-readable
// code, and a client-safe message.
func httpStatusFrom(err error) (int, string, string) {
	switch {
	case errors.Is(err, catalog.ErrMalformedProductData):
		return http.StatusBadRequest, "MALFORMED_PRODUCT", err.Error()
	case errors.Is(err, errInvalidProductID):
		return http.StatusBadRequest, "INVALID_ID", err.Error()
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, "INVALID_BODY", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}
