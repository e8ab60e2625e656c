package httppresentation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/BiharaCD/beverage-OS/internal/domain/enum"
	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/observability/logctx"
	"github.com/BiharaCD/beverage-OS/internal/pkg/apperr"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// Amounts go out as JSON numbers, the way the web client reads them.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type messageResponse struct {
	Message string `json:"message"`
}

// decodeJSON reads the request body into dst. Unknown fields are ignored; the web
// client sends whole form objects.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("", "Request body is required")
		}
		var terr *json.UnmarshalTypeError
		if errors.As(err, &terr) {
			return typeMismatch(terr)
		}
		return apperr.Validation("", fmt.Sprintf("Invalid request body: %v", err))
	}
	return nil
}

// typeMismatch names the offending field by its JSON name instead of the Go type.
func typeMismatch(err *json.UnmarshalTypeError) error {
	field := err.Field
	if i := strings.LastIndex(field, "."); i >= 0 {
		field = field[i+1:]
	}
	if field == "" {
		return apperr.Validation("", "Invalid request body")
	}

	var want string
	switch err.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		want = "a whole number"
	case reflect.Float32, reflect.Float64:
		want = "a number"
	case reflect.String:
		want = "a string"
	case reflect.Bool:
		want = "true or false"
	case reflect.Slice, reflect.Array:
		want = "a list"
	default:
		return apperr.Validation(field, field+" has an invalid value")
	}
	return apperr.Validation(field, field+" must be "+want)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeDomainError maps the error kinds to status codes. Anything unrecognised is a
// 500 carrying the underlying message.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *apperr.ValidationError
		nerr *apperr.NotFoundError
		serr *apperr.StockInsufficientError
		uerr *apperr.UnauthorizedError
		cerr *apperr.ConflictError
		eerr *enum.InvalidError
	)
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Message)
	case errors.As(err, &eerr):
		writeMessage(w, http.StatusBadRequest, eerr.Error())
	case errors.As(err, &nerr):
		writeMessage(w, http.StatusNotFound, nerr.Error())
	case errors.As(err, &serr):
		writeMessage(w, http.StatusBadRequest, serr.Error())
	case errors.As(err, &uerr):
		status := http.StatusUnauthorized
		if uerr.Forbidden {
			status = http.StatusForbidden
		}
		writeMessage(w, status, uerr.Error())
	case errors.As(err, &cerr):
		writeMessage(w, http.StatusBadRequest, cerr.Error())
	default:
		logctx.FromOr(r.Context(), observability.NopLogger()).Error("request_failed",
			observability.F("error", err),
		)
		writeMessage(w, http.StatusInternalServerError, err.Error())
	}
}
