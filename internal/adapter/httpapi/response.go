package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/estate/domain"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusForError maps domain sentinels to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUserError), errors.Is(err, domain.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConstraint):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// userMessage strips the sentinel prefix from a wrapped domain error so the
// caller sees only the specific reason.
func userMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	status := statusForError(err)
	switch {
	case status == http.StatusInternalServerError:
		log.Error("Request failed", zap.Error(err))
		writeErrorMessage(w, status, "internal server error")
	case status == http.StatusNotFound, status == http.StatusServiceUnavailable:
		writeErrorMessage(w, status, err.Error())
	default:
		writeErrorMessage(w, status, userMessage(err))
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+" failed on '"+fe.Tag()+"'")
		}
		writeErrorMessage(w, http.StatusBadRequest, "invalid request: "+strings.Join(fields, ", "))
		return
	}
	writeErrorMessage(w, http.StatusBadRequest, "invalid request: "+err.Error())
}

func badQuery(param, value string) error {
	return fmt.Errorf("%w: query parameter %s='%s' is not a number", domain.ErrInvalidInput, param, value)
}
