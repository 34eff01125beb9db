package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pipeline-crm/leadboard/internal/usecase"
)

type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeError maps use case errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status, body := errorBody(err)
	writeJSON(w, status, body)
}

func errorBody(err error) (int, ErrorResponse) {
	var (
		verrs usecase.ValidationErrors
		de    *usecase.DomainError
		te    *usecase.TechnicalError
	)
	switch {
	case errors.As(err, &verrs) && len(verrs) > 0:
		return http.StatusBadRequest, ErrorResponse{
			Code:    usecase.CodeValidation,
			Message: verrs[0].Message,
			Fields:  verrs.ByField(),
		}
	case errors.As(err, &de):
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeNotFound:
			status = http.StatusNotFound
		case usecase.CodeConflict:
			status = http.StatusConflict
		}
		return status, ErrorResponse{Code: de.Code, Message: de.Message}
	case errors.As(err, &te):
		return http.StatusBadGateway, ErrorResponse{Code: te.Code, Message: te.Message}
	}
	return http.StatusInternalServerError, ErrorResponse{Code: usecase.CodeInternal, Message: "internal error"}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", fmt.Sprintf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

// intQuery reads an optional integer query parameter.
func intQuery(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_QUERY", fmt.Sprintf("%s must be an integer", name))
		return 0, false
	}
	return n, true
}
