package http

import (
	"encoding/json"
	"net/http"

	apperrors "roomly/pkg/errors"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Data       any   `json:"data"`
	TotalCount int64 `json:"total_count"`
	Limit      int   `json:"limit"`
	Offset     int64 `json:"offset"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, limit int, offset int64) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		TotalCount: totalCount,
		Limit:      limit,
		Offset:     offset,
	})
}
