package utils

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"

	MessageSuccess = "操作成功"
	MessageError   = "请求错误"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Code    string `json:"code,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// NewResponse builds the envelope for an HTTP status code. Error responses
// never carry data.
func NewResponse(code int, message string, data any) Response {
	status := StatusSuccess
	if code >= http.StatusBadRequest {
		status = StatusError
	}

	if message == "" {
		message = MessageSuccess
		if status == StatusError {
			message = MessageError
		}
	}

	if status == StatusError {
		data = nil
	}

	return Response{
		Status:  status,
		Message: message,
		Data:    data,
	}
}

// WriteJSON encodes an already built envelope.
func WriteJSON(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// ResponseJSON writes the envelope with the status derived from code.
func ResponseJSON(w http.ResponseWriter, code int, message string, data any) {
	WriteJSON(w, code, NewResponse(code, message, data))
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, message, data)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, message, data)
}

// ------------- Error responses -------------

// ResponseError writes an error envelope with an optional business code and
// field errors.
func ResponseError(w http.ResponseWriter, code int, message, errCode string, errors any) {
	response := NewResponse(code, message, nil)
	response.Code = errCode
	response.Errors = errors
	WriteJSON(w, code, response)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	ResponseError(w, http.StatusUnauthorized, message, "", nil)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, message, "", nil)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, message, "", nil)
}
