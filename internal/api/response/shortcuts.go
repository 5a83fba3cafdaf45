package response

import "net/http"

// OK renders a 200 success response.
func (f *Formatter) OK(data any, message string) Response {
	return f.Success(http.StatusOK, data, message)
}

// Created renders a 201 success response.
func (f *Formatter) Created(data any, message string) Response {
	return f.Success(http.StatusCreated, data, message)
}

// NoContent renders a 204 response with headers and no body.
func (f *Formatter) NoContent() Response {
	return f.Success(http.StatusNoContent, nil, "")
}

// BadRequest renders a 400 error response.
func (f *Formatter) BadRequest(message string, details any) Response {
	return f.Error(http.StatusBadRequest, message, details)
}

// Unauthorized renders a 401 error response.
func (f *Formatter) Unauthorized(message string) Response {
	return f.Error(http.StatusUnauthorized, message, nil)
}

// Forbidden renders a 403 error response.
func (f *Formatter) Forbidden(message string) Response {
	return f.Error(http.StatusForbidden, message, nil)
}

// NotFound renders a 404 error response.
func (f *Formatter) NotFound(message string) Response {
	return f.Error(http.StatusNotFound, message, nil)
}

// Conflict renders a 409 error response.
func (f *Formatter) Conflict(message string, details any) Response {
	return f.Error(http.StatusConflict, message, details)
}

// InternalError renders a 500 error response.
func (f *Formatter) InternalError(message string) Response {
	return f.Error(http.StatusInternalServerError, message, nil)
}

// ServiceUnavailable renders a 503 error response.
func (f *Formatter) ServiceUnavailable(message string, details any) Response {
	return f.Error(http.StatusServiceUnavailable, message, details)
}
