package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitcoach/services/coach-api/internal/utils/platformerrors"
)

// ErrorResponse is the single JSON object every terminal error returns.
// Raw provider payloads and internal error chains never appear here.
type ErrorResponse struct {
	Error     string       `json:"error"`
	Code      string       `json:"code,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Fields    []FieldError `json:"fields,omitempty"`
}

// FieldError is one request validation violation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// HandleError maps platform errors onto their HTTP status; anything else
// becomes a generic 500 with the provided fallback message.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(platformErr.GetErrorType())

		errorMessage := platformErr.Message
		if errorMessage == "" {
			errorMessage = message
		}

		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Error:     errorMessage,
			Code:      platformErr.GetUUID(),
			RequestID: platformErr.GetRequestID(),
		})
		return
	}

	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}

// HandleErrorWithStatus aborts with an explicit status code.
func HandleErrorWithStatus(reqCtx *gin.Context, statusCode int, err error, message string) {
	_ = reqCtx.Error(err)
	reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

// HandleValidationError returns every violated field in one response.
func HandleValidationError(reqCtx *gin.Context, fields []FieldError) {
	reqCtx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:  "request validation failed",
		Fields: fields,
	})
}
