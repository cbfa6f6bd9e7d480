/*
Package response is the single place where results become HTTP.

Principles:
 1. Status codes are chosen here from the AppError code; the domain and
    application layers never see HTTP
 2. Error bodies never carry internal details; internal errors always read
    "internal server error" and the real cause is only logged
 3. Every body carries the request id for log correlation

Stack extraction prefers the stack captured where a domain error was raised
(shared.Stacker) and falls back to the stack of the handler.

Body shapes:

	success: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	failure: { success: false, error: "ERROR_CODE", message: "user visible", code: 4xx/5xx, request_id: "..." }
*/
package response

import "github.com/gin-gonic/gin"

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

// Response is the envelope of every JSON body
type Response struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"` // error code, never the error text
	Code      int         `json:"code"`            // HTTP status
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// GetRequestID returns the id set by the request id middleware, or "".
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
