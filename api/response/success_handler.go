package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleSuccess answers 200 with data in the envelope.
func HandleSuccess(c *gin.Context, data interface{}, message string) {
	writeSuccess(c, http.StatusOK, data, message)
}

// HandleCreated answers 201; used when a booking is stored.
func HandleCreated(c *gin.Context, data interface{}, message string) {
	writeSuccess(c, http.StatusCreated, data, message)
}

func writeSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, &Response{
		Success:   true,
		Data:      data,
		Code:      status,
		Message:   message,
		RequestID: GetRequestID(c),
	})
}
