// Package response writes the API's JSON envelope: {success, data} on the
// happy path, {success, error:{code, message[, details]}} otherwise.
package response

import "github.com/gin-gonic/gin"

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   errorBody{Code: code, Message: message},
	})
}

// ErrorWithDetails attaches a machine-readable detail payload, typically the
// field map from a failed binding. Nil details are omitted from the body.
func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   errorBody{Code: code, Message: message, Details: details},
	})
}
