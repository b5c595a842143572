package response

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

func ErrorWithDetails(c *gin.Context, statusCode int, message string, details any) {
	c.JSON(statusCode, gin.H{"error": message, "details": details})
}

// RawDetails embeds an upstream response body verbatim when it is valid
// JSON, and as a plain string otherwise.
func RawDetails(body string) any {
	if json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	return body
}
