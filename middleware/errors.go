package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const serverErrorMessage = "Server Error"

// HTTPError is an error carrying the status the envelope should use.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

type envelopeBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Envelope is the JSON shape of every error that reaches the terminal handler.
type Envelope struct {
	Error envelopeBody `json:"error"`
}

func newEnvelope(status int, message string) Envelope {
	if message == "" {
		message = serverErrorMessage
	}
	return Envelope{Error: envelopeBody{Message: message, Status: status}}
}

// AbortWithEnvelope stops the chain and writes the error envelope.
func AbortWithEnvelope(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, newEnvelope(status, message))
}

// ErrorHandler renders the last error attached with c.Error when the
// handler chain did not write a response itself.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.Status != 0 {
			status = httpErr.Status
		}
		c.JSON(status, newEnvelope(status, err.Error()))
	}
}

// NotFound is installed as the engine's NoRoute handler.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(NewHTTPError(http.StatusNotFound, "Not Found - "+c.Request.URL.RequestURI()))
	}
}

// Recovery turns a panic into a 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, _ any) {
		AbortWithEnvelope(c, http.StatusInternalServerError, serverErrorMessage)
	})
}
