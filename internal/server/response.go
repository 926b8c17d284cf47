package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the JSON shape of every error response. Kind is set only for
// quiz generation failures.
type ErrorBody struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

func errorJSON(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorBody{Message: message})
}

func badRequest(c *gin.Context, message string) {
	errorJSON(c, http.StatusBadRequest, message)
}

func notFound(c *gin.Context, message string) {
	errorJSON(c, http.StatusNotFound, message)
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorBody{Message: "authorization required"})
}

func (s *Server) internalError(c *gin.Context, message string, err error) {
	s.log.Error(message,
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	errorJSON(c, http.StatusInternalServerError, message)
}
