// Package api holds the HTTP handlers of the REST surface.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Common carries what every handler needs
type Common struct {
	Log logrus.FieldLogger
	// RequireAuth rejects requests without a valid bearer token
	RequireAuth gin.HandlerFunc
	// OptionalAuth identifies the caller of public reads when a token is sent
	OptionalAuth gin.HandlerFunc
	// ExposeDetails adds internal error messages to 500 responses
	ExposeDetails bool
}

func (c Common) responder() responder {
	useJSONFieldNames()
	log := c.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return responder{log: log, exposeDetails: c.ExposeDetails}
}

// passThrough stands in for an unset optional middleware
func passThrough(c *gin.Context) { c.Next() }

func orPassThrough(h gin.HandlerFunc) gin.HandlerFunc {
	if h == nil {
		return passThrough
	}
	return h
}
