// Package handler holds the shared request plumbing the per-entity
// handlers build on.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/caresync/hospital-api/internal/middleware"
	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/service/visibility"
)

// Requester returns the authenticated caller placed by the auth middleware.
func Requester(c *gin.Context) model.Requester {
	return middleware.RequesterFrom(c)
}

// Mode parses the ?records= query parameter selecting suspended visibility.
func Mode(c *gin.Context) (visibility.Mode, error) {
	return visibility.ParseMode(c.Query("records"))
}

// BindUpdate decodes a PATCH body into the loose field map the update
// engine validates.
func BindUpdate(c *gin.Context) (model.Document, error) {
	var fields model.Document
	if err := c.ShouldBindJSON(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}
