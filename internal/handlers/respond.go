package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abcretail/backoffice/internal/blob"
	"github.com/abcretail/backoffice/internal/store"
)

// storeError translates store sentinels into distinct HTTP statuses.
// Not-found and version-conflict are never conflated.
func storeError(c *gin.Context, err error, entity string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + "_not_found"})
	case errors.Is(err, store.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "version_conflict"})
	case errors.Is(err, store.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": entity + "_already_exists"})
	case errors.Is(err, store.ErrBadVersionTag):
		fieldError(c, "etag", "malformed version tag")
	default:
		log.Printf("[api] storage failure for %s: %v", entity, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage_failure"})
	}
}

// fieldError writes a field-scoped 400 in the same shape as bind validation.
func fieldError(c *gin.Context, field, reason string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation_failed",
		"fields": gin.H{field: reason},
	})
}

// uploadError maps a blob validation failure to a field-scoped 400; anything
// else is an upstream I/O failure.
func uploadError(c *gin.Context, err error) {
	var ue *blob.UploadError
	if errors.As(err, &ue) {
		fieldError(c, ue.Field, ue.Reason)
		return
	}
	log.Printf("[api] blob failure: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "upload_failure"})
}

// expectedVersion resolves the version an update must match: the caller's
// etag when supplied, otherwise the version of the record just read.
func expectedVersion(etag string, current int64) (int64, error) {
	if etag == "" {
		return current, nil
	}
	return store.ParseVersion(etag)
}
