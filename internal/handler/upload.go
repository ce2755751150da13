package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

// FormFile opens a single uploaded file from a multipart form.
// The caller must close the returned file.
func FormFile(c *gin.Context, field string) (*multipart.FileHeader, multipart.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil, apperr.BadRequest(field+" file is required", err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, apperr.BadRequest("failed to read uploaded file", err)
	}
	return fh, f, nil
}
