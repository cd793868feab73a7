package handler

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/placement-cell/placement-api/pkg/errors"
)

// formFile pulls one multipart upload, enforcing the size cap and the
// allowed extensions before anything touches disk.
func formFile(c *gin.Context, field string, maxSize int64, allowedExts ...string) (*multipart.FileHeader, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file field %q is required", field))
	}
	if maxSize > 0 && header.Size > maxSize {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("file exceeds the %d MB limit", maxSize/(1<<20)))
	}
	if len(allowedExts) > 0 {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		ok := false
		for _, allowed := range allowedExts {
			if ext == allowed {
				ok = true
				break
			}
		}
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("file type %s not allowed, expected %s", ext, strings.Join(allowedExts, ", ")))
		}
	}
	return header, nil
}
