package middleware

import (
	"errors"
	"io"

	"devdesk/common"

	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body into dst. An empty body leaves dst
// untouched so required-field validation reports what is missing.
func BindJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &common.Error{Kind: common.KindValidation, Message: "invalid JSON body", Err: err}
	}
	return nil
}
