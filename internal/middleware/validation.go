package middleware

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/validation"
)

// RegisterValidators installs the custom tags on gin's binding validator
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return validation.RegisterRules(v)
}

// BindJSON binds and validates a JSON body, writing a 400 on failure
func BindJSON(c *gin.Context, obj interface{}) bool {
	return bindWith(c, c.ShouldBindJSON(obj))
}

// BindOptionalJSON binds a JSON body when one is sent. An absent or empty
// body, chunked or not, leaves obj untouched.
func BindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody || c.Request.ContentLength == 0 {
		return true
	}
	err := c.ShouldBindJSON(obj)
	if errors.Is(err, io.EOF) {
		return true
	}
	return bindWith(c, err)
}

// BindQuery binds and validates query parameters, writing a 400 on failure
func BindQuery(c *gin.Context, obj interface{}) bool {
	return bindWith(c, c.ShouldBindQuery(obj))
}

// Bind picks the binding from the request content type, so the same
// handler accepts JSON and multipart forms
func Bind(c *gin.Context, obj interface{}) bool {
	return bindWith(c, c.ShouldBind(obj))
}

func bindWith(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
	return false
}
