package handlers

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/corpman/pkg/errors"
	"github.com/charlesng35/corpman/pkg/response"
	appValidator "github.com/charlesng35/corpman/pkg/validator"
)

// bindAndValidate decodes the JSON body into dest and applies its validation rules.
// On failure it writes a 422 carrying the first failing field and returns false.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewValidation(appValidator.ValidationError{Field: "body", Tag: "json"}))
		return false
	}

	if err := appValidator.Struct(dest); err != nil {
		response.Error(c, appErrors.NewValidation(appValidator.First(err)))
		return false
	}

	return true
}
