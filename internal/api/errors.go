package api

import (
	"errors"   // Error inspection
	"fmt"      // Error wrapping
	"net/http" // HTTP status codes
	"strings"  // Field name joining

	"fintrack/internal/domain" // Domain error kinds

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/go-playground/validator/v10" // Binding validation errors
	"github.com/sirupsen/logrus"             // Logging library
)

var (
	errForbidden = errors.New("access to another user's transactions is not allowed")
	errMalformed = errors.New("malformed request")
)

// writeError maps domain error kinds onto HTTP statuses
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingParameter),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidType),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, errMalformed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		// Store failures are not recoverable here; keep details out of the response
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"error":  err.Error(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindError turns a gin binding failure into a domain error kind
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	var missing []string
	for _, fe := range verrs {
		switch fe.Tag() {
		case "isodate":
			return fmt.Errorf("%w: %v", domain.ErrInvalidDate, fe.Value())
		case "required":
			missing = append(missing, fe.Field())
		default:
			return fmt.Errorf("%w: %s failed %s", errMalformed, fe.Field(), fe.Tag())
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrMissingParameter, strings.Join(missing, ", "))
}
