package apierr

import (
	"LearnTrack/internal/app_errors"
	"LearnTrack/pkg/logger"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const internalMessage = "internal server error"

// Status maps a domain error onto an HTTP status. Unknown errors are 500.
func Status(err error) int {
	switch {
	case errors.Is(err, app_errors.ErrInvalidProgress):
		return http.StatusBadRequest
	case errors.Is(err, app_errors.ErrLessonNotFound),
		errors.Is(err, app_errors.ErrCourseNotFound),
		errors.Is(err, app_errors.ErrModuleNotFound),
		errors.Is(err, app_errors.ErrProgressNotFound),
		errors.Is(err, app_errors.ErrXPSummaryNotFound),
		errors.Is(err, app_errors.ErrCourseNotCompleted),
		errors.Is(err, app_errors.ErrCertificateNotFound):
		return http.StatusNotFound
	case errors.Is(err, app_errors.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the error body. 5xx details stay in the log.
func Respond(c *gin.Context, log logger.Log, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		log.ErrorErr("request failed", err, "path", c.FullPath())
		c.JSON(status, gin.H{"error": internalMessage})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// BindError turns a ShouldBindJSON failure into a 400 body listing the bad fields.
func BindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]string, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, fieldMessage(fe))
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "uuid":
		return fmt.Sprintf("%s must be a uuid", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", name, strings.TrimSpace(fe.Tag()))
	}
}

// JSONTagName reports struct fields by their json name in validation errors.
func JSONTagName(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}
