package httpapi

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-stock-service/internal/apperror"
	"github.com/fekuna/omnipos-stock-service/pkg/i18n"
	"github.com/fekuna/omnipos-stock-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type FieldError struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorBody struct {
	Kind     string                   `json:"kind"`
	Code     string                   `json:"code"`
	Message  string                   `json:"message"`
	Field    string                   `json:"field,omitempty"`
	Errors   []FieldError             `json:"errors,omitempty"`
	Lock     *apperror.LockDetail     `json:"lock,omitempty"`
	Shortage *apperror.ShortageDetail `json:"shortage,omitempty"`
}

func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation, apperror.KindShortage:
		return http.StatusUnprocessableEntity
	case apperror.KindState:
		return http.StatusConflict
	case apperror.KindAuthorization:
		return http.StatusForbidden
	case apperror.KindLock:
		return http.StatusLocked
	case apperror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err in the caller's language and aborts the request.
func WriteError(c *gin.Context, log logger.ZapLogger, err error) {
	lang := c.GetHeader("Accept-Language")

	parts := apperror.All(err)
	if len(parts) == 0 {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrorBody{
			Kind:    apperror.KindInternal.String(),
			Code:    "internal",
			Message: i18n.Translate(lang, "internal", nil, "internal server error"),
		}})
		return
	}

	first := parts[0]
	if first.Kind == apperror.KindInternal {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	body := ErrorBody{
		Kind:     first.Kind.String(),
		Code:     first.Code,
		Message:  i18n.Translate(lang, first.Code, first.Params, first.Message),
		Field:    first.Field,
		Lock:     first.Lock,
		Shortage: first.Shortage,
	}
	if len(parts) > 1 {
		for _, p := range parts {
			body.Errors = append(body.Errors, FieldError{
				Field:   p.Field,
				Code:    p.Code,
				Message: i18n.Translate(lang, p.Code, p.Params, p.Message),
			})
		}
	}
	c.AbortWithStatusJSON(StatusOf(first.Kind), gin.H{"error": body})
}

// WriteBindError reports a payload that failed decoding or struct validation.
func WriteBindError(c *gin.Context, err error) {
	lang := c.GetHeader("Accept-Language")
	body := ErrorBody{
		Kind:    apperror.KindValidation.String(),
		Code:    "invalid_request",
		Message: i18n.Translate(lang, "invalid_request", nil, "invalid request payload"),
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			body.Errors = append(body.Errors, FieldError{
				Field:   fe.Namespace(),
				Code:    fe.Tag(),
				Message: fe.Error(),
			})
		}
	} else {
		body.Errors = []FieldError{{Code: "decode", Message: err.Error()}}
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": body})
}

// WriteUnauthenticated rejects requests without an acting user.
func WriteUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrorBody{
		Kind:    apperror.KindAuthorization.String(),
		Code:    "unauthenticated",
		Message: i18n.Translate(c.GetHeader("Accept-Language"), "unauthenticated", nil, "missing acting user"),
	}})
}
