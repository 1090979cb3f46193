package i18n

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCode is the HTTP status an error is reported with
type ErrorCode int

const (
	ErrorBadRequest         ErrorCode = http.StatusBadRequest
	ErrorUnauthorized       ErrorCode = http.StatusUnauthorized
	ErrorForbidden          ErrorCode = http.StatusForbidden
	ErrorNotFound           ErrorCode = http.StatusNotFound
	ErrorConflict           ErrorCode = http.StatusConflict
	ErrorInternalServer     ErrorCode = http.StatusInternalServerError
	ErrorServiceUnavailable ErrorCode = http.StatusServiceUnavailable
)

// ErrorWithCode is a translatable API error. The predefined values in
// const.go are shared, so parameters are only ever added to copies.
type ErrorWithCode struct {
	MessageID string
	Params    map[string]any
	Code      ErrorCode
}

// NewErrorWithCode creates an error reported with code
func NewErrorWithCode(messageID string, code ErrorCode) *ErrorWithCode {
	return &ErrorWithCode{MessageID: messageID, Code: code}
}

// WithParam returns a copy of the error with one more template parameter
func (e *ErrorWithCode) WithParam(key string, value any) *ErrorWithCode {
	params := make(map[string]any, len(e.Params)+1)
	for k, v := range e.Params {
		params[k] = v
	}
	params[key] = value
	return &ErrorWithCode{MessageID: e.MessageID, Params: params, Code: e.Code}
}

// GetCode returns the HTTP status of the error
func (e *ErrorWithCode) GetCode() ErrorCode {
	return e.Code
}

// Error renders the message in the default language. Without a catalog the
// message id and its parameters are returned.
func (e *ErrorWithCode) Error() string {
	return e.localize(defaultLang)
}

func (e *ErrorWithCode) localize(lang string) string {
	if t := GetTranslator(); t != nil {
		if msg := t.Translate(e.MessageID, lang, e.Params); msg != e.MessageID {
			return msg
		}
	}
	if len(e.Params) == 0 {
		return e.MessageID
	}
	return fmt.Sprintf("%s %v", e.MessageID, e.Params)
}

// TranslateError renders err in the language of the request. Errors that
// are not translatable keep their own text.
func TranslateError(c *gin.Context, err error) string {
	if err == nil {
		return ""
	}
	var coded *ErrorWithCode
	if errors.As(err, &coded) {
		return coded.localize(LanguageOf(c))
	}
	return err.Error()
}
