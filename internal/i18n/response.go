package i18n

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RespondWithError writes {"error": <translated message>} with the status
// carried by err, or 500 when err has none
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	statusCode := http.StatusInternalServerError
	var errWithCode *ErrorWithCode
	if errors.As(err, &errWithCode) {
		statusCode = int(errWithCode.GetCode())
	}
	c.JSON(statusCode, gin.H{"error": TranslateError(c, err)})
}

// FieldError is one failed validation rule of a request
type FieldError struct {
	Field     string `json:"field"`
	MessageID string `json:"-"`
	Message   string `json:"message"`
}

// RespondWithFieldErrors reports every failed rule at once. Each message is
// translated when the catalog knows its id and kept as given otherwise. base
// receives the joined messages as its Problems parameter.
func RespondWithFieldErrors(c *gin.Context, base *ErrorWithCode, fields []FieldError) {
	list := make([]FieldError, 0, len(fields))
	problems := make([]string, 0, len(fields))
	for _, f := range fields {
		if msg := TranslateMessage(c, f.MessageID, nil); f.MessageID != "" && msg != "" && msg != f.MessageID {
			f.Message = msg
		}
		list = append(list, f)
		problems = append(problems, f.Message)
	}

	out := base.WithParam("Problems", strings.Join(problems, "; "))
	c.JSON(int(out.GetCode()), gin.H{
		"error":      TranslateError(c, out),
		"violations": list,
	})
}

// SuccessResponse is the envelope of a successful API call:
// {"message": ..., <meta>..., "data": <payload>}
type SuccessResponse struct {
	StatusCode int
	MsgID      string
	Meta       map[string]any
	Payload    any
}

// Success starts a 200 response
func Success(msgID string) *SuccessResponse {
	return &SuccessResponse{StatusCode: http.StatusOK, MsgID: msgID}
}

// Created starts a 201 response
func Created(msgID string) *SuccessResponse {
	return &SuccessResponse{StatusCode: http.StatusCreated, MsgID: msgID}
}

// With adds a top level field such as a list total or a currency. The value
// is also available to the message template.
func (r *SuccessResponse) With(key string, value any) *SuccessResponse {
	if r.Meta == nil {
		r.Meta = make(map[string]any)
	}
	r.Meta[key] = value
	return r
}

// WithPayload sets the data field
func (r *SuccessResponse) WithPayload(payload any) *SuccessResponse {
	r.Payload = payload
	return r
}

// Send writes the response
func (r *SuccessResponse) Send(c *gin.Context) {
	body := gin.H{"message": TranslateMessage(c, r.MsgID, r.Meta)}
	for k, v := range r.Meta {
		if k == "message" || k == "data" {
			continue
		}
		body[k] = v
	}
	if r.Payload != nil {
		body["data"] = r.Payload
	}
	c.JSON(r.StatusCode, body)
}
