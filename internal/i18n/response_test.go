package i18n

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body
}

func TestSuccessResponse_Envelope(t *testing.T) {
	code, body := serve(t, func(c *gin.Context) {
		Success(SuccessBookingList).
			With("total", 2).
			WithPayload([]string{"BK-1", "BK-2"}).
			Send(c)
	})
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "message")
	assert.EqualValues(t, 2, body["total"])
	assert.Equal(t, []any{"BK-1", "BK-2"}, body["data"])
}

func TestSuccessResponse_MapPayloadStaysUnderData(t *testing.T) {
	code, body := serve(t, func(c *gin.Context) {
		Created(SuccessBookingCreated).WithPayload(gin.H{"id": 7}).Send(c)
	})
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, map[string]any{"id": float64(7)}, body["data"])
	assert.NotContains(t, body, "id")
}

func TestSuccessResponse_MetaCannotReplaceEnvelope(t *testing.T) {
	_, body := serve(t, func(c *gin.Context) {
		Success(SuccessLogout).With("data", "x").With("message", "y").Send(c)
	})
	assert.NotContains(t, body, "data")
	assert.NotEqual(t, "y", body["message"])
}

func TestRespondWithError(t *testing.T) {
	code, body := serve(t, func(c *gin.Context) {
		RespondWithError(c, ErrForbidden)
	})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, body, "error")
}

func TestRespondWithFieldErrors(t *testing.T) {
	base := ErrorBookingValidation
	code, body := serve(t, func(c *gin.Context) {
		RespondWithFieldErrors(c, base, []FieldError{
			{Field: "client_name", MessageID: "NoSuchMessage", Message: "Client name is required"},
			{Field: "total_price", Message: "Total price must be greater than zero"},
		})
	})
	assert.Equal(t, http.StatusBadRequest, code)

	list := body["violations"].([]any)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, "client_name", first["field"])
	assert.Equal(t, "Client name is required", first["message"])
	assert.NotContains(t, first, "MessageID")
}
