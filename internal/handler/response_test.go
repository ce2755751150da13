package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/xyvra/marketplace-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(err error) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, err)
	return w
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", apperr.NotFound("medicine", nil), http.StatusNotFound},
		{"bad request", apperr.BadRequest("bad input", nil), http.StatusBadRequest},
		{"unauthorized", apperr.Unauthorized("invalid credentials", nil), http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("not yours", nil), http.StatusForbidden},
		{"conflict", apperr.Conflict("already exists", nil), http.StatusConflict},
		{"validation", apperr.Validation("validation failed", nil), http.StatusUnprocessableEntity},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := respond(tc.err)
			assert.Equal(t, tc.status, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestRespondErrorNotFoundMessage(t *testing.T) {
	w := respond(apperr.NotFound("medicine", nil))

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "medicine not found", resp.Message)
}

func TestRespondErrorValidationFields(t *testing.T) {
	w := respond(apperr.Validation("validation failed", map[string]string{
		"category_id": "category does not exist",
	}))

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "category does not exist", resp.Errors["category_id"])
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	w := respond(errors.New("pq: connection refused"))

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Message)
}

func TestRespondBindErrorMalformedBody(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondBindError(c, errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type bindTarget struct {
	Email      string `json:"email" binding:"required,email"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
	MedicineID string `json:"medicine_id" binding:"required"`
}

func TestRespondBindErrorFieldMessages(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"email":"not-an-email","quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	var target bindTarget
	err := c.ShouldBindJSON(&target)
	require.Error(t, err)

	RespondBindError(c, err)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "must be a valid email address", resp.Errors["email"])
	assert.Equal(t, "this field is required", resp.Errors["medicine_id"])
}
