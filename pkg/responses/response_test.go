package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DhavalSuthar-24/crease/pkg/apperr"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(apperr.KindNotFound))
	assert.Equal(t, http.StatusNotFound, StatusFor(apperr.KindEmptyLog))
	assert.Equal(t, http.StatusForbidden, StatusFor(apperr.KindPermissionDenied))
	assert.Equal(t, http.StatusConflict, StatusFor(apperr.KindInvalidState))
	assert.Equal(t, http.StatusConflict, StatusFor(apperr.KindConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFor(apperr.KindRuleViolation))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(apperr.KindUnknown))
}

func sendAppError(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/matches/1/balls", nil)
	SendAppError(c, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestSendAppErrorUsesKind(t *testing.T) {
	code, body := sendAppError(t, apperr.RuleViolation("over complete: choose a new bowler"))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, apperr.KindRuleViolation, body.Kind)
	assert.Equal(t, "over complete: choose a new bowler", body.Message)
}

func TestSendAppErrorHidesUnknownErrors(t *testing.T) {
	code, body := sendAppError(t, errors.New("pq: connection reset"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "fail", body.Status)
	assert.NotContains(t, body.Message, "pq")
}
