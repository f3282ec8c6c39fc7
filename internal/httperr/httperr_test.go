package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestBusinessError_Wrapped(t *testing.T) {
	err := fmt.Errorf("book: %w", ErrBusiness("slot_taken"))

	assert.True(t, IsBusiness(err, "slot_taken"))
	assert.False(t, IsBusiness(err, "invalid_state"))
	assert.Equal(t, "slot_taken", BusinessCode(err))
	assert.Equal(t, "", BusinessCode(errors.New("boom")))
}

func TestPostgresClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	exclusion := &pgconn.PgError{Code: "23P01"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsExclusionConflict(unique))
	assert.True(t, IsExclusionConflict(exclusion))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}

func TestUnavailable_IsRetryable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Unavailable(c, "storage_unavailable", "try again")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error_code":"storage_unavailable","message":"try again","retryable":true}`, w.Body.String())
}
