package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role string, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func protectedProbe(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(AuthenticatedUserContextKey).(AuthenticatedUser)
		assert.True(t, ok)
		assert.Equal(t, "admin", user.Role)
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	return AdminAuthMiddleware(testSecret, testLogger())(next), &reached
}

func TestAdminAuth_MissingHeader(t *testing.T) {
	handler, reached := protectedProbe(t)
	req := httptest.NewRequest(http.MethodPost, "/api/reminders/run", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestAdminAuth_BadToken(t *testing.T) {
	handler, reached := protectedProbe(t)
	req := httptest.NewRequest(http.MethodPost, "/api/reminders/run", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestAdminAuth_WrongSecretRejected(t *testing.T) {
	handler, reached := protectedProbe(t)
	req := httptest.NewRequest(http.MethodPost, "/api/reminders/run", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin", "other-secret"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *reached)
}

func TestAdminAuth_NonAdminForbidden(t *testing.T) {
	handler, reached := protectedProbe(t)
	req := httptest.NewRequest(http.MethodPost, "/api/reminders/run", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "accountant", testSecret))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *reached)
}

func TestAdminAuth_AdminAllowed(t *testing.T) {
	handler, reached := protectedProbe(t)
	req := httptest.NewRequest(http.MethodPost, "/api/reminders/run", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin", testSecret))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}
