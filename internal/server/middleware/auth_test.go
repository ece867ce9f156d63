package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testTokenValidator struct {
	validTokens map[string]string
}

func (v *testTokenValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	userID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return testClaims(userID), nil
}

type testClaims string

func (c testClaims) GetUserID() string {
	return string(c)
}

// echoUser writes the resolved user ID, or "anonymous"
func echoUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		userID = "anonymous"
	}
	_, _ = w.Write([]byte(userID))
}

func TestIdentify(t *testing.T) {
	validator := &testTokenValidator{validTokens: map[string]string{
		"good-token": "user-42",
		"empty-user": "",
	}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer good-token", http.StatusOK, "user-42"},
		{"lowercase scheme", "bearer good-token", http.StatusOK, "user-42"},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized, ""},
		{"missing token", "Bearer", http.StatusUnauthorized, ""},
		{"extra parts", "Bearer good-token extra", http.StatusUnauthorized, ""},
		{"token without user", "Bearer empty-user", http.StatusUnauthorized, ""},
	}

	handler := Identify(validator)(http.HandlerFunc(echoUser))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestIdentify_NilValidator(t *testing.T) {
	handler := Identify(nil)(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestRequireUser(t *testing.T) {
	handler := RequireUser(http.HandlerFunc(echoUser))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(WithUserID(req.Context(), "user-7"))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-7", w.Body.String())
}
