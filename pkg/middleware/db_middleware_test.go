package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipecrest/brokerage/pkg/serrors"
)

func TestWithTransaction_MissingActorIsUnauthenticated(t *testing.T) {
	invoked := false
	handler := WithTransaction()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		invoked = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/crm/leads", nil))

	require.False(t, invoked, "handler must not run without an identity tuple")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, serrors.CodeUnauthenticated, body["code"])
}
