//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"vendora/internal/handler/dto/request"
	"vendora/internal/handler/dto/response"
	"vendora/tests/common/dbtest"
	"vendora/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body response.LoginResponse
	httptest.DecodeResponseBody(t, w.Body, &body)
	require.NotEmpty(t, body.AccessToken, "access token missing from login response")

	return body.AccessToken
}

func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email, role string) string {
	t.Helper()
	dbtest.CreateTestUser(t, db, email, role)
	return LoginUser(t, router, email, dbtest.TestPassword)
}
