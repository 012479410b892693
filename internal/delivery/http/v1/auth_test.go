package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"taskmatrix/internal/services"
)

type fakeAuthService struct {
	services.AuthService
	loggedOut []string
}

func (f *fakeAuthService) Logout(_ context.Context, userID string) error {
	f.loggedOut = append(f.loggedOut, userID)
	return nil
}

func newLogoutContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	return c, w
}

func TestHandleLogout(t *testing.T) {
	auth := &fakeAuthService{}
	h := &handlerImpl{logger: zerolog.Nop(), auth: auth}

	c, w := newLogoutContext(t)
	c.Set(userIDCtxKey, "user-1")

	h.HandleLogout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"user-1"}, auth.loggedOut)
}

func TestHandleLogoutWithoutUserID(t *testing.T) {
	auth := &fakeAuthService{}
	h := &handlerImpl{logger: zerolog.Nop(), auth: auth}

	c, w := newLogoutContext(t)

	h.HandleLogout(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, auth.loggedOut)
}
