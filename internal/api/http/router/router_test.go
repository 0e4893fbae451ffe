package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/useraccounts-server/internal/api/http/context"
	"github.com/dtroode/useraccounts-server/internal/mocks"
	"github.com/dtroode/useraccounts-server/internal/model"
	"github.com/dtroode/useraccounts-server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func request(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Gates(t *testing.T) {
	t.Parallel()

	self := uuid.New()
	customer := model.Claims{UserID: self, UserType: model.UserTypeCustomer}
	admin := model.Claims{UserID: uuid.New(), UserType: model.UserTypeAdmin}

	auth := mocks.NewAuthService(t)
	auth.On("VerifyToken", mock.Anything, "customer").Return(customer, nil).Maybe()
	auth.On("VerifyToken", mock.Anything, "admin").Return(admin, nil).Maybe()
	auth.On("VerifyToken", mock.Anything, "expired").Return(model.Claims{}, model.ErrUnauthorized).Maybe()

	users := mocks.NewUserService(t)
	users.On("List", mock.Anything).Return([]model.User{}, nil).Maybe()
	users.On("Get", mock.Anything, mock.Anything).Return(model.User{ID: self}, nil).Maybe()

	engine := New(Services{
		Auth:  auth,
		Users: users,
		Reset: mocks.NewResetService(t),
	}, httpcontext.NewManager(), "x-auth-token", testutil.MakeNoopLogger()).Register()

	tests := map[string]struct {
		path  string
		token string
		want  int
	}{
		"list without token":      {path: "/users", want: http.StatusUnauthorized},
		"list with expired token": {path: "/users", token: "expired", want: http.StatusUnauthorized},
		"list as customer":        {path: "/users", token: "customer", want: http.StatusForbidden},
		"list as admin":           {path: "/users", token: "admin", want: http.StatusOK},
		"own profile":             {path: "/users/" + self.String(), token: "customer", want: http.StatusOK},
		"foreign profile":         {path: "/users/" + uuid.NewString(), token: "customer", want: http.StatusForbidden},
		"foreign profile admin":   {path: "/users/" + uuid.NewString(), token: "admin", want: http.StatusOK},
		"verify":                  {path: "/verify", token: "customer", want: http.StatusOK},
		"unknown route":           {path: "/nope", want: http.StatusNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rec := request(t, engine, http.MethodGet, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_NoHealthRouteWithoutChecker(t *testing.T) {
	engine := New(Services{
		Auth:  mocks.NewAuthService(t),
		Users: mocks.NewUserService(t),
		Reset: mocks.NewResetService(t),
	}, httpcontext.NewManager(), "x-auth-token", testutil.MakeNoopLogger()).Register()

	rec := request(t, engine, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
