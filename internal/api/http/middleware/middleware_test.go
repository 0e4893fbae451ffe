package middleware

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
	"github.com/dtroode/useraccounts-server/internal/logger"
	"github.com/dtroode/useraccounts-server/internal/mocks"
	"github.com/dtroode/useraccounts-server/internal/model"
	"github.com/dtroode/useraccounts-server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthenticate_Handle(t *testing.T) {
	t.Parallel()

	claims := model.Claims{UserID: uuid.New(), Email: "jane@example.com", UserType: model.UserTypeCustomer}

	tests := map[string]struct {
		headers    map[string]string
		setup      func(v *mocks.TokenVerifier)
		wantStatus int
		wantCode   string
	}{
		"custom header": {
			headers: map[string]string{"x-auth-token": "good"},
			setup: func(v *mocks.TokenVerifier) {
				v.On("VerifyToken", mock.Anything, "good").Return(claims, nil)
			},
			wantStatus: http.StatusOK,
		},
		"bearer fallback": {
			headers: map[string]string{"Authorization": "Bearer good"},
			setup: func(v *mocks.TokenVerifier) {
				v.On("VerifyToken", mock.Anything, "good").Return(claims, nil)
			},
			wantStatus: http.StatusOK,
		},
		"missing token": {
			setup:      func(v *mocks.TokenVerifier) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "MISSING_TOKEN",
		},
		"non bearer authorization": {
			headers:    map[string]string{"Authorization": "Basic Zm9vOmJhcg=="},
			setup:      func(v *mocks.TokenVerifier) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "MISSING_TOKEN",
		},
		"invalid token": {
			headers: map[string]string{"x-auth-token": "tampered"},
			setup: func(v *mocks.TokenVerifier) {
				v.On("VerifyToken", mock.Anything, "tampered").Return(model.Claims{}, model.ErrUnauthorized)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_TOKEN",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			verifier := mocks.NewTokenVerifier(t)
			tt.setup(verifier)
			cm := httpcontext.NewManager()
			auth := NewAuthenticate(verifier, cm, "x-auth-token", testutil.MakeNoopLogger())

			reached := false
			r := gin.New()
			r.GET("/p", auth.Handle, func(c *gin.Context) {
				reached = true
				got, ok := cm.GetClaimsFromContext(c.Request.Context())
				require.True(t, ok)
				assert.Equal(t, claims, got)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.False(t, reached)
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			} else {
				assert.True(t, reached)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	self := uuid.New()
	customer := model.Claims{UserID: self, UserType: model.UserTypeCustomer}
	admin := model.Claims{UserID: uuid.New(), UserType: model.UserTypeAdmin}

	tests := map[string]struct {
		claims     *model.Claims
		path       string
		adminOnly  bool
		wantStatus int
		wantCode   string
	}{
		"admin route as admin":     {claims: &admin, path: "/admin", adminOnly: true, wantStatus: http.StatusOK},
		"admin route as customer":  {claims: &customer, path: "/admin", adminOnly: true, wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		"admin route without auth": {path: "/admin", adminOnly: true, wantStatus: http.StatusUnauthorized, wantCode: "MISSING_TOKEN"},
		"own profile":              {claims: &customer, path: "/users/" + self.String(), wantStatus: http.StatusOK},
		"foreign profile":          {claims: &customer, path: "/users/" + uuid.NewString(), wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		"foreign profile as admin": {claims: &admin, path: "/users/" + uuid.NewString(), wantStatus: http.StatusOK},
		"malformed id":             {claims: &customer, path: "/users/42", wantStatus: http.StatusBadRequest, wantCode: "INVALID_USER_ID"},
		"profile without auth":     {path: "/users/" + self.String(), wantStatus: http.StatusUnauthorized, wantCode: "MISSING_TOKEN"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cm := httpcontext.NewManager()
			authz := NewAuthorize(cm)
			inject := func(c *gin.Context) {
				if tt.claims != nil {
					c.Request = c.Request.WithContext(cm.SetClaimsToContext(c.Request.Context(), *tt.claims))
				}
				c.Next()
			}
			ok := func(c *gin.Context) { c.Status(http.StatusOK) }

			r := gin.New()
			r.GET("/admin", inject, authz.RequireAdmin, ok)
			r.GET("/users/:id", inject, authz.RequireSelfOrAdmin("id"), ok)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(RequestID)
	r.GET("/p", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	t.Run("propagates caller id", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", rec.Body.String())
	})

	t.Run("generates id", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/p", nil))

		_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
	})
}

func TestLogging_Handle(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogging(logger.NewWithWriter(&buf, 0))

	r := gin.New()
	r.Use(RequestID, lg.Handle)
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	out := buf.String()
	assert.Contains(t, out, "HTTP request rejected")
	assert.Contains(t, out, "route=/users/:id")
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "HTTP request failed")
}
