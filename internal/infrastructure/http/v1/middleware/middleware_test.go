package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizerp/internal/core/apperror"
	appctx "bizerp/internal/core/context"
)

type errorBody struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperror.NewValidation("bad").WithDetail("field", "date"), http.StatusBadRequest, apperror.CodeValidation},
		{"not found", apperror.NewNotFound("bill", "x"), http.StatusNotFound, apperror.CodeNotFound},
		{"conflict", apperror.NewConflict("taken"), http.StatusConflict, apperror.CodeConflict},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperror.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(ErrorHandler())
			r.GET("/x", func(c *gin.Context) {
				_ = c.Error(tt.err)
				c.Abort()
			})

			w := serve(r, http.MethodGet, "/x", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decodeError(t, w)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestErrorHandler_HidesInternalCause(t *testing.T) {
	r := newEngine(ErrorHandler())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(apperror.NewInternal(errors.New("password=hunter2")))
		c.Abort()
	})

	w := serve(r, http.MethodGet, "/x", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestRecovery_AnswersInternalError(t *testing.T) {
	r := newEngine(Recovery(), Trace(), ErrorHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("something broke")
	})

	w := serve(r, http.MethodGet, "/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apperror.CodeInternal, body.Code)
	assert.NotContains(t, w.Body.String(), "something broke")
	assert.NotEmpty(t, body.Details["request_id"])
}

func TestTrace_PropagatesRequestID(t *testing.T) {
	r := newEngine(Trace())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = appctx.GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := serve(r, http.MethodGet, "/x", http.Header{HeaderRequestID: {"req-123"}})

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", w.Header().Get(HeaderRequestID))

	w = serve(r, http.MethodGet, "/x", nil)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

type fakeValidator struct {
	user *appctx.UserContext
	err  error
	got  string
}

func (f *fakeValidator) Authenticate(token string) (*appctx.UserContext, error) {
	f.got = token
	return f.user, f.err
}

func TestAuth(t *testing.T) {
	user := &appctx.UserContext{UserID: "u-1", Email: "a@b.c", Role: "admin"}
	tests := []struct {
		name       string
		header     string
		validator  *fakeValidator
		wantStatus int
	}{
		{"missing header", "", &fakeValidator{user: user}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", &fakeValidator{user: user}, http.StatusUnauthorized},
		{"invalid token", "Bearer bad", &fakeValidator{err: errors.New("expired")}, http.StatusUnauthorized},
		{"valid token", "Bearer good", &fakeValidator{user: user}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(ErrorHandler(), Auth(tt.validator))
			r.GET("/me", func(c *gin.Context) {
				c.String(http.StatusOK, appctx.GetUserID(c.Request.Context()))
			})

			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			w := serve(r, http.MethodGet, "/me", header)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "u-1", w.Body.String())
				assert.Equal(t, "good", tt.validator.got)
			} else {
				assert.Equal(t, apperror.CodeUnauthorized, decodeError(t, w).Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	withUser := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			u := &appctx.UserContext{UserID: "u-1", Role: role}
			c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), u))
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := newEngine(ErrorHandler())
	r.GET("/admin", withUser("admin"), RequireRole("admin"), ok)
	r.GET("/staff", withUser("technician"), RequireRole("admin"), ok)
	r.GET("/anon", RequireRole("admin"), ok)

	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/admin", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/staff", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/anon", nil).Code)
}

func TestReadOnly(t *testing.T) {
	newRouter := func(enabled bool) *gin.Engine {
		r := newEngine(ErrorHandler(), ReadOnly(enabled, "/api/auth/login"))
		ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
		r.GET("/api/bills", ok)
		r.POST("/api/bills", ok)
		r.DELETE("/api/bills/1", ok)
		r.POST("/api/auth/login", ok)
		return r
	}

	r := newRouter(true)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodGet, "/api/bills", nil).Code)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "/api/auth/login", nil).Code)

	w := serve(r, http.MethodPost, "/api/bills", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperror.CodeReadOnly, decodeError(t, w).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodDelete, "/api/bills/1", nil).Code)

	r = newRouter(false)
	assert.Equal(t, http.StatusNoContent, serve(r, http.MethodPost, "/api/bills", nil).Code)
}

func TestRateLimit(t *testing.T) {
	l, err := NewLimiter("2-M")
	require.NoError(t, err)

	r := newEngine(ErrorHandler(), RateLimit(l))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		w := serve(r, http.MethodPost, "/login", nil)
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := serve(r, http.MethodPost, "/login", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, apperror.CodeRateLimited, decodeError(t, w).Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestNewLimiter_RejectsBadRate(t *testing.T) {
	_, err := NewLimiter("ten per minute")
	assert.Error(t, err)
}

func TestSecureHeaders(t *testing.T) {
	r := newEngine(SecureHeaders(false))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, http.MethodGet, "/x", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	r := newEngine(CORS([]string{"https://app.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, http.MethodGet, "/x", http.Header{"Origin": {"https://app.example.com"}})
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodGet, "/x", http.Header{"Origin": {"https://evil.example.com"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
