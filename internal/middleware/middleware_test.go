package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/mineboard/internal/config"
)

func claimsEcho(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	w.Write([]byte(claims.SessionId))
}

func TestAuth(t *testing.T) {
	j := config.NewHMACJWT([]byte("secret"), time.Hour)
	log, _ := test.NewNullLogger()
	h := Auth(log, j)(http.HandlerFunc(claimsEcho))

	token, err := j.Sign(j.NewSessionClaims("abc"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		code    int
		body    string
	}{
		{
			name:    "bearer header",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			code:    http.StatusOK,
			body:    "abc",
		},
		{
			name:    "query parameter",
			prepare: func(r *http.Request) { r.URL.RawQuery = "token=" + token },
			code:    http.StatusOK,
			body:    "abc",
		},
		{
			name:    "no token",
			prepare: func(r *http.Request) {},
			code:    http.StatusUnauthorized,
		},
		{
			name:    "bad token",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") },
			code:    http.StatusUnauthorized,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/game/abc", nil)
			test.prepare(r)
			w := httptest.NewRecorder()

			h.ServeHTTP(w, r)

			assert.Equal(t, test.code, w.Code)
			assert.Equal(t, test.body, w.Body.String())
		})
	}
}

func TestLogging(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/status", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "handled request", entry.Message)
	assert.Equal(t, http.StatusTeapot, entry.Data["statusCode"])
	assert.Equal(t, "/status", entry.Data["uri"])
}

func TestWrapOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.NotFoundHandler(), mw("inner"), mw("outer"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"outer", "inner"}, order)
}
