package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/interviewprep-backend/internal/platform/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	r := gin.New()
	r.Use(NewAuthMiddleware(log, testSecret).RequireAuth())
	r.GET("/me", func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	user := uuid.New()
	r := authRouter(t)

	cases := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"valid bearer", "Bearer " + signToken(t, testSecret, user.String(), time.Hour), "", http.StatusOK},
		{"valid query token", "", signToken(t, testSecret, user.String(), time.Hour), http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", user.String(), time.Hour), "", http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, user.String(), -time.Minute), "", http.StatusUnauthorized},
		{"bad subject", "Bearer " + signToken(t, testSecret, "not-a-uuid", time.Hour), "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := "/me"
			if tc.query != "" {
				target += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status: got=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status == http.StatusOK && rec.Body.String() != user.String() {
				t.Fatalf("user id: got=%q", rec.Body.String())
			}
		})
	}
}
