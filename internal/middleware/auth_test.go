package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/coursebridge/coursebridge-backend/internal/logger"
	"github.com/coursebridge/coursebridge-backend/internal/requestdata"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	userID := uuid.New()
	validClaims := jwt.MapClaims{
		"sub":  userID.String(),
		"name": "Dana",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}

	cases := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{
			name:       "missing_token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed_header",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong_secret",
			header:     "Bearer " + signToken(t, "other-secret", validClaims),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "non_uuid_subject",
			header: "Bearer " + signToken(t, "test-secret", jwt.MapClaims{
				"sub": "not-a-uuid",
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid_bearer",
			header:     "Bearer " + signToken(t, "test-secret", validClaims),
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid_query_token",
			query:      signToken(t, "test-secret", validClaims),
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			am := NewAuthMiddleware(log)
			router := gin.New()
			router.GET("/probe", am.RequireAuth(), func(c *gin.Context) {
				rd := requestdata.GetRequestData(c.Request.Context())
				if rd == nil {
					c.String(http.StatusInternalServerError, "no request data")
					return
				}
				c.String(http.StatusOK, rd.UserID.String())
			})

			url := "/probe"
			if tc.query != "" {
				url += "?token=" + tc.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tc.wantStatus, rec.Body.String())
			}
			if tc.wantStatus == http.StatusOK && rec.Body.String() != userID.String() {
				t.Fatalf("user id = %q, want %q", rec.Body.String(), userID)
			}
		})
	}
}
