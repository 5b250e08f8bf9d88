package middleware

import (
  "fmt"
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/coursebridge/coursebridge-backend/internal/logger"
  "github.com/coursebridge/coursebridge-backend/internal/requestdata"
  "github.com/coursebridge/coursebridge-backend/internal/utils"
)

type AuthMiddleware struct {
  log           *logger.Logger
  jwtSecret     []byte
}

func NewAuthMiddleware(log *logger.Logger) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  secret := utils.GetEnv("JWT_SECRET", "", log)
  return &AuthMiddleware{log: middlewareLogger, jwtSecret: []byte(secret)}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    rd, err := am.parseToken(tokenString)
    if err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
      return
    }
    if rd == nil || rd.UserID == uuid.Nil {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
      return
    }
    ctx := requestdata.WithRequestData(c.Request.Context(), rd)
    c.Request = c.Request.WithContext(ctx)
    c.Next()
  }
}

func (am *AuthMiddleware) parseToken(tokenString string) (*requestdata.RequestData, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
    }
    return am.jwtSecret, nil
  })
  if err != nil || !token.Valid {
    return nil, fmt.Errorf("invalid token")
  }
  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return nil, fmt.Errorf("invalid token claims")
  }
  sub, _ := claims["sub"].(string)
  userID, err := uuid.Parse(sub)
  if err != nil {
    return nil, fmt.Errorf("invalid subject claim")
  }
  displayName, _ := claims["name"].(string)
  return &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
    DisplayName: displayName,
  }, nil
}

func extractToken(c *gin.Context) string {
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  return ""
}
