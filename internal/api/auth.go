package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"

	"teakspice-storefront/internal/session"
)

const (
	ctxSession = "session"
	tokenTTL   = 24 * time.Hour
)

type JWTClaims struct {
	SessionID string `json:"sessionId"`
	jwt.StandardClaims
}

func (s *Server) issueToken(sessionID string) (string, error) {
	claims := JWTClaims{
		SessionID: sessionID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  s.now().Unix(),
			ExpiresAt: s.now().Add(tokenTTL).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Server) parseToken(tokenStr string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// AuthMiddleware resolves the bearer token to a live session. EventSource
// clients cannot set headers, so a token query parameter is accepted too.
func (s *Server) AuthMiddleware(c *gin.Context) {
	tokenStr, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || tokenStr == "" {
		tokenStr = c.Query("token")
	}
	if tokenStr == "" {
		c.AbortWithStatusJSON(401, gin.H{"error": "missing token"})
		return
	}

	claims, err := s.parseToken(tokenStr)
	if err != nil {
		c.AbortWithStatusJSON(401, gin.H{"error": "invalid token", "detail": err.Error()})
		return
	}

	sess, ok := s.sessions.Get(claims.SessionID)
	if !ok {
		c.AbortWithStatusJSON(401, gin.H{"error": "session expired"})
		return
	}
	c.Set(ctxSession, sess)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(ctxSession).(*session.Session)
}
