package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-biolab/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextSessionClaims is the key used to store token claims in the Gin context.
	ContextSessionClaims = "sessionClaims"

	// SessionClaim is the token claim naming the session a token was issued for.
	SessionClaim = "session_id"

	// TokenQueryParam carries the token when headers cannot be set, as with
	// browser websockets.
	TokenQueryParam = "token"
)

// Authoriz rejects requests without a valid session token. The token is read
// from the Authorization header, falling back to the token query parameter.
func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed token"})
			return
		}

		claims, err := ts.Decode(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// Attach the claims to the request context for further use.
		c.Set(ContextSessionClaims, claims)
		c.Next()
	}
}

// SessionOwner rejects requests whose token was issued for a session other than
// the one named by the param path parameter.
func SessionOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := ClaimedSession(c)
		if !ok || id != c.Param(param) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "token does not grant access to this session"})
			return
		}
		c.Next()
	}
}

// ClaimedSession returns the session ID the request token was issued for.
func ClaimedSession(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextSessionClaims)
	if !ok {
		return "", false
	}
	claims, ok := v.(map[string]interface{})
	if !ok {
		return "", false
	}
	id, ok := claims[SessionClaim].(string)
	return id, ok && id != ""
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query(TokenQueryParam)
		return token, token != ""
	}

	// Split the "Bearer" prefix from the token.
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
