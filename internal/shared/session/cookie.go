package session

import (
	"fmt"
	"net/http"

	"housiee-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Issuer writes and clears the HttpOnly session cookie.
type Issuer struct {
	tokens     *jwt.Manager
	cookieName string
	secure     bool
}

func NewIssuer(tokens *jwt.Manager, cookieName string, secure bool) *Issuer {
	return &Issuer{tokens: tokens, cookieName: cookieName, secure: secure}
}

// Issue signs a fresh token and sets it as the session cookie.
func (i *Issuer) Issue(c *gin.Context, userID, email, role string) error {
	token, err := i.tokens.GenerateSessionToken(userID, email, role)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(i.cookieName, token, int(i.tokens.Expiry().Seconds()), "/", "", i.secure, true)
	return nil
}

func (i *Issuer) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(i.cookieName, "", -1, "/", "", i.secure, true)
}
