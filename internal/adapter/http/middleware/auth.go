package middleware

import (
	"net/http"
	"strings"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"
	"bookinghub/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextIdentity = "identity"
	ContextSubject  = "sub"
	ContextRole     = "role"
)

var (
	errMissingToken = pkg.NewDomainErrorSimple("AUTH", "Missing bearer token", http.StatusUnauthorized)
	errInvalidToken = pkg.NewDomainErrorSimple("AUTH", "Invalid or expired token", http.StatusUnauthorized)
	errRoleDenied   = pkg.NewDomainErrorSimple("FORBIDDEN", "Role not allowed for this resource", http.StatusForbidden)
)

// Auth resolves the bearer token of the request to an identity and stores it
// in the gin context.
func Auth(verifier interfaces.IIdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(errMissingToken.HTTPStatus, errMissingToken.ToHTTPError())
			return
		}
		identity, err := verifier.Verify(strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(errInvalidToken.HTTPStatus, errInvalidToken.ToHTTPError())
			return
		}
		c.Set(ContextIdentity, identity)
		c.Set(ContextSubject, identity.SubjectID)
		c.Set(ContextRole, string(identity.Role))
		c.Next()
	}
}

func RequireRole(roles ...entities.Role) gin.HandlerFunc {
	allowed := map[entities.Role]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		if _, ok := allowed[identity.Role]; !ok {
			c.AbortWithStatusJSON(errRoleDenied.HTTPStatus, errRoleDenied.ToHTTPError())
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Auth.
func IdentityFrom(c *gin.Context) (entities.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return entities.Identity{}, false
	}
	identity, ok := v.(entities.Identity)
	return identity, ok
}
