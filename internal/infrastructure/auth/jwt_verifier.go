package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"bookinghub/internal/domain/entities"
	"bookinghub/internal/usecase/interfaces"

	jwt "github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTVerifier checks HS256 bearer tokens issued by the account service and
// resolves them to an Identity.
type JWTVerifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

var _ interfaces.IIdentityVerifier = (*JWTVerifier)(nil)

func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, now: time.Now}
}

func (v *JWTVerifier) Verify(credential string) (entities.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return entities.Identity{}, fmt.Errorf("%w: empty", interfaces.ErrInvalidCredential)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	t, err := jwt.ParseWithClaims(credential, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return entities.Identity{}, fmt.Errorf("%w: %w", interfaces.ErrInvalidCredential, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return entities.Identity{}, fmt.Errorf("%w: invalid token", interfaces.ErrInvalidCredential)
	}

	subject := strings.TrimSpace(c.Sub)
	// group stream keys share the subject namespace
	if subject == "" || entities.IsGroupStreamKey(subject) {
		return entities.Identity{}, fmt.Errorf("%w: invalid subject", interfaces.ErrInvalidCredential)
	}
	role, ok := entities.ParseRole(c.Role)
	if !ok {
		return entities.Identity{}, fmt.Errorf("%w: unknown role %q", interfaces.ErrInvalidCredential, c.Role)
	}

	id := entities.Identity{SubjectID: subject, Role: role}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id, nil
}

// Issue signs a token for subject and role. Production tokens come from the
// account service; this one serves tests and local tooling.
func (v *JWTVerifier) Issue(subject string, role entities.Role, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}
	now := v.now()
	claims := Claims{
		Sub:  subject,
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
