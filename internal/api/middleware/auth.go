package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/contestify/contest-api/internal/api/handler/v1/response"
	"github.com/contestify/contest-api/internal/pkg/jwthelper"
)

const principalKey = "principal"

var errMissingBearer = errors.New("missing bearer token")

type Authenticator struct {
	key []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		key: []byte(signingKey),
	}
}

// VerifyJWT resolves the bearer token to the principal email and stores it on
// the gin context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingBearer))
			return
		}

		email, err := jwthelper.ParseToken(a.key, strings.TrimSpace(token))
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Set(principalKey, email)
		ctx.Next()
	}
}

// Principal returns the email stored by VerifyJWT.
func Principal(ctx *gin.Context) string {
	return ctx.GetString(principalKey)
}

// WithPrincipal stores a principal directly. Handler tests use it in place of
// a signed token.
func WithPrincipal(email string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(principalKey, email)
		ctx.Next()
	}
}
