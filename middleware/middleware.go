package middleware

import (
	"context"
	"errors"
	"net/http"

	"docportal/auth"
	"docportal/utils"

	"github.com/julienschmidt/httprouter"
)

type ContextKey string

const EmailKey ContextKey = "email"

// RoleFunc resolves the stored role for an identity. It is consulted on
// every admin-gated call, never cached, so a role change is visible on
// the very next request. An identity with no user record resolves to
// "patient".
type RoleFunc func(ctx context.Context, email string) (string, error)

// Gate applies the three access tiers: public routes are registered
// bare, Authenticate covers the authenticated tier, AdminOnly the admin
// tier.
type Gate struct {
	tokens *auth.Tokens
	roleOf RoleFunc
}

func NewGate(tokens *auth.Tokens, roleOf RoleFunc) *Gate {
	return &Gate{tokens: tokens, roleOf: roleOf}
}

func (g *Gate) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := g.tokens.FromHeader(r)
		if err != nil {
			if errors.Is(err, auth.ErrMissingToken) {
				utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized Access")
			} else {
				utils.RespondWithError(w, http.StatusForbidden, "Forbidden Access")
			}
			return
		}

		ctx := context.WithValue(r.Context(), EmailKey, claims.Email)
		next(w, r.WithContext(ctx), ps)
	}
}

func (g *Gate) AdminOnly(next httprouter.Handle) httprouter.Handle {
	return g.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		email, _ := Email(r.Context())
		role, err := g.roleOf(r.Context(), email)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if role != "admin" {
			utils.RespondWithError(w, http.StatusForbidden, "Forbidden Access")
			return
		}
		next(w, r, ps)
	})
}

// Email returns the identity attached by Authenticate.
func Email(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}
