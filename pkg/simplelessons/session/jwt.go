package session

import (
	"context"
	"fmt"

	"github.com/go-chi/jwtauth"
	"github.com/tendant/simple-lessons/pkg/simplelessons"
)

// JWTProvider derives the caller session from go-chi/jwtauth claims carried
// on the request context. Pair it with jwtauth.Verifier middleware on the
// router; any request without a verifiable token is unauthenticated.
//
// Identity is per request, so OnChange callbacks are never invoked.
type JWTProvider struct {
	ownerClaim string
}

// NewJWT creates a provider reading the owner id from the "sub" claim.
func NewJWT() *JWTProvider {
	return &JWTProvider{ownerClaim: "sub"}
}

// NewJWTWithClaim creates a provider reading the owner id from a custom claim.
func NewJWTWithClaim(claim string) *JWTProvider {
	return &JWTProvider{ownerClaim: claim}
}

func (p *JWTProvider) Init(ctx context.Context) error { return nil }

func (p *JWTProvider) Current(ctx context.Context) (simplelessons.Session, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return simplelessons.Session{}, fmt.Errorf("%w: %v", simplelessons.ErrUnauthenticated, err)
	}

	ownerID, _ := claims[p.ownerClaim].(string)
	if ownerID == "" {
		return simplelessons.Session{}, fmt.Errorf("%w: missing %s claim", simplelessons.ErrUnauthenticated, p.ownerClaim)
	}

	email, _ := claims["email"].(string)
	return simplelessons.Session{OwnerID: ownerID, Email: email}, nil
}

func (p *JWTProvider) OnChange(fn func(simplelessons.Session)) {}
