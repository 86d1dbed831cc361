package session_test

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-lessons/pkg/simplelessons"
	"github.com/tendant/simple-lessons/pkg/simplelessons/session"
)

func TestStaticProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("fixed owner", func(t *testing.T) {
		p := session.NewStatic("owner-1")
		require.NoError(t, p.Init(ctx))

		sess, err := p.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "owner-1", sess.OwnerID)
	})

	t.Run("empty owner is unauthenticated", func(t *testing.T) {
		p := session.NewStatic("")
		_, err := p.Current(ctx)
		assert.ErrorIs(t, err, simplelessons.ErrUnauthenticated)
	})

	t.Run("switch and clear", func(t *testing.T) {
		p := session.NewStatic("owner-1")

		var seen []string
		p.OnChange(func(s simplelessons.Session) {
			seen = append(seen, s.OwnerID)
		})

		p.SetSession(simplelessons.Session{OwnerID: "owner-2", Email: "two@example.com"})
		sess, err := p.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "owner-2", sess.OwnerID)
		assert.Equal(t, "two@example.com", sess.Email)

		p.Clear()
		_, err = p.Current(ctx)
		assert.ErrorIs(t, err, simplelessons.ErrUnauthenticated)

		assert.Equal(t, []string{"owner-2", ""}, seen)
	})
}

func TestJWTProvider(t *testing.T) {
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)

	contextWithClaims := func(t *testing.T, claims map[string]interface{}) context.Context {
		t.Helper()
		tok, _, err := tokenAuth.Encode(claims)
		require.NoError(t, err)
		return jwtauth.NewContext(context.Background(), tok, nil)
	}

	t.Run("reads sub and email claims", func(t *testing.T) {
		p := session.NewJWT()
		require.NoError(t, p.Init(context.Background()))

		ctx := contextWithClaims(t, map[string]interface{}{
			"sub":   "owner-1",
			"email": "one@example.com",
		})

		sess, err := p.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "owner-1", sess.OwnerID)
		assert.Equal(t, "one@example.com", sess.Email)
	})

	t.Run("custom owner claim", func(t *testing.T) {
		p := session.NewJWTWithClaim("uid")

		ctx := contextWithClaims(t, map[string]interface{}{"uid": "owner-9"})

		sess, err := p.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, "owner-9", sess.OwnerID)
	})

	t.Run("missing owner claim", func(t *testing.T) {
		p := session.NewJWT()

		ctx := contextWithClaims(t, map[string]interface{}{"email": "anon@example.com"})

		_, err := p.Current(ctx)
		assert.ErrorIs(t, err, simplelessons.ErrUnauthenticated)
	})

	t.Run("no token on context", func(t *testing.T) {
		p := session.NewJWT()

		_, err := p.Current(context.Background())
		assert.ErrorIs(t, err, simplelessons.ErrUnauthenticated)
	})
}
