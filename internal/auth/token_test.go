package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueAndParseToken(t *testing.T) {
	actor := Actor{UserID: "u1", Name: "supplier one", Role: RoleSupplier, BPCode: "BP001"}

	raw, err := IssueToken(actor, testSecret, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseToken(raw, testSecret)
	require.NoError(t, err)
	require.Equal(t, actor, parsed)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	raw, err := IssueToken(Actor{UserID: "u1", Role: RoleFinance}, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(raw, "other-secret")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	raw, err := IssueToken(Actor{UserID: "u1", Role: RoleFinance}, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(raw, testSecret)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("", testSecret)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ParseToken("not.a.token", testSecret)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestActorContextRoundTrip(t *testing.T) {
	actor := Actor{UserID: "u1", Role: RoleSuperAdmin}

	ctx := WithActor(context.Background(), actor)
	got, ok := ActorFrom(ctx)
	require.True(t, ok)
	require.Equal(t, actor, got)

	_, ok = ActorFrom(context.Background())
	require.False(t, ok)
}
