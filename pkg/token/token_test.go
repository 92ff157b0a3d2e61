package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/identitykit/pkg/token"
)

func TestKindSlotName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "__ucs", token.KindService.SlotName())
	assert.Equal(t, "__uas", token.KindAccess.SlotName())
	assert.Equal(t, "__urs", token.KindRefresh.SlotName())
	assert.Equal(t, "", token.Kind("bogus").SlotName())
}

func TestNew(t *testing.T) {
	t.Parallel()

	tok := token.New(token.KindAccess, "  abc  ", -5, -10)
	assert.Equal(t, "abc", tok.Value)
	assert.Equal(t, int64(0), tok.ExpiresIn)
	assert.Equal(t, int64(0), tok.ExpiresAt)
	assert.Equal(t, "/", tok.Path)
}

func TestTokenValid(t *testing.T) {
	t.Parallel()

	assert.False(t, token.Token{}.Valid())
	assert.False(t, token.New(token.KindAccess, "   ", 0, 0).Valid())
	assert.True(t, token.New(token.KindAccess, "abc", 0, 0).Valid())
}

func TestTokenExpired(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name      string
		expiresAt int64
		expired   bool
	}{
		{"unknown expiry is not expired", 0, false},
		{"future expiry", now.Unix() + 100, false},
		{"past expiry", now.Unix() - 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tok := token.New(token.KindAccess, "abc", 0, tt.expiresAt)
			assert.Equal(t, tt.expired, tok.Expired(now))
		})
	}
}

func TestSchedule(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)

	adjusted, expiresAt, refreshAt := token.Schedule(1000, now)
	require.Equal(t, int64(900), adjusted, "10%% safety margin must be applied")
	require.Equal(t, now.Unix()+900, expiresAt)
	require.Equal(t, expiresAt+1_036_800, refreshAt, "refresh expiry is access expiry plus 12 days")
}

func TestScheduleDefaultExpiresIn(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)

	adjusted, expiresAt, _ := token.Schedule(0, now)
	assert.Equal(t, int64(810), adjusted, "default 900s minus the safety margin")
	assert.Equal(t, now.Unix()+810, expiresAt)
}
