package auth

import (
	"testing"
	"time"

	"github.com/smallbiznis/kantin/internal/clock"
	"github.com/smallbiznis/kantin/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *clock.FakeClock) {
	t.Helper()
	fake := clock.NewFakeClock(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC))
	svc, err := New(Params{
		Cfg: config.Config{
			AdminUsername:     "admin",
			AdminPassword:     "admin123",
			SessionTTLMinutes: 60,
		},
		Log:   zap.NewNop(),
		Clock: fake,
	})
	require.NoError(t, err)
	return svc, fake
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)

	sess, err := svc.Login("admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "admin", sess.Username)
	assert.Equal(t, time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), sess.ExpiresAt)

	got, ok := svc.Validate(sess.Token)
	require.True(t, ok)
	assert.Equal(t, sess.Token, got.Token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("someone", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateUnknownToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, ok := svc.Validate("nope")
	assert.False(t, ok)

	_, ok = svc.Validate("")
	assert.False(t, ok)
}

func TestSessionExpiry(t *testing.T) {
	svc, fake := newTestService(t)

	sess, err := svc.Login("admin", "admin123")
	require.NoError(t, err)

	fake.Advance(59 * time.Minute)
	_, ok := svc.Validate(sess.Token)
	assert.True(t, ok)

	fake.Advance(time.Minute)
	_, ok = svc.Validate(sess.Token)
	assert.False(t, ok)

	// expired token is evicted, not just hidden
	fake.Advance(-30 * time.Minute)
	_, ok = svc.Validate(sess.Token)
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	svc, _ := newTestService(t)

	sess, err := svc.Login("admin", "admin123")
	require.NoError(t, err)

	svc.Logout(sess.Token)
	_, ok := svc.Validate(sess.Token)
	assert.False(t, ok)

	svc.Logout("unknown")
}
