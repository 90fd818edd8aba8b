package session

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestGate(t *testing.T, clock *testClock) *Gate {
	t.Helper()
	gate, err := NewGate(NewPlainVerifier("admin123"), []byte("test-signing-key"), WithClock(clock.Now))
	require.NoError(t, err)
	return gate
}

func TestAuthenticateWrongPassword(t *testing.T) {
	gate := newTestGate(t, &testClock{now: time.Now()})

	_, err := gate.Authenticate("nope")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticateCheckRevoke(t *testing.T) {
	clock := &testClock{now: time.Now()}
	gate := newTestGate(t, clock)

	cred, err := gate.Authenticate("admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, cred.Value)
	assert.WithinDuration(t, clock.Now().Add(DefaultTTL), cred.ExpiresAt, time.Second)
	assert.True(t, gate.Check(cred.Value))

	tombstone := gate.Revoke()
	assert.True(t, tombstone.Expired())
	assert.False(t, gate.Check(tombstone.Value))
	assert.False(t, gate.Check(""))
}

func TestCheckRejectsExpiredCredential(t *testing.T) {
	clock := &testClock{now: time.Now()}
	gate := newTestGate(t, clock)

	cred, err := gate.Authenticate("admin123")
	require.NoError(t, err)

	clock.Advance(DefaultTTL + time.Minute)
	assert.False(t, gate.Check(cred.Value))
}

func TestCheckRejectsForeignSignature(t *testing.T) {
	clock := &testClock{now: time.Now()}
	gate := newTestGate(t, clock)
	other, err := NewGate(NewPlainVerifier("admin123"), []byte("another-key"), WithClock(clock.Now))
	require.NoError(t, err)

	cred, err := other.Authenticate("admin123")
	require.NoError(t, err)

	assert.False(t, gate.Check(cred.Value))
	assert.False(t, gate.Check("authenticated"))
	assert.False(t, gate.Check(cred.Value+"x"))
}

func TestRandomKeyWhenUnset(t *testing.T) {
	first, err := NewGate(NewPlainVerifier("pw"), nil)
	require.NoError(t, err)
	second, err := NewGate(NewPlainVerifier("pw"), nil)
	require.NoError(t, err)

	cred, err := first.Authenticate("pw")
	require.NoError(t, err)
	assert.True(t, first.Check(cred.Value))
	assert.False(t, second.Check(cred.Value))
}

func TestWithTTL(t *testing.T) {
	gate, err := NewGate(NewPlainVerifier("pw"), []byte("k"), WithTTL(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, gate.TTL())

	gate, err = NewGate(NewPlainVerifier("pw"), []byte("k"), WithTTL(0))
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, gate.TTL())
}

func TestNewGateRequiresVerifier(t *testing.T) {
	_, err := NewGate(nil, []byte("k"))
	require.Error(t, err)
}

func TestPlainVerifier(t *testing.T) {
	v := NewPlainVerifier("secret")
	assert.True(t, v.Verify("secret"))
	assert.False(t, v.Verify("Secret"))
	assert.False(t, v.Verify(""))
	assert.False(t, NewPlainVerifier("").Verify(""))
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	v, err := NewBcryptVerifier(hash)
	require.NoError(t, err)
	assert.True(t, v.Verify("secret"))
	assert.False(t, v.Verify("other"))

	_, err = NewBcryptVerifier("not-a-hash")
	require.Error(t, err)
}
