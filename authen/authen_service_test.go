package authen_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-library-server/authen"
	"github.com/jrsteele09/go-library-server/sessions"
	"github.com/jrsteele09/go-library-server/users"
	fakeuserrepo "github.com/jrsteele09/go-library-server/users/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testUsername = "maria.lopez"
	testPassword = "winter-reading-list"
	testUserID   = int64(7)
)

// fakeClock is a settable time source for the idle-timeout tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// testFixture holds all test dependencies
type testFixture struct {
	userRepo    *fakeuserrepo.FakeUserRepo
	sessionRepo *sessions.InMemoryRepo
	clock       *fakeClock
	service     *authen.Authenticator
}

func setupTestFixture(t *testing.T, options ...authen.Option) *testFixture {
	t.Helper()

	ur := fakeuserrepo.NewFakeUserRepo()
	sr := sessions.NewInMemoryRepo()
	clock := &fakeClock{now: time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)}

	opts := append([]authen.Option{authen.WithNowTime(clock.Now)}, options...)
	service, err := authen.New(authen.Repos{Users: ur, Sessions: sr}, opts...)
	require.NoError(t, err)

	return &testFixture{
		userRepo:    ur,
		sessionRepo: sr,
		clock:       clock,
		service:     service,
	}
}

func (f *testFixture) createUser(t *testing.T, user users.User, password string) {
	t.Helper()
	user.PasswordHash = users.HashPassword(password)
	require.NoError(t, f.userRepo.Upsert(context.Background(), &user))
}

func (f *testFixture) createActiveUser(t *testing.T) {
	t.Helper()
	f.createUser(t, users.User{
		ID:       testUserID,
		Username: testUsername,
		Role:     users.RoleLibrarian,
		Status:   users.StatusActive,
	}, testPassword)
}

func (f *testFixture) login(t *testing.T) string {
	t.Helper()
	result, err := f.service.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotEmpty(t, result.Token)
	return result.Token
}

func TestNewRequiresSessionRepo(t *testing.T) {
	_, err := authen.New(authen.Repos{Users: fakeuserrepo.NewFakeUserRepo()})
	require.Error(t, err)
}

func TestLoginMissingInput(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", testPassword},
		{"empty password", testUsername, ""},
		{"both empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := f.service.Login(context.Background(), tc.username, tc.password)
			require.NoError(t, err)
			require.False(t, result.Success)
			require.Equal(t, authen.KindInvalidInput, result.Kind)
			require.Empty(t, result.Token)
		})
	}

	require.Equal(t, 0, f.sessionRepo.Len())
}

func TestLoginWithoutUserStore(t *testing.T) {
	service, err := authen.New(authen.Repos{Sessions: sessions.NewInMemoryRepo()})
	require.NoError(t, err)

	result, err := service.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, authen.KindNotConfigured, result.Kind)
}

func TestLoginDoesNotLeakUsernames(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)

	unknownUser, err := f.service.Login(context.Background(), "no.such.user", testPassword)
	require.NoError(t, err)
	wrongPassword, err := f.service.Login(context.Background(), testUsername, "not-the-password")
	require.NoError(t, err)

	require.False(t, unknownUser.Success)
	require.False(t, wrongPassword.Success)
	require.Equal(t, authen.KindInvalidCredentials, unknownUser.Kind)
	require.Equal(t, authen.KindInvalidCredentials, wrongPassword.Kind)

	// Identical message for unknown username and wrong password.
	require.Equal(t, wrongPassword.Message, unknownUser.Message)
	require.Equal(t, 0, f.sessionRepo.Len())
}

func TestLoginInactiveAccount(t *testing.T) {
	f := setupTestFixture(t)
	f.createUser(t, users.User{
		ID:       11,
		Username: "dormant",
		Role:     users.RoleMember,
		Status:   users.StatusInactive,
	}, testPassword)

	result, err := f.service.Login(context.Background(), "dormant", testPassword)
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, authen.KindAccountInactive, result.Kind)
	require.Equal(t, 0, f.sessionRepo.Len())
}

func TestLoginSuccess(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)

	result, err := f.service.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, testUserID, result.UserID)
	require.Equal(t, users.RoleLibrarian, result.Role)
	require.NotEmpty(t, result.Token)
	require.Equal(t, 1, f.sessionRepo.Len())
}

func TestLoginIssuesDistinctTokens(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		token := f.login(t)
		_, dup := seen[token]
		require.False(t, dup, "token reuse across logins")
		seen[token] = struct{}{}
	}
}

func TestVerifyAfterLogin(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)
	token := f.login(t)

	result, err := f.service.VerifySession(context.Background(), token)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, testUserID, result.UserID)
	require.Equal(t, users.RoleLibrarian, result.Role)
}

func TestVerifyUnknownToken(t *testing.T) {
	f := setupTestFixture(t)

	result, err := f.service.VerifySession(context.Background(), "never-issued")
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, authen.KindInvalidOrExpired, result.Kind)
}

func TestVerifyExpiresIdleSession(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)
	token := f.login(t)

	f.clock.Advance(authen.DefaultIdleTimeout + time.Second)

	expired, err := f.service.VerifySession(context.Background(), token)
	require.NoError(t, err)
	require.False(t, expired.Valid)
	require.Equal(t, authen.KindExpired, expired.Kind)

	// Entry was evicted, so a second verify no longer distinguishes it
	// from a token that never existed.
	gone, err := f.service.VerifySession(context.Background(), token)
	require.NoError(t, err)
	require.False(t, gone.Valid)
	require.Equal(t, authen.KindInvalidOrExpired, gone.Kind)
	require.Equal(t, 0, f.sessionRepo.Len())
}

func TestVerifyAtExactWindowBoundaryIsStillValid(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)
	token := f.login(t)

	// Elapsed == window is not past the window.
	f.clock.Advance(authen.DefaultIdleTimeout)

	result, err := f.service.VerifySession(context.Background(), token)
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestVerifySlidesTheWindow(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)
	token := f.login(t)

	// Keep checking at 20-minute intervals for far longer than the
	// 30-minute window; activity resets the clock every time.
	for i := 0; i < 12; i++ {
		f.clock.Advance(20 * time.Minute)
		result, err := f.service.VerifySession(context.Background(), token)
		require.NoError(t, err)
		require.True(t, result.Valid, "verification %d", i)
	}

	// Once activity stops, expiry is measured from the last refresh.
	f.clock.Advance(31 * time.Minute)
	result, err := f.service.VerifySession(context.Background(), token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, authen.KindExpired, result.Kind)
}

func TestLogout(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)
	token := f.login(t)

	result, err := f.service.Logout(context.Background(), token)
	require.NoError(t, err)
	require.True(t, result.Success)

	verify, err := f.service.VerifySession(context.Background(), token)
	require.NoError(t, err)
	require.False(t, verify.Valid)

	// Second logout on the same token is an invalid-session failure.
	again, err := f.service.Logout(context.Background(), token)
	require.NoError(t, err)
	require.False(t, again.Success)
	require.Equal(t, authen.KindInvalidSession, again.Kind)
}

func TestLogoutUnknownToken(t *testing.T) {
	f := setupTestFixture(t)

	result, err := f.service.Logout(context.Background(), "never-issued")
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, authen.KindInvalidSession, result.Kind)
}

func TestSessionOwner(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)
	token := f.login(t)

	owner, ok, err := f.service.SessionOwner(context.Background(), token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, testUserID, owner.UserID)
	require.Equal(t, testUsername, owner.Username)
	require.Equal(t, users.RoleLibrarian, owner.Role)

	_, ok, err = f.service.SessionOwner(context.Background(), "never-issued")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSessionOwnerDoesNotRefreshActivity(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)
	token := f.login(t)

	// Hammer the pure lookup just under the boundary; it must not slide
	// the window.
	f.clock.Advance(29 * time.Minute)
	for i := 0; i < 10; i++ {
		_, ok, err := f.service.SessionOwner(context.Background(), token)
		require.NoError(t, err)
		require.True(t, ok)
	}

	// Two more minutes push total idle past 30 minutes; the session
	// still expires on schedule.
	f.clock.Advance(2 * time.Minute)
	result, err := f.service.VerifySession(context.Background(), token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, authen.KindExpired, result.Kind)
}

func TestDeactivationAfterLoginKeepsSessionAlive(t *testing.T) {
	f := setupTestFixture(t)
	f.createActiveUser(t)
	token := f.login(t)

	require.NoError(t, f.userRepo.SetStatus(context.Background(), testUsername, users.StatusInactive))

	// Existing session is not retroactively invalidated.
	result, err := f.service.VerifySession(context.Background(), token)
	require.NoError(t, err)
	require.True(t, result.Valid)

	// But a fresh login is refused.
	login, err := f.service.Login(context.Background(), testUsername, testPassword)
	require.NoError(t, err)
	require.False(t, login.Success)
	require.Equal(t, authen.KindAccountInactive, login.Kind)
}

func TestCustomIdleTimeout(t *testing.T) {
	f := setupTestFixture(t, authen.WithIdleTimeout(5*time.Minute))
	f.createActiveUser(t)
	token := f.login(t)

	f.clock.Advance(6 * time.Minute)
	result, err := f.service.VerifySession(context.Background(), token)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, authen.KindExpired, result.Kind)
}
