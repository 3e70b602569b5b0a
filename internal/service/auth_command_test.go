package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OscarGAV/eventrely-backend/internal/errs"
	"github.com/OscarGAV/eventrely-backend/internal/memstore"
	"github.com/OscarGAV/eventrely-backend/internal/model"
	"github.com/OscarGAV/eventrely-backend/internal/utils"
)

var fixedNow = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func newAuth(t *testing.T) (*AuthCommandService, *memstore.Users, *utils.TokenService) {
	t.Helper()
	tokens, err := utils.NewTokenService("secret", 0, 0)
	require.NoError(t, err)
	users := memstore.NewUsers()
	svc := NewAuthCommandService(users, plainHasher{}, tokens, nil).WithClock(func() time.Time { return fixedNow })
	return svc, users, tokens
}

func signUpAlice(t *testing.T, svc *AuthCommandService) *AuthResult {
	t.Helper()
	res, err := svc.SignUp(context.Background(), SignUpInput{
		Username: "alice", Email: "alice@x.com", Password: "password123", Role: "general_user",
	})
	require.NoError(t, err)
	return res
}

func TestSignUp_OK(t *testing.T) {
	svc, _, tokens := newAuth(t)
	res := signUpAlice(t, svc)

	assert.Equal(t, uint64(1), res.User.ID)
	assert.True(t, res.User.IsActive)
	assert.Equal(t, model.RoleGeneral, res.User.Role)
	assert.Equal(t, "h:password123", res.User.PasswordHash)

	claims, err := tokens.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, utils.TokenTypeAccess, claims.Type)
	assert.Equal(t, "alice", claims.Username)

	claims, err = tokens.Verify(res.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, utils.TokenTypeRefresh, claims.Type)
}

func TestSignUp_ConflictIgnoresCaseAndSpace(t *testing.T) {
	svc, _, _ := newAuth(t)
	signUpAlice(t, svc)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Username: "  ALICE ", Email: "other@x.com", Password: "password123"})
	require.ErrorIs(t, err, errs.ErrConflict)
	require.Equal(t, "Username already registered", errs.Message(err))

	_, err = svc.SignUp(ctx, SignUpInput{Username: "bob", Email: " Alice@X.COM", Password: "password123"})
	require.ErrorIs(t, err, errs.ErrConflict)
	require.Equal(t, "Email already registered", errs.Message(err))
}

func TestSignUp_Validation(t *testing.T) {
	svc, users, _ := newAuth(t)
	ctx := context.Background()
	longName := strings.Repeat("n", model.FullNameMaxLen+1)
	cases := []SignUpInput{
		{Username: "bob", Email: strings.Repeat("b", model.EmailMaxLen-5) + "@x.com", Password: "password123"},
		{Username: "bob", Email: "bob@x.com", Password: "password123", FullName: &longName},
		{Username: "bob", Email: "bob@x.com", Password: "éééé"},
		{Username: "bob", Email: "no-at", Password: "password123"},
		{Username: "bo", Email: "bob@x.com", Password: "password123"},
		{Username: "bob!", Email: "bob@x.com", Password: "password123"},
		{Username: "bob", Email: "bob@x.com", Password: "short"},
		{Username: "bob", Email: "bob@x.com", Password: "password123", Role: "superuser"},
	}
	for _, in := range cases {
		_, err := svc.SignUp(ctx, in)
		require.ErrorIs(t, err, errs.ErrValidation, "%+v", in)
	}
	all, _ := users.ListAll(ctx)
	require.Empty(t, all)
}

func TestSignUp_AdminAllowed(t *testing.T) {
	svc, _, _ := newAuth(t)
	res, err := svc.SignUp(context.Background(), SignUpInput{Username: "root", Email: "root@x.com", Password: "password123", Role: "admin_user"})
	require.NoError(t, err)
	require.True(t, res.User.IsAdmin())
}

func TestSignIn(t *testing.T) {
	svc, users, _ := newAuth(t)
	alice := signUpAlice(t, svc)
	ctx := context.Background()

	res, err := svc.SignIn(ctx, "alice", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)

	_, err = svc.SignIn(ctx, "ALICE@x.com", "password123")
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, errs.ErrAuth)
	wrongPass := errs.Message(err)

	_, err = svc.SignIn(ctx, "nobody", "password123")
	require.ErrorIs(t, err, errs.ErrAuth)
	require.Equal(t, wrongPass, errs.Message(err))

	u, _ := users.GetByID(ctx, alice.User.ID)
	require.NoError(t, u.Deactivate(fixedNow))
	require.NoError(t, users.Update(ctx, u))

	_, err = svc.SignIn(ctx, "alice", "password123")
	require.ErrorIs(t, err, errs.ErrAuth)
	require.NotEqual(t, wrongPass, errs.Message(err))
}

func TestRefreshAccessToken(t *testing.T) {
	svc, users, tokens := newAuth(t)
	alice := signUpAlice(t, svc)
	ctx := context.Background()

	access, err := svc.RefreshAccessToken(ctx, alice.RefreshToken)
	require.NoError(t, err)
	claims, err := tokens.Verify(access)
	require.NoError(t, err)
	require.Equal(t, utils.TokenTypeAccess, claims.Type)

	_, err = svc.RefreshAccessToken(ctx, alice.AccessToken)
	require.ErrorIs(t, err, errs.ErrAuth)

	_, err = svc.RefreshAccessToken(ctx, "garbage")
	require.ErrorIs(t, err, errs.ErrAuth)

	require.NoError(t, svc.DeactivateUser(ctx, alice.User))
	_, err = svc.RefreshAccessToken(ctx, alice.RefreshToken)
	require.ErrorIs(t, err, errs.ErrAuth)

	users.Remove(alice.User.ID)
	_, err = svc.RefreshAccessToken(ctx, alice.RefreshToken)
	require.ErrorIs(t, err, errs.ErrAuth)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newAuth(t)
	alice := signUpAlice(t, svc)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, alice.User, "nope-nope", "newpassword1")
	require.ErrorIs(t, err, errs.ErrDomain)

	err = svc.ChangePassword(ctx, alice.User, "password123", "short")
	require.ErrorIs(t, err, errs.ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, alice.User, "password123", "newpassword1"))
	_, err = svc.SignIn(ctx, "alice", "newpassword1")
	require.NoError(t, err)
	_, err = svc.SignIn(ctx, "alice", "password123")
	require.ErrorIs(t, err, errs.ErrAuth)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newAuth(t)
	alice := signUpAlice(t, svc)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, SignUpInput{Username: "bob", Email: "bob@x.com", Password: "password123"})
	require.NoError(t, err)

	taken := "BOB@x.com"
	_, err = svc.UpdateProfile(ctx, alice.User, nil, &taken)
	require.ErrorIs(t, err, errs.ErrConflict)

	same := "alice@x.com"
	name := "Alice L."
	u, err := svc.UpdateProfile(ctx, alice.User, &name, &same)
	require.NoError(t, err)
	require.Equal(t, "Alice L.", *u.FullName)

	bad := "nope"
	_, err = svc.UpdateProfile(ctx, alice.User, nil, &bad)
	require.ErrorIs(t, err, errs.ErrDomain)
}

func TestDeactivateAndActivate(t *testing.T) {
	svc, _, _ := newAuth(t)
	alice := signUpAlice(t, svc)
	ctx := context.Background()
	admin, err := svc.SignUp(ctx, SignUpInput{Username: "root", Email: "root@x.com", Password: "password123", Role: "admin_user"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(ctx, alice.User))

	inactive := *alice.User
	inactive.IsActive = false
	require.ErrorIs(t, svc.DeactivateUser(ctx, &inactive), errs.ErrAuth)

	_, err = svc.ActivateUser(ctx, alice.User, alice.User.ID)
	require.ErrorIs(t, err, errs.ErrForbidden)

	u, err := svc.ActivateUser(ctx, admin.User, alice.User.ID)
	require.NoError(t, err)
	require.True(t, u.IsActive)

	_, err = svc.ActivateUser(ctx, admin.User, alice.User.ID)
	require.ErrorIs(t, err, errs.ErrDomain)

	_, err = svc.ActivateUser(ctx, admin.User, 999)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserQueries(t *testing.T) {
	svc, users, _ := newAuth(t)
	alice := signUpAlice(t, svc)
	ctx := context.Background()
	admin, err := svc.SignUp(ctx, SignUpInput{Username: "root", Email: "root@x.com", Password: "password123", Role: "admin_user"})
	require.NoError(t, err)
	q := NewUserQueryService(users)

	u, err := q.GetUserByID(ctx, alice.User.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	_, err = q.GetUserByID(ctx, 42)
	require.ErrorIs(t, err, errs.ErrNotFound)

	u, err = q.GetUserByUsername(ctx, " ALICE ")
	require.NoError(t, err)
	require.Equal(t, alice.User.ID, u.ID)
	u, err = q.GetUserByEmail(ctx, "Alice@X.com")
	require.NoError(t, err)
	require.Equal(t, alice.User.ID, u.ID)
	_, err = q.GetUserByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = q.ListUsers(ctx, alice.User)
	require.ErrorIs(t, err, errs.ErrForbidden)

	all, err := q.ListUsers(ctx, admin.User)
	require.NoError(t, err)
	require.Len(t, all, 2)

	users.GetErr = errBoom
	_, err = q.GetUserByID(ctx, alice.User.ID)
	require.ErrorIs(t, err, errBoom)
}
