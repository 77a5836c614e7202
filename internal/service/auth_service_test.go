package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
)

type fakeAuthRepo struct {
	users         map[string]*models.User
	refreshTokens map[string]*models.RefreshToken
	revokedIDs    []string
	lastLoginSet  bool
}

func newFakeAuthRepo(users ...*models.User) *fakeAuthRepo {
	repo := &fakeAuthRepo{users: map[string]*models.User{}, refreshTokens: map[string]*models.RefreshToken{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeAuthRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeAuthRepo) UpdateLastLogin(context.Context, string, time.Time) error {
	f.lastLoginSet = true
	return nil
}

func (f *fakeAuthRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	f.refreshTokens[token.Token] = token
	return nil
}

func (f *fakeAuthRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := f.refreshTokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return stored, nil
}

func (f *fakeAuthRepo) RevokeRefreshToken(_ context.Context, id string, _ time.Time) error {
	f.revokedIDs = append(f.revokedIDs, id)
	for _, token := range f.refreshTokens {
		if token.ID == id {
			token.Revoked = true
		}
	}
	return nil
}

func (f *fakeAuthRepo) RevokeUserRefreshTokens(context.Context, string) error {
	return nil
}

type fakeAudit struct {
	entries []*models.AuditLog
}

func (f *fakeAudit) Create(_ context.Context, log *models.AuditLog) error {
	f.entries = append(f.entries, log)
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "asset-console",
	}
}

func testUser(t *testing.T) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "user-1",
		Username:     "cdr.rao",
		Name:         "Commander Rao",
		Email:        "rao@example.mil",
		PasswordHash: string(hash),
		Role:         models.RoleBaseCommander,
		BaseID:       "base-1",
		Active:       true,
	}
}

func TestAuthLogin_IssuesTokensAndAudits(t *testing.T) {
	user := testUser(t)
	repo := newFakeAuthRepo(user)
	audit := &fakeAudit{}
	svc := NewAuthService(repo, audit, nil, zap.NewNop(), testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "cdr.rao", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, models.RoleBaseCommander, resp.User.Role)
	assert.Contains(t, resp.User.Permissions, models.PermApprovePurchases)
	assert.True(t, repo.lastLoginSet)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionLogin, audit.entries[0].Action)
	assert.Equal(t, models.EntityTypeAuth, audit.entries[0].EntityType)
	assert.Equal(t, user.ID, audit.entries[0].UserID)
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	repo := newFakeAuthRepo(testUser(t))
	svc := NewAuthService(repo, &fakeAudit{}, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "cdr.rao", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLogin_UnknownUsernameSameError(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, &fakeAudit{}, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLogin_InactiveAccount(t *testing.T) {
	user := testUser(t)
	user.Active = false
	svc := NewAuthService(newFakeAuthRepo(user), &fakeAudit{}, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "cdr.rao", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateToken_RoundTrip(t *testing.T) {
	user := testUser(t)
	repo := newFakeAuthRepo(user)
	svc := NewAuthService(repo, &fakeAudit{}, nil, zap.NewNop(), testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "cdr.rao", Password: "s3cret-pass"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleBaseCommander, claims.Role)
	assert.Equal(t, "base-1", claims.BaseID)
	assert.True(t, claims.Can(models.PermApproveTransfers))
	assert.False(t, claims.Can(models.PermManageUsers))
}

func TestAuthValidateToken_Garbage(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), &fakeAudit{}, nil, zap.NewNop(), testAuthConfig())

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthRefresh_RotatesToken(t *testing.T) {
	user := testUser(t)
	repo := newFakeAuthRepo(user)
	svc := NewAuthService(repo, &fakeAudit{}, nil, zap.NewNop(), testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "cdr.rao", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)

	// the consumed token cannot be replayed
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthLogout_RevokesAndAudits(t *testing.T) {
	user := testUser(t)
	repo := newFakeAuthRepo(user)
	audit := &fakeAudit{}
	svc := NewAuthService(repo, audit, nil, zap.NewNop(), testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "cdr.rao", Password: "s3cret-pass"})
	require.NoError(t, err)

	actor := &models.JWTClaims{UserID: user.ID, Name: user.Name, Role: user.Role}
	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken, actor))
	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)

	require.Len(t, audit.entries, 2)
	assert.Equal(t, models.AuditActionLogout, audit.entries[1].Action)
}

func TestAuthLogout_ForeignTokenDenied(t *testing.T) {
	user := testUser(t)
	repo := newFakeAuthRepo(user)
	svc := NewAuthService(repo, &fakeAudit{}, nil, zap.NewNop(), testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "cdr.rao", Password: "s3cret-pass"})
	require.NoError(t, err)

	other := &models.JWTClaims{UserID: "someone-else", Role: models.RoleAdmin}
	err = svc.Logout(context.Background(), login.RefreshToken, other)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPermissionDenied.Code, appErrors.FromError(err).Code)
}
