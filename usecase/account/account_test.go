package account_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskbox/domain"
	"github.com/fastygo/taskbox/internal/security"
	"github.com/fastygo/taskbox/internal/testutil"
	"github.com/fastygo/taskbox/repository"
	"github.com/fastygo/taskbox/repository/boltdb"
	"github.com/fastygo/taskbox/usecase/account"
)

type fixture struct {
	uc          *account.UseCase
	accounts    repository.AccountRepository
	tokens      *security.TokenManager
	revocations *testutil.MemoryRevocations
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := boltdb.Open(filepath.Join(t.TempDir(), "taskbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := boltdb.NewStore(db)
	tokens := security.NewTokenManager("test-secret", "taskbox")
	revocations := testutil.NewMemoryRevocations()
	return fixture{
		uc:          account.New(store.Accounts, revocations, tokens, security.NewPasswordHasher(), nil),
		accounts:    store.Accounts,
		tokens:      tokens,
		revocations: revocations,
	}
}

func TestRegister_TokenIdentifiesNewAccount(t *testing.T) {
	f := newFixture(t)

	result, err := f.uc.Register(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", result.Account.Email)
	assert.Empty(t, result.Account.PasswordHash)

	session, err := f.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Account.ID, session.AccountID)

	stored, err := f.accounts.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.uc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = f.uc.Register(ctx, "a@x.com", "different-password")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	count, err := f.accounts.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	_, err = f.uc.Login(ctx, "a@x.com", "secret1")
	assert.NoError(t, err, "first account keeps its password")

	stored, err := f.accounts.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, first.Account.ID, stored.ID)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		messages []string
	}{
		{
			name:     "bad email",
			email:    "not-an-email",
			password: "secret1",
			messages: []string{"Please include a valid email"},
		},
		{
			name:     "short password",
			email:    "a@x.com",
			password: "12345",
			messages: []string{"Please enter a password with 6 or more characters"},
		},
		{
			name:     "both",
			email:    "",
			password: "",
			messages: []string{"Please include a valid email", "Please enter a password with 6 or more characters"},
		},
		{
			name:     "display name is not an address",
			email:    "Alice <a@x.com>",
			password: "secret1",
			messages: []string{"Please include a valid email"},
		},
		{
			name:     "no top-level domain",
			email:    "q@localhost",
			password: "secret1",
			messages: []string{"Please include a valid email"},
		},
		{
			name:     "short password counted in characters",
			email:    "a@x.com",
			password: "ééé",
			messages: []string{"Please enter a password with 6 or more characters"},
		},
		{
			name:     "password past the bcrypt limit",
			email:    "a@x.com",
			password: strings.Repeat("p", 73),
			messages: []string{"Please enter a password of at most 72 bytes"},
		},
		{
			name:     "multibyte password past the bcrypt limit",
			email:    "a@x.com",
			password: strings.Repeat("é", 40),
			messages: []string{"Please enter a password of at most 72 bytes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.Register(context.Background(), tt.email, tt.password)

			var dErr *domain.Error
			require.ErrorAs(t, err, &dErr)
			assert.Equal(t, domain.ErrCodeInvalid, dErr.Code)
			var got []string
			for _, field := range dErr.Fields {
				got = append(got, field.Msg)
			}
			assert.Equal(t, tt.messages, got)

			count, err := f.accounts.Count(context.Background())
			require.NoError(t, err)
			assert.Zero(t, count, "nothing is stored")
		})
	}
}

func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.uc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, wrongPassword := f.uc.Login(ctx, "a@x.com", "secret2")
	_, unknownEmail := f.uc.Login(ctx, "b@x.com", "secret1")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)

	result, err := f.uc.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = f.uc.Login(ctx, "a@x.com", "")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestGetSelfAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	result, err := f.uc.Register(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	self, err := f.uc.GetSelf(ctx, result.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", self.Email)
	assert.Empty(t, self.PasswordHash)

	session, err := f.tokens.Verify(result.Token)
	require.NoError(t, err)
	require.NoError(t, f.uc.Logout(ctx, session))

	revoked, err := f.revocations.IsRevoked(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogout_WithoutRevocationOnlyAcknowledges(t *testing.T) {
	db, err := boltdb.Open(filepath.Join(t.TempDir(), "taskbox.db"))
	require.NoError(t, err)
	defer db.Close()

	uc := account.New(boltdb.NewAccountRepository(db), nil, security.NewTokenManager("s", "i"), security.NewPasswordHasher(), nil)
	assert.NoError(t, uc.Logout(context.Background(), &domain.Session{ID: "jti"}))
}

func TestRegister_MultibytePasswordOfSixCharacters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.Register(ctx, "a@x.com", "éééééé")
	require.NoError(t, err)

	_, err = f.uc.Login(ctx, "a@x.com", "éééééé")
	assert.NoError(t, err)
}
