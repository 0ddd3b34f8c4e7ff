package account

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fastygo/taskbox/domain"
	"github.com/fastygo/taskbox/repository"
)

// bcrypt refuses passwords longer than this many bytes.
const maxPasswordBytes = 72

var validate = validator.New()

// Rules for validator's Var. min counts characters, email needs a dotted domain.
const (
	emailRule       = "required,email"
	newPasswordRule = "min=6"
)

// TokenIssuer issues session tokens for an account id.
type TokenIssuer interface {
	Issue(accountID string) (string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Result is returned by successful register and login flows.
type Result struct {
	Account *domain.Account `json:"user"`
	Token   string          `json:"token"`
}

type UseCase struct {
	accounts    repository.AccountRepository
	revocations repository.RevocationRepository
	tokens      TokenIssuer
	hasher      PasswordHasher
	logger      *zap.Logger
}

// New wires the account flows. revocations may be nil, in which case logout only
// acknowledges and tokens stay valid until they expire.
func New(
	accounts repository.AccountRepository,
	revocations repository.RevocationRepository,
	tokens TokenIssuer,
	hasher PasswordHasher,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		accounts:    accounts,
		revocations: revocations,
		tokens:      tokens,
		hasher:      hasher,
		logger:      logger,
	}
}

func (uc *UseCase) Register(ctx context.Context, email, password string) (*Result, error) {
	var fields []domain.FieldError
	if !validEmail(email) {
		fields = append(fields, domain.FieldError{Field: "email", Msg: "Please include a valid email"})
	}
	if validate.Var(password, newPasswordRule) != nil {
		fields = append(fields, domain.FieldError{Field: "password", Msg: "Please enter a password with 6 or more characters"})
	} else if len(password) > maxPasswordBytes {
		fields = append(fields, domain.FieldError{Field: "password", Msg: "Please enter a password of at most 72 bytes"})
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	if _, err := uc.accounts.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	// The store's unique constraint is the backstop for concurrent registrations.
	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.logger.Info("account registered", zap.String("account_id", account.ID))
	return uc.issue(account)
}

func (uc *UseCase) Login(ctx context.Context, email, password string) (*Result, error) {
	var fields []domain.FieldError
	if !validEmail(email) {
		fields = append(fields, domain.FieldError{Field: "email", Msg: "Please include a valid email"})
	}
	if password == "" {
		fields = append(fields, domain.FieldError{Field: "password", Msg: "Password is required"})
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	account, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !uc.hasher.Verify(password, account.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.issue(account)
}

// GetSelf returns the caller's account without its password hash.
func (uc *UseCase) GetSelf(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account.Public(), nil
}

// Logout denylists the session's token until it would have expired anyway.
func (uc *UseCase) Logout(ctx context.Context, session *domain.Session) error {
	if uc.revocations == nil || session == nil {
		return nil
	}
	return uc.revocations.Revoke(ctx, session.ID, session.TTL(time.Now()))
}

func (uc *UseCase) issue(account *domain.Account) (*Result, error) {
	token, err := uc.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Account: account.Public(), Token: token}, nil
}

func validEmail(email string) bool {
	return validate.Var(email, emailRule) == nil
}
