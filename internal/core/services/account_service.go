package services

import (
	"context"
	"errors"
	"log"

	"mealscan-api/internal/adapters/persistence/models"
	"mealscan-api/internal/adapters/persistence/repositories"
	"mealscan-api/internal/core/domain"
	"mealscan-api/internal/pkg/password"
)

// Account management errors
var (
	ErrUsernameTaken         = errors.New("username already exists")
	ErrInvalidRole           = errors.New("invalid role")
	ErrWeakPassword          = errors.New("password does not meet requirements")
	ErrCannotDeactivateSelf  = errors.New("cannot deactivate your own account")
	ErrCannotChangeOwnRole   = errors.New("cannot change your own role")
	ErrCannotRemoveLastAdmin = errors.New("cannot remove the last active admin")
)

// AccountService handles scanner account administration
type AccountService struct {
	accountRepo repositories.ScannerAccountRepository
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo repositories.ScannerAccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// CreateAccountInput represents create account input
type CreateAccountInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateAccountInput represents update account input; nil fields unchanged
type UpdateAccountInput struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password"`
}

// ListAccountsOutput represents list accounts output
type ListAccountsOutput struct {
	Accounts []*models.ScannerAccountResponse `json:"accounts"`
	Total    int64                            `json:"total"`
}

// CreateAccount creates a new scanner account (admin action)
func (s *AccountService) CreateAccount(ctx context.Context, input *CreateAccountInput) (*models.ScannerAccountResponse, error) {
	if input.Role != models.RoleAdmin && input.Role != models.RoleScanner {
		return nil, ErrInvalidRole
	}
	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.accountRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	account := &models.ScannerAccount{
		Username:     input.Username,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrConstraintViolation) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	log.Printf("✅ Scanner account created: %s (role: %s)", account.Username, account.Role)
	return account.ToResponse(), nil
}

// GetAccount returns one account by ID
func (s *AccountService) GetAccount(ctx context.Context, id uint) (*models.ScannerAccountResponse, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account.ToResponse(), nil
}

// ListAccounts lists accounts with pagination
func (s *AccountService) ListAccounts(ctx context.Context, offset, limit int) (*ListAccountsOutput, error) {
	accounts, total, err := s.accountRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ScannerAccountResponse, len(accounts))
	for i, account := range accounts {
		responses[i] = account.ToResponse()
	}
	return &ListAccountsOutput{Accounts: responses, Total: total}, nil
}

// UpdateAccount updates role/active/password of an account. Admins cannot
// change their own role or deactivate themselves, and the last active
// admin cannot be demoted or deactivated.
func (s *AccountService) UpdateAccount(ctx context.Context, id uint, actingAdminID uint, input *UpdateAccountInput) (*models.ScannerAccountResponse, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if input.Role != nil && *input.Role != account.Role {
		if *input.Role != models.RoleAdmin && *input.Role != models.RoleScanner {
			return nil, ErrInvalidRole
		}
		if id == actingAdminID {
			return nil, ErrCannotChangeOwnRole
		}
		if account.Role == models.RoleAdmin {
			if err := s.ensureNotLastAdmin(ctx); err != nil {
				return nil, err
			}
		}
		account.Role = *input.Role
	}

	if input.IsActive != nil && *input.IsActive != account.IsActive {
		if !*input.IsActive {
			if id == actingAdminID {
				return nil, ErrCannotDeactivateSelf
			}
			if account.Role == models.RoleAdmin {
				if err := s.ensureNotLastAdmin(ctx); err != nil {
					return nil, err
				}
			}
		}
		account.IsActive = *input.IsActive
	}

	if input.Password != nil {
		if !password.ValidatePassword(*input.Password) {
			return nil, ErrWeakPassword
		}
		hash, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = hash
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account.ToResponse(), nil
}

// DeactivateAccount soft-deactivates an account (never hard-deletes)
func (s *AccountService) DeactivateAccount(ctx context.Context, id uint, actingAdminID uint) error {
	if id == actingAdminID {
		return ErrCannotDeactivateSelf
	}

	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	if account.Role == models.RoleAdmin && account.IsActive {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.accountRepo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	log.Printf("✅ Scanner account deactivated: %d", id)
	return nil
}

// ensureNotLastAdmin guards against locking every admin out
func (s *AccountService) ensureNotLastAdmin(ctx context.Context) error {
	count, err := s.accountRepo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrCannotRemoveLastAdmin
	}
	return nil
}
