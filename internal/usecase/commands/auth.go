package commands

import (
	"context"

	"vendora/internal/domain/user"
	reqdto "vendora/internal/handler/dto/request"
	"vendora/internal/pkg/errs"
	"vendora/internal/pkg/jwt"
	"vendora/internal/pkg/password"
	"vendora/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrUserInactive       = errs.New("user inactive")
	ErrTokenGeneration    = errs.New("token generation failed")
)

type LoginResult struct {
	User        *queries.AuthorizedUserView
	AccessToken string
}

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, role user.Role) (string, error)
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
}

type authCommandsImpl struct {
	users  UserFinder
	tokens TokenIssuer
}

func NewAuthCommands(users UserFinder, tokens TokenIssuer) AuthCommands {
	return &authCommandsImpl{
		users:  users,
		tokens: tokens,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	// Lookup failures collapse into ErrInvalidCredentials to prevent user
	// enumeration.
	found, err := a.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := password.ComparePassword(found.PasswordHash(), req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !found.IsActive() {
		return nil, ErrUserInactive
	}

	token, err := a.tokens.GenerateToken(found.ID(), found.Role())
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &LoginResult{
		User: &queries.AuthorizedUserView{
			ID:       found.ID(),
			Email:    found.Email(),
			Role:     found.Role().String(),
			IsActive: found.IsActive(),
		},
		AccessToken: token,
	}, nil
}

var _ TokenIssuer = (*jwt.Service)(nil)
