package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/moh-ammad/exceltovisual/logging"
	"github.com/moh-ammad/exceltovisual/models"
	"github.com/moh-ammad/exceltovisual/reports"
	"github.com/moh-ammad/exceltovisual/repositories"
	"github.com/moh-ammad/exceltovisual/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RegisterInput struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	Role            string `json:"role"`
	AdminKey        string `json:"adminKey"`
	ProfileImageURL string `json:"-"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserUpdateInput is shared by self-service and admin edits. Blank fields
// leave the stored value alone.
type UserUpdateInput struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"omitempty,min=6"`
	Role            string `json:"role" validate:"omitempty,oneof=member admin"`
	AdminKey        string `json:"adminKey"`
	ProfileImageURL string `json:"-"`
}

type AuthService struct {
	users      repositories.UserStore
	tokens     *utils.TokenManager
	adminKey   string
	bcryptCost int
	validate   *validator.Validate
}

func NewAuthService(users repositories.UserStore, tokens *utils.TokenManager, adminKey string, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		adminKey:   adminKey,
		bcryptCost: bcryptCost,
		validate:   reports.NewValidator(),
	}
}

// Register creates a member, or an admin when the invite key matches.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := checkInput(s.validate, in); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	role := models.RoleMember
	if strings.EqualFold(in.Role, string(models.RoleAdmin)) && keysMatch(in.AdminKey, s.adminKey) {
		role = models.RoleAdmin
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:            strings.TrimSpace(in.FullName),
		Email:           email,
		Password:        hash,
		ProfileImageURL: in.ProfileImageURL,
		Role:            role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: User %s registered with role %s", user.Email, user.Role)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	if err := checkInput(s.validate, in); err != nil {
		return "", nil, err
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !utils.CheckPassword(user.Password, in.Password) {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Wrong password for %s", user.Email)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate resolves a bearer token to its stored user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, utils.ErrInvalidToken
	}
	return s.users.FindByID(ctx, id)
}

func (s *AuthService) Profile(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile applies the caller's own edits and issues a fresh token.
func (s *AuthService) UpdateProfile(ctx context.Context, id primitive.ObjectID, in UserUpdateInput) (*models.User, string, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if err := applyUserUpdate(s.validate, user, in, s.adminKey, s.bcryptCost); err != nil {
		return nil, "", err
	}
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, "", ErrUserExists
		}
		return nil, "", fmt.Errorf("failed to update user: %w", err)
	}
	token, err := s.tokens.GenerateToken(user.ID.Hex(), string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func applyUserUpdate(v *validator.Validate, user *models.User, in UserUpdateInput, adminKey string, cost int) error {
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))
	if err := checkInput(v, in); err != nil {
		return err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if in.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password, cost)
		if err != nil {
			return err
		}
		user.Password = hash
	}
	if in.Role != "" {
		role := models.Role(in.Role)
		if role == models.RoleAdmin {
			if strings.TrimSpace(in.AdminKey) == "" {
				return invalidf("admin key required for admin role")
			}
			if !keysMatch(in.AdminKey, adminKey) {
				return ErrInvalidAdminKey
			}
		}
		user.Role = role
	}
	if in.ProfileImageURL != "" {
		user.ProfileImageURL = in.ProfileImageURL
	}
	return nil
}

func keysMatch(given, want string) bool {
	if want == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(want)) == 1
}
