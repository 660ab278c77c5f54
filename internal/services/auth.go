package services

import (
	"strings"
	"time"

	"github.com/princeprakhar/shopfront-api/internal/models"
	"github.com/princeprakhar/shopfront-api/internal/store"
	"github.com/princeprakhar/shopfront-api/internal/types"
	"github.com/princeprakhar/shopfront-api/internal/utils"
	"github.com/princeprakhar/shopfront-api/pkg/logger"
)

type AuthService struct {
	store  *store.Store
	users  *store.Collection[models.User]
	tokens *utils.TokenIssuer
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func NewAuthService(s *store.Store, tokens *utils.TokenIssuer) *AuthService {
	return &AuthService{
		store:  s,
		users:  store.NewCollection[models.User](s, store.Users),
		tokens: tokens,
	}
}

func validateRegistration(req *RegisterRequest) error {
	req.Email = strings.ToLower(utils.SanitizeString(req.Email))
	req.Name = utils.SanitizeString(req.Name)
	req.Phone = utils.SanitizeString(req.Phone)
	req.Address = utils.SanitizeString(req.Address)

	switch {
	case req.Email == "" || req.Password == "" || req.Name == "" || req.Phone == "" || req.Address == "":
		return validationError("email, password, name, phone and address are required")
	case !utils.IsValidEmail(req.Email):
		return validationError("invalid email format")
	case !utils.IsValidPassword(req.Password):
		return validationError("password must be at least 6 characters and contain a letter and a digit")
	case !utils.IsValidName(req.Name):
		return validationError("name must be at least 3 characters and contain only letters and spaces")
	case !utils.IsValidPhone(req.Phone):
		return validationError("phone must be 8-20 characters of digits and +")
	}
	return nil
}

// Register creates a non-admin user.
func (s *AuthService) Register(req RegisterRequest) (*models.UserResponse, error) {
	if err := validateRegistration(&req); err != nil {
		return nil, err
	}

	defer s.store.Lock(store.Users)()

	users, err := s.users.Load()
	if err != nil {
		return nil, err
	}
	if findUserByEmail(users, req.Email) != nil {
		return nil, conflictError("user already exists")
	}

	now := time.Now()
	user := models.User{
		ID:        store.NextID(users),
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		IsAdmin:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.users.Save(append(users, user)); err != nil {
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *AuthService) Login(req LoginRequest) (*types.AuthResponse, error) {
	email := strings.ToLower(utils.SanitizeString(req.Email))

	unlock := s.store.RLock(store.Users)
	users, err := s.users.Load()
	unlock()
	if err != nil {
		return nil, err
	}

	user := findUserByEmail(users, email)
	if user == nil || !user.CheckPassword(req.Password) {
		return nil, unauthorizedError("invalid credentials")
	}

	access, accessExp, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.tokens.GenerateRefreshToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &types.AuthResponse{
		Token: types.TokenPair{
			AccessToken:           access,
			RefreshToken:          refresh,
			AccessTokenExpiresAt:  accessExp.Unix(),
			RefreshTokenExpiresAt: refreshExp.Unix(),
		},
		User: user.ToResponse(),
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The admin flag
// is re-read from the user record.
func (s *AuthService) Refresh(req RefreshRequest) (*types.RefreshResponse, error) {
	claims, err := s.tokens.ValidateToken(req.RefreshToken, utils.RefreshToken)
	if err != nil {
		return nil, unauthorizedError("invalid refresh token")
	}

	unlock := s.store.RLock(store.Users)
	users, err := s.users.Load()
	unlock()
	if err != nil {
		return nil, err
	}

	user, _ := store.Find(users, claims.UserID)
	if user == nil {
		return nil, unauthorizedError("user no longer exists")
	}

	access, exp, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &types.RefreshResponse{AccessToken: access, AccessTokenExpiresAt: exp.Unix()}, nil
}

func (s *AuthService) ChangePassword(actor Actor, req ChangePasswordRequest) error {
	if !utils.IsValidPassword(req.NewPassword) {
		return validationError("password must be at least 6 characters and contain a letter and a digit")
	}

	defer s.store.Lock(store.Users)()

	users, err := s.users.Load()
	if err != nil {
		return err
	}
	user, _ := store.Find(users, actor.UserID)
	if user == nil {
		return notFoundError("user not found")
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return unauthorizedError("current password is incorrect")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	user.UpdatedAt = time.Now()

	return s.users.Save(users)
}

// EnsureAdmin creates the bootstrap administrator if no user has that email.
func (s *AuthService) EnsureAdmin(email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	defer s.store.Lock(store.Users)()

	users, err := s.users.Load()
	if err != nil {
		return err
	}
	if findUserByEmail(users, email) != nil {
		return nil
	}

	now := time.Now()
	admin := models.User{
		ID:        store.NextID(users),
		Email:     email,
		Name:      "Administrator",
		IsAdmin:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := s.users.Save(append(users, admin)); err != nil {
		return err
	}

	logger.Infof("Created admin user %s", email)
	return nil
}

func findUserByEmail(users []models.User, email string) *models.User {
	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i]
		}
	}
	return nil
}
