package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/MuhammadFattan/task-management/logging"
	"github.com/MuhammadFattan/task-management/models"
	"github.com/MuhammadFattan/task-management/repositories"
	"github.com/MuhammadFattan/task-management/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type AuthService struct {
	users       repositories.UserStore
	secret      []byte
	ttl         time.Duration
	inviteToken string
	blacklist   map[string]bool
	now         func() time.Time
}

func NewAuthService(users repositories.UserStore, secret []byte, ttl time.Duration, inviteToken string) *AuthService {
	return &AuthService{
		users:       users,
		secret:      secret,
		ttl:         ttl,
		inviteToken: inviteToken,
		now:         time.Now,
	}
}

// SetPasswordBlacklist rejects the given passwords on registration.
func (s *AuthService) SetPasswordBlacklist(blacklist map[string]bool) {
	s.blacklist = blacklist
}

// Register creates a member, or an admin when the request carries the
// configured invite token, and signs them in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" {
		return nil, validationError("Name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("A valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, validationError("Password must be at least %d characters long", minPasswordLength)
	}
	if s.blacklist[req.Password] {
		return nil, validationError("Password is too common, choose another one")
	}

	role := models.RoleMember
	if s.inviteToken != "" && req.AdminInviteToken == s.inviteToken {
		role = models.RoleAdmin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, storeError("hash password", err)
	}

	now := s.now()
	user := &models.User{
		ID:              primitive.NewObjectID(),
		Name:            name,
		Email:           email,
		Password:        string(hashed),
		ProfileImageURL: req.ProfileImageURL,
		Role:            role,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = s.users.Insert(ctx, user)
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, validationError("User already exists")
	}
	if err != nil {
		return nil, storeError("register user", err)
	}

	logging.Logger.WithField("userId", user.ID.Hex()).Infof("Event ID: USER_REGISTERED, Description: Registered %s", role)
	return s.signIn(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, unauthenticatedError("Invalid email or password")
	}
	if err != nil {
		return nil, storeError("login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, unauthenticatedError("Invalid email or password")
	}
	return s.signIn(user)
}

// Authenticate resolves a bearer token to the caller it identifies. The role
// comes from the stored user, so demoted or deleted users lose access at once.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.Caller, error) {
	claims, err := utils.ValidateToken(s.secret, token)
	if err != nil {
		return models.Caller{}, unauthenticatedError("Not authorized, token failed")
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.Caller{}, unauthenticatedError("Not authorized, token failed")
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Caller{}, unauthenticatedError("Not authorized, user not found")
	}
	if err != nil {
		return models.Caller{}, storeError("authenticate", err)
	}
	return models.Caller{ID: user.ID, Role: user.Role}, nil
}

func (s *AuthService) signIn(user *models.User) (*models.AuthResponse, error) {
	token, err := utils.GenerateToken(s.secret, user.ID.Hex(), string(user.Role), s.ttl)
	if err != nil {
		return nil, storeError("sign token", err)
	}
	return &models.AuthResponse{User: *user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
