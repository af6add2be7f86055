package command

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/pkg/auth"
	"github.com/tair/shopfront/pkg/logger"
)

const minPasswordLength = 6

// TokenIssuer signs session tokens
type TokenIssuer interface {
	GenerateToken(userID string) (string, time.Time, error)
}

// ResetTokens signs and checks password reset tokens
type ResetTokens interface {
	GenerateResetToken(userID string) (string, time.Time, error)
	ValidateResetToken(token string) (*auth.Claims, error)
}

// SignupCommand registers a new account
type SignupCommand struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type SignupHandler struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
}

func NewSignupHandler(users domain.UserRepository, hasher domain.PasswordHasher) *SignupHandler {
	return &SignupHandler{users: users, hasher: hasher}
}

func (h *SignupHandler) Handle(ctx context.Context, cmd SignupCommand) (*domain.UserSummary, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Email = normalizeEmail(cmd.Email)

	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" || cmd.ConfirmPassword == "" {
		return nil, domain.InvalidInput("name, email, password and confirmPassword are required")
	}
	if _, err := mail.ParseAddress(cmd.Email); err != nil {
		return nil, domain.InvalidInput("email is not valid")
	}
	if len(cmd.Password) < minPasswordLength {
		return nil, domain.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if cmd.Password != cmd.ConfirmPassword {
		return nil, domain.InvalidInput("passwords do not match")
	}

	if _, err := h.users.FindByEmail(ctx, cmd.Email); err == nil {
		return nil, domain.AlreadyExists("email already registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, storeError(err)
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, domain.Internal(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: hash,
	}
	if err := h.users.Create(ctx, user); err != nil {
		return nil, storeError(err)
	}

	logger.Info(ctx).Str("user_id", user.ID).Msg("User registered")
	summary := user.Summary()
	return &summary, nil
}

type LoginCommand struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      domain.UserSummary `json:"user"`
}

type LoginHandler struct {
	users  domain.UserRepository
	hasher domain.PasswordHasher
	tokens TokenIssuer
}

func NewLoginHandler(users domain.UserRepository, hasher domain.PasswordHasher, tokens TokenIssuer) *LoginHandler {
	return &LoginHandler{users: users, hasher: hasher, tokens: tokens}
}

// Handle answers an unknown email and a wrong password the same way.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	email := normalizeEmail(cmd.Email)
	if email == "" || cmd.Password == "" {
		return nil, domain.InvalidInput("email and password are required")
	}

	user, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthenticated("invalid credentials")
		}
		return nil, storeError(err)
	}
	if !h.hasher.Compare(user.PasswordHash, cmd.Password) {
		logger.Warn(ctx).Str("user_id", user.ID).Msg("Login failed: wrong password")
		return nil, domain.Unauthenticated("invalid credentials")
	}

	token, expiresAt, err := h.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, domain.Internal(err)
	}

	logger.Info(ctx).Str("user_id", user.ID).Msg("User logged in")
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user.Summary()}, nil
}

type ForgotPasswordCommand struct {
	Email string
}

type ForgotPasswordHandler struct {
	uow       *UnitOfWork
	users     domain.UserRepository
	tokens    ResetTokens
	mailer    domain.Mailer
	clientURL string
}

func NewForgotPasswordHandler(uow *UnitOfWork, users domain.UserRepository, tokens ResetTokens, mailer domain.Mailer, clientURL string) *ForgotPasswordHandler {
	return &ForgotPasswordHandler{
		uow:       uow,
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		clientURL: strings.TrimRight(clientURL, "/"),
	}
}

// Handle stores a fresh reset token on the user and mails the reset link.
// Issuing a new token invalidates any earlier one.
func (h *ForgotPasswordHandler) Handle(ctx context.Context, cmd ForgotPasswordCommand) error {
	email := normalizeEmail(cmd.Email)
	if email == "" {
		return domain.InvalidInput("email is required")
	}
	found, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		return storeError(err)
	}

	token, expiresAt, err := h.tokens.GenerateResetToken(found.ID)
	if err != nil {
		return domain.Internal(err)
	}
	user, err := h.uow.Mutate(ctx, found.ID, func(u *domain.User) error {
		u.ResetToken = token
		return nil
	})
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/resetPassword/%s", h.clientURL, token)
	body := fmt.Sprintf(
		`<p>Hello %s,</p><p>Use the link below to reset your password. It expires in %d minutes.</p><p><a href="%s">Reset password</a></p>`,
		html.EscapeString(user.Name), int(time.Until(expiresAt).Round(time.Minute).Minutes()), link,
	)
	if err := h.mailer.Send(ctx, user.Email, "Reset your password", body); err != nil {
		logger.Error(ctx).Err(err).Str("user_id", user.ID).Msg("Failed to send reset email")
		return domain.Internal(err)
	}
	return nil
}

type ResetPasswordCommand struct {
	Token           string
	Password        string
	ConfirmPassword string
}

type ResetPasswordHandler struct {
	uow    *UnitOfWork
	tokens ResetTokens
	hasher domain.PasswordHasher
}

func NewResetPasswordHandler(uow *UnitOfWork, tokens ResetTokens, hasher domain.PasswordHasher) *ResetPasswordHandler {
	return &ResetPasswordHandler{uow: uow, tokens: tokens, hasher: hasher}
}

// Handle accepts a reset token only while it is the one stored on the user,
// so each token works once.
func (h *ResetPasswordHandler) Handle(ctx context.Context, cmd ResetPasswordCommand) error {
	if cmd.Password == "" || cmd.ConfirmPassword == "" {
		return domain.InvalidInput("password and confirmPassword are required")
	}
	if len(cmd.Password) < minPasswordLength {
		return domain.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if cmd.Password != cmd.ConfirmPassword {
		return domain.InvalidInput("passwords do not match")
	}

	claims, err := h.tokens.ValidateResetToken(cmd.Token)
	if err != nil {
		return domain.InvalidInput("reset token is invalid or has expired")
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return domain.Internal(err)
	}

	_, err = h.uow.Mutate(ctx, claims.UserID, func(u *domain.User) error {
		if u.ResetToken == "" || u.ResetToken != cmd.Token {
			return domain.InvalidInput("reset token is invalid or has expired")
		}
		u.PasswordHash = hash
		u.ResetToken = ""
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx).Str("user_id", claims.UserID).Msg("Password reset")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
