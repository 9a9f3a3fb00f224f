package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caresync/hospital-api/internal/email"
	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
	"github.com/caresync/hospital-api/pkg/auth"
	"github.com/caresync/hospital-api/pkg/errors"
	"github.com/caresync/hospital-api/pkg/logger"
	"github.com/caresync/hospital-api/pkg/security"
)

const resetTokenTTL = 30 * time.Minute

type AuthService interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenPair, error)
	Refresh(ctx context.Context, req *model.RefreshRequest) (*model.TokenPair, error)
	ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error
}

type Service struct {
	store  repository.Store
	tokens repository.TokenRepository
	jwt    auth.JWTService
	hasher security.PasswordHasher
	mailer email.Service
	logger *logger.Logger
}

func NewService(store repository.Store, tokens repository.TokenRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher, mailer email.Service, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		jwt:    jwtSvc,
		hasher: hasher,
		mailer: mailer,
		logger: log,
	}
}

// Login authenticates against the collection named by the requested role.
// Suspended accounts are refused before the password is even checked.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenPair, error) {
	role := model.Role(req.Role)
	doc, err := s.findByEmail(ctx, role, req.Email, "auth-login")
	if err != nil {
		return nil, err
	}
	if model.DocBool(doc, "suspended") {
		return nil, errors.Unauthorized("account is suspended").WithOp("auth-login")
	}
	if err := s.hasher.Compare(model.DocString(doc, "password"), req.Password); err != nil {
		return nil, errors.Unauthorized("invalid credentials").WithOp("auth-login")
	}
	pair, err := s.jwt.GenerateTokenPair(model.DocString(doc, "_id"), role)
	if err != nil {
		return nil, errors.Internal(err).WithOp("auth-login")
	}
	return pair, nil
}

func (s *Service) Refresh(ctx context.Context, req *model.RefreshRequest) (*model.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, errors.Unauthorized("invalid refresh token").WithOp("auth-refresh")
	}
	role := model.Role(claims.Role)
	if !role.Valid() {
		return nil, errors.Unauthorized("invalid refresh token").WithOp("auth-refresh")
	}
	doc, err := s.store.Get(ctx, role.Collection(), claims.UserID)
	if err != nil {
		return nil, errors.Unauthorized("account no longer exists").WithOp("auth-refresh")
	}
	if model.DocBool(doc, "suspended") {
		return nil, errors.Unauthorized("account is suspended").WithOp("auth-refresh")
	}
	pair, err := s.jwt.GenerateTokenPair(claims.UserID, role)
	if err != nil {
		return nil, errors.Internal(err).WithOp("auth-refresh")
	}
	return pair, nil
}

// ForgotPassword issues a reset token and mails it out. An unknown email
// returns nil so the endpoint cannot be used to probe for accounts.
func (s *Service) ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest) error {
	role := model.Role(req.Role)
	doc, err := s.findByEmail(ctx, role, req.Email, "auth-forgot")
	if err != nil {
		if errors.CodeOf(err) == errors.ErrUnauthorized {
			s.logger.Info("password reset requested for unknown email", "role", req.Role)
			return nil
		}
		return err
	}

	token := uuid.New().String()
	if err := s.tokens.StoreResetToken(ctx, model.DocString(doc, "_id"), role, token, resetTokenTTL); err != nil {
		return errors.Internal(err).WithOp("auth-forgot")
	}
	if err := s.mailer.SendPasswordReset(ctx, req.Email, token); err != nil {
		s.logger.Error(err, "failed to send password reset email")
		return errors.DependencyFailure("send-reset-email", err).WithOp("auth-forgot")
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	userID, role, err := s.tokens.ValidateResetToken(ctx, req.Token)
	if err != nil {
		return errors.Unauthorized("invalid or expired reset token").WithOp("auth-reset")
	}
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return errors.Internal(err).WithOp("auth-reset")
	}
	if err := s.store.Update(ctx, role.Collection(), userID, model.Document{
		"password":  hashed,
		"updatedAt": time.Now().UTC(),
	}); err != nil {
		return errors.Internal(err).WithOp("auth-reset")
	}
	if err := s.tokens.InvalidateResetToken(ctx, req.Token); err != nil {
		s.logger.Warn("failed to invalidate used reset token", "token_error", err.Error())
	}
	return nil
}

func (s *Service) findByEmail(ctx context.Context, role model.Role, email string, op string) (model.Document, error) {
	if !role.Valid() || role == model.RoleDevice {
		return nil, errors.Validation("role", "unknown role").WithOp(op)
	}
	docs, err := s.store.FindEquals(ctx, role.Collection(), "email", []string{email})
	if err != nil {
		return nil, errors.Internal(err).WithOp(op)
	}
	if len(docs) == 0 {
		return nil, errors.Unauthorized("invalid credentials").WithOp(op)
	}
	return docs[0], nil
}
