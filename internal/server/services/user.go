package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/auth"
	"github.com/dmitrijs2005/fooddiary/internal/server/config"
	"github.com/dmitrijs2005/fooddiary/internal/server/mail"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

const passwordResetValidity = time.Hour

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserService handles accounts: registration with email confirmation, login,
// token refresh, password reset and the user's own profile.
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	mailer                       Mailer
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	appURL                       string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mailer Mailer, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		mailer:                       mailer,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		appURL:                       strings.TrimRight(cfg.AppURL, "/"),
	}
}

func validatePassword(p string) error {
	if len(p) < auth.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, auth.MinPasswordLength)
	}
	return nil
}

// Register creates an unconfirmed account and mails the confirmation link.
func (s *UserService) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}
	token, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:                newID(),
		Email:             email,
		PasswordHash:      hash,
		DisplayName:       strings.TrimSpace(displayName),
		Roles:             []string{models.RoleUser},
		ConfirmationToken: token,
		DailyCalorieGoal:  models.DefaultCalorieGoal,
		DailyWaterGoalML:  models.DefaultWaterGoalML,
	}
	if err := s.repomanager.Users(s.db).Create(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	// Delivery errors are logged by the mailer; the user can request a resend.
	_ = s.sendConfirmation(ctx, user)
	return user, nil
}

func (s *UserService) link(path, token string) string {
	return s.appURL + path + "?token=" + url.QueryEscape(token)
}

func (s *UserService) sendConfirmation(ctx context.Context, u *models.User) error {
	return s.mailer.Send(ctx, models.TemplateEmailConfirmation, u.Email, mail.TemplateData{
		DisplayName: u.DisplayName,
		Token:       u.ConfirmationToken,
		Link:        s.link("/confirm-email", u.ConfirmationToken),
	})
}

// ConfirmEmail marks the account owning token as confirmed.
func (s *UserService) ConfirmEmail(ctx context.Context, token string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return err
	}
	user.EmailConfirmed = true
	user.ConfirmationToken = ""
	return repo.Update(ctx, user)
}

// ResendConfirmation issues a new confirmation token. Unknown and already
// confirmed addresses are ignored so the endpoint does not reveal accounts.
func (s *UserService) ResendConfirmation(ctx context.Context, email string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}
	if user.EmailConfirmed {
		return nil
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return common.ErrorInternal
	}
	user.ConfirmationToken = token
	if err := repo.Update(ctx, user); err != nil {
		return err
	}
	return s.sendConfirmation(ctx, user)
}

// Login verifies the password and, on success, returns a new TokenPair.
func (s *UserService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}
	if user.Blocked {
		return nil, common.ErrUserBlocked
	}
	if !user.EmailConfirmed {
		return nil, common.ErrEmailNotConfirmed
	}

	if err := repo.UpdateLastLogin(ctx, user.ID, now()); err != nil {
		return nil, common.ErrorInternal
	}
	return s.generateTokenPair(ctx, user, s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expired(now()) {
		_ = repo.Delete(ctx, refreshToken)
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if user.Blocked {
		return nil, common.ErrUserBlocked
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// another request rotated this token first
				return common.ErrInvalidToken
			}
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes one refresh token. Unknown tokens are ignored.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}

// RequestPasswordReset mails a reset link. It succeeds silently for unknown
// addresses.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return common.ErrorInternal
	}
	expires := now().Add(passwordResetValidity)
	user.ResetToken = token
	user.ResetTokenExpires = &expires
	if err := repo.Update(ctx, user); err != nil {
		return err
	}

	return s.mailer.Send(ctx, models.TemplatePasswordReset, user.Email, mail.TemplateData{
		DisplayName: user.DisplayName,
		Token:       token,
		Link:        s.link("/reset-password", token),
	})
}

// ResetPassword sets a new password for the owner of a valid reset token and
// signs the user out everywhere.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return err
	}
	if user.ResetTokenExpires == nil || user.ResetTokenExpires.Before(now()) {
		return common.ErrTokenExpired
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return common.ErrorInternal
	}
	user.PasswordHash = hash
	user.ResetToken = ""
	user.ResetTokenExpires = nil
	// The link reached the mailbox, which proves ownership of the address.
	user.EmailConfirmed = true

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).Update(ctx, user); err != nil {
			return err
		}
		return s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, user.ID)
	})
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return fmt.Errorf("%w: current password is incorrect", common.ErrorValidation)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return common.ErrorInternal
	}
	user.PasswordHash = hash
	return repo.Update(ctx, user)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

// UpdateProfile stores the editable profile fields. Zero goals fall back to
// the defaults.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, p models.ProfileUpdate) (*models.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = strings.TrimSpace(p.DisplayName)
	user.DailyCalorieGoal = p.DailyCalorieGoal
	if user.DailyCalorieGoal == 0 {
		user.DailyCalorieGoal = models.DefaultCalorieGoal
	}
	user.DailyWaterGoalML = p.DailyWaterGoalML
	if user.DailyWaterGoalML == 0 {
		user.DailyWaterGoalML = models.DefaultWaterGoalML
	}
	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// --- helpers below ---

func (s *UserService) generateAccessToken(u *models.User) (string, error) {
	return auth.GenerateToken(u.ID, u.Email, u.Roles, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, u *models.User, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(u)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, u.ID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
