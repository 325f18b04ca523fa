package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/logging"
	"github.com/dmitrijs2005/fooddiary/internal/server/config"
	"github.com/dmitrijs2005/fooddiary/internal/server/mail"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

// TemplateMailer is a Mailer that caches templates.
type TemplateMailer interface {
	Mailer
	Invalidate(key string)
}

// AdminService backs the admin area: user management, email templates and
// AI quotas.
type AdminService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	mailer       TemplateMailer
	storage      ObjectStorage
	logger       logging.Logger
	appURL       string
	defaultQuota int
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, mailer TemplateMailer, st ObjectStorage, cfg *config.Config, logger logging.Logger) *AdminService {
	return &AdminService{
		db:           db,
		repomanager:  m,
		mailer:       mailer,
		storage:      st,
		logger:       logger.With("module", "admin"),
		appURL:       cfg.AppURL,
		defaultQuota: cfg.DefaultAIMonthlyQuota,
	}
}

// ListUsers returns a page of users whose email contains search and the
// total number of matches.
func (s *AdminService) ListUsers(ctx context.Context, search string, page models.Page) ([]*models.User, int, error) {
	return s.repomanager.Users(s.db).List(ctx, search, page.Normalize())
}

func (s *AdminService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

// SetRoles replaces the roles of a user. RoleUser is always kept.
func (s *AdminService) SetRoles(ctx context.Context, actorID, userID string, roles []string) (*models.User, error) {
	normalized, err := models.NormalizeRoles(roles)
	if err != nil {
		return nil, err
	}
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if actorID == userID && user.HasRole(models.RoleAdmin) && !slices.Contains(normalized, models.RoleAdmin) {
		return nil, fmt.Errorf("%w: admins cannot revoke their own admin role", common.ErrorValidation)
	}
	user.Roles = normalized
	if err := repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetBlocked blocks or unblocks a user. Blocking signs the user out.
func (s *AdminService) SetBlocked(ctx context.Context, actorID, userID string, blocked bool) (*models.User, error) {
	if actorID == userID && blocked {
		return nil, fmt.Errorf("%w: admins cannot block themselves", common.ErrorValidation)
	}
	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		u, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		u.Blocked = blocked
		if err := repo.Update(ctx, u); err != nil {
			return err
		}
		if blocked {
			if err := s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, userID); err != nil {
				return err
			}
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user with all their data, uploaded images included.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return fmt.Errorf("%w: admins cannot delete themselves", common.ErrorValidation)
	}
	keys, err := s.repomanager.Users(s.db).Delete(ctx, userID)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Warn(ctx, "failed to delete object", "user_id", userID, "key", key, "error", err)
		}
	}
	return nil
}

func (s *AdminService) ListTemplates(ctx context.Context) ([]*models.EmailTemplate, error) {
	return s.repomanager.EmailTemplates(s.db).List(ctx)
}

func (s *AdminService) GetTemplate(ctx context.Context, key string) (*models.EmailTemplate, error) {
	return s.repomanager.EmailTemplates(s.db).Get(ctx, key)
}

// UpsertTemplate stores a template after checking that it renders.
func (s *AdminService) UpsertTemplate(ctx context.Context, t *models.EmailTemplate) (*models.EmailTemplate, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if _, err := mail.Render(t, s.sampleData("user@example.com")); err != nil {
		return nil, err
	}
	if err := s.repomanager.EmailTemplates(s.db).Upsert(ctx, t); err != nil {
		return nil, err
	}
	s.mailer.Invalidate(t.Key)
	return t, nil
}

// SendTestEmail sends a stored template filled with sample data to to.
func (s *AdminService) SendTestEmail(ctx context.Context, key, to string) error {
	to = models.NormalizeEmail(to)
	if err := models.ValidateEmail(to); err != nil {
		return err
	}
	if _, err := s.repomanager.EmailTemplates(s.db).Get(ctx, key); err != nil {
		return err
	}
	return s.mailer.Send(ctx, key, to, s.sampleData(to))
}

func (s *AdminService) sampleData(to string) mail.TemplateData {
	return mail.TemplateData{
		AppURL:      s.appURL,
		DisplayName: "Test User",
		Email:       to,
		Token:       "test-token",
		Link:        s.appURL + "/test?token=test-token",
	}
}

// AIUsage returns the token usage per user for the days from..to.
func (s *AdminService) AIUsage(ctx context.Context, from, to time.Time) ([]models.AiUsageSummary, error) {
	r, err := models.NewDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.repomanager.AiUsage(s.db).Summary(ctx, r.From, r.EndExclusive())
}

func (s *AdminService) GetQuota(ctx context.Context, userID string) (*models.AiQuotaStatus, error) {
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return quotaStatus(ctx, s.repomanager, s.db, userID, s.defaultQuota)
}

// SetQuota overrides the monthly token limit of a user. A nil limit drops
// the override so the default applies again.
func (s *AdminService) SetQuota(ctx context.Context, userID string, limit *int) (*models.AiQuotaStatus, error) {
	if limit != nil && *limit < 0 {
		return nil, fmt.Errorf("%w: quota must not be negative", common.ErrorValidation)
	}
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		return nil, err
	}
	repo := s.repomanager.AiUsage(s.db)
	if limit == nil {
		if err := repo.DeleteQuota(ctx, userID); err != nil && !errorsIsNotFound(err) {
			return nil, err
		}
	} else if err := repo.SetQuota(ctx, &models.AiQuota{UserID: userID, MonthlyTokenLimit: *limit}); err != nil {
		return nil, err
	}
	return quotaStatus(ctx, s.repomanager, s.db, userID, s.defaultQuota)
}
