package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/logging"
	"github.com/dmitrijs2005/fooddiary/internal/server/config"
	"github.com/dmitrijs2005/fooddiary/internal/server/metrics"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

// FoodAnalyzer is the AI provider.
type FoodAnalyzer interface {
	RecognizeImage(ctx context.Context, imageURL, note string) (*models.FoodAnalysis, error)
	EstimateText(ctx context.Context, description string) (*models.FoodAnalysis, error)
}

// RecognizeRequest points at the photo to analyse: an uploaded asset or an
// external URL.
type RecognizeRequest struct {
	AssetID  string
	ImageURL string
	Note     string
}

// AIService runs AI food analysis for Premium and Admin users within their
// monthly token quota.
type AIService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	analyzer     FoodAnalyzer
	storage      ObjectStorage
	enabled      bool
	defaultQuota int
	logger       logging.Logger
}

func NewAIService(db *sql.DB, m repomanager.RepositoryManager, analyzer FoodAnalyzer, st ObjectStorage, cfg *config.Config, logger logging.Logger) *AIService {
	return &AIService{
		db:           db,
		repomanager:  m,
		analyzer:     analyzer,
		storage:      st,
		enabled:      cfg.AIEnabled(),
		defaultQuota: cfg.DefaultAIMonthlyQuota,
		logger:       logger.With("module", "ai"),
	}
}

// quotaStatus returns the effective monthly limit of a user and the tokens
// spent since the start of the month.
func quotaStatus(ctx context.Context, rm repomanager.RepositoryManager, db dbx.DBTX, userID string, defaultLimit int) (*models.AiQuotaStatus, error) {
	repo := rm.AiUsage(db)
	st := &models.AiQuotaStatus{UserID: userID, MonthlyTokenLimit: defaultLimit}

	q, err := repo.GetQuota(ctx, userID)
	switch {
	case err == nil:
		st.MonthlyTokenLimit = q.MonthlyTokenLimit
		st.Custom = true
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	used, err := repo.TokensSince(ctx, userID, models.MonthStart(now()))
	if err != nil {
		return nil, err
	}
	st.UsedTokens = used
	return st, nil
}

// Quota reports the caller's quota for the current month.
func (s *AIService) Quota(ctx context.Context, userID string) (*models.AiQuotaStatus, error) {
	return quotaStatus(ctx, s.repomanager, s.db, userID, s.defaultQuota)
}

// authorize checks that AI is configured, the user may use it and has
// tokens left this month.
func (s *AIService) authorize(ctx context.Context, userID string) error {
	if !s.enabled {
		return common.ErrAIKeyNotConfigured
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasRole(models.RolePremium) && !user.HasRole(models.RoleAdmin) {
		return fmt.Errorf("%w: AI features require a Premium subscription", common.ErrorForbidden)
	}
	st, err := s.Quota(ctx, userID)
	if err != nil {
		return err
	}
	if st.Remaining() <= 0 {
		return common.ErrQuotaExceeded
	}
	return nil
}

// RecognizeFood identifies the food on a photo and estimates its nutrition.
func (s *AIService) RecognizeFood(ctx context.Context, userID string, req RecognizeRequest) (*models.FoodAnalysis, error) {
	if (req.AssetID == "") == (strings.TrimSpace(req.ImageURL) == "") {
		return nil, fmt.Errorf("%w: exactly one of asset id or image url is required", common.ErrorValidation)
	}
	if err := s.authorize(ctx, userID); err != nil {
		return nil, err
	}

	imageURL := strings.TrimSpace(req.ImageURL)
	if req.AssetID != "" {
		a, err := s.repomanager.Assets(s.db).Get(ctx, userID, req.AssetID)
		if err != nil {
			return nil, err
		}
		if imageURL, err = s.storage.PresignGet(ctx, a.ObjectKey); err != nil {
			return nil, err
		}
	}

	res, err := s.analyzer.RecognizeImage(ctx, imageURL, req.Note)
	return s.finish(ctx, userID, models.AiFoodRecognition, res, err)
}

// EstimateNutrition estimates the nutrition of a free-text meal description.
func (s *AIService) EstimateNutrition(ctx context.Context, userID, description string) (*models.FoodAnalysis, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", common.ErrorValidation)
	}
	if err := s.authorize(ctx, userID); err != nil {
		return nil, err
	}

	res, err := s.analyzer.EstimateText(ctx, description)
	return s.finish(ctx, userID, models.AiNutritionEstimation, res, err)
}

// finish records metrics and the token usage of a completed call.
func (s *AIService) finish(ctx context.Context, userID string, op models.AiOperation, res *models.FoodAnalysis, err error) (*models.FoodAnalysis, error) {
	if err != nil {
		metrics.RecordAIRequest(string(op), 0, err)
		s.logger.Warn(ctx, "ai request failed", "operation", op, "user_id", userID, "error", err)
		return nil, err
	}
	metrics.RecordAIRequest(string(op), res.Usage.TotalTokens, nil)

	usage := &models.AiUsage{
		ID:           newID(),
		UserID:       userID,
		Operation:    op,
		Model:        res.Model,
		InputTokens:  res.Usage.InputTokens,
		OutputTokens: res.Usage.OutputTokens,
		TotalTokens:  res.Usage.TotalTokens,
	}
	if err := s.repomanager.AiUsage(s.db).Log(ctx, usage); err != nil {
		s.logger.Error(ctx, "failed to log ai usage", "user_id", userID, "error", err)
	}
	return res, nil
}
