package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/services"
)

// The interfaces below are implemented by the services package.

type UserService interface {
	Register(ctx context.Context, email, password, displayName string) (*models.User, error)
	ConfirmEmail(ctx context.Context, token string) error
	ResendConfirmation(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	ChangePassword(ctx context.Context, userID, current, password string) error
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, p models.ProfileUpdate) (*models.User, error)
}

type ProductService interface {
	Create(ctx context.Context, ownerID string, p *models.Product) (*models.Product, error)
	Get(ctx context.Context, ownerID, id string) (*models.Product, error)
	List(ctx context.Context, ownerID, search string, page models.Page) ([]*models.Product, error)
	Update(ctx context.Context, ownerID string, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type RecipeService interface {
	Create(ctx context.Context, ownerID string, r *models.Recipe) (*services.RecipeView, error)
	Get(ctx context.Context, ownerID, id string) (*services.RecipeView, error)
	List(ctx context.Context, ownerID, search string, page models.Page) ([]*services.RecipeView, error)
	Update(ctx context.Context, ownerID string, r *models.Recipe) (*services.RecipeView, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type MealService interface {
	Create(ctx context.Context, ownerID string, m *models.Meal) (*services.MealView, error)
	Get(ctx context.Context, ownerID, id string) (*services.MealView, error)
	ListByRange(ctx context.Context, ownerID string, from, to time.Time) ([]*services.MealView, error)
	Update(ctx context.Context, ownerID string, m *models.Meal) (*services.MealView, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type ShoppingListService interface {
	Create(ctx context.Context, ownerID string, l *models.ShoppingList) (*models.ShoppingList, error)
	Get(ctx context.Context, ownerID, id string) (*models.ShoppingList, error)
	List(ctx context.Context, ownerID string) ([]*models.ShoppingList, error)
	GetCurrent(ctx context.Context, ownerID string) (*models.ShoppingList, error)
	Update(ctx context.Context, ownerID string, l *models.ShoppingList) (*models.ShoppingList, error)
	Delete(ctx context.Context, ownerID, id string) error
	SetCurrent(ctx context.Context, ownerID, id string) error
	SetItemChecked(ctx context.Context, ownerID, listID, itemID string, checked bool) error
	AddFromRecipe(ctx context.Context, ownerID, listID, recipeID string, servings float64) (*models.ShoppingList, error)
}

type MeasurementService interface {
	Upsert(ctx context.Context, ownerID string, date time.Time, value float64) (*models.Measurement, error)
	List(ctx context.Context, ownerID string, from, to time.Time) ([]*models.Measurement, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type CycleService interface {
	Create(ctx context.Context, ownerID string, start time.Time, notes string) (*models.Cycle, error)
	Get(ctx context.Context, ownerID, id string) (*models.Cycle, error)
	List(ctx context.Context, ownerID string) ([]*models.Cycle, error)
	Delete(ctx context.Context, ownerID, id string) error
	AddOrUpdateDay(ctx context.Context, ownerID, cycleID string, d models.CycleDay) (*models.Cycle, error)
	RemoveDay(ctx context.Context, ownerID, cycleID string, date time.Time) error
	Predict(ctx context.Context, ownerID string) (*models.CyclePrediction, error)
}

type HydrationService interface {
	Add(ctx context.Context, ownerID string, ts time.Time, amountML int) (*models.HydrationEntry, error)
	Delete(ctx context.Context, ownerID, id string) error
	Daily(ctx context.Context, ownerID string, date time.Time) (*models.DailyHydration, error)
}

type StatisticsService interface {
	DailyNutrition(ctx context.Context, ownerID string, from, to time.Time) ([]models.DailyNutrition, error)
	WeightTrend(ctx context.Context, ownerID string, from, to time.Time) ([]models.WeightPoint, error)
	Summary(ctx context.Context, ownerID string, from, to time.Time) (*models.Summary, error)
}

type AssetService interface {
	CreateUpload(ctx context.Context, ownerID, contentType string, size int64) (*services.Upload, error)
	ConfirmUpload(ctx context.Context, ownerID, id string) (*models.Asset, error)
	GetURL(ctx context.Context, ownerID, id string) (string, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type AIService interface {
	Quota(ctx context.Context, userID string) (*models.AiQuotaStatus, error)
	RecognizeFood(ctx context.Context, userID string, req services.RecognizeRequest) (*models.FoodAnalysis, error)
	EstimateNutrition(ctx context.Context, userID, description string) (*models.FoodAnalysis, error)
}

type AdminService interface {
	ListUsers(ctx context.Context, search string, page models.Page) ([]*models.User, int, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	SetRoles(ctx context.Context, actorID, userID string, roles []string) (*models.User, error)
	SetBlocked(ctx context.Context, actorID, userID string, blocked bool) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, userID string) error
	ListTemplates(ctx context.Context) ([]*models.EmailTemplate, error)
	GetTemplate(ctx context.Context, key string) (*models.EmailTemplate, error)
	UpsertTemplate(ctx context.Context, t *models.EmailTemplate) (*models.EmailTemplate, error)
	SendTestEmail(ctx context.Context, key, to string) error
	AIUsage(ctx context.Context, from, to time.Time) ([]models.AiUsageSummary, error)
	GetQuota(ctx context.Context, userID string) (*models.AiQuotaStatus, error)
	SetQuota(ctx context.Context, userID string, limit *int) (*models.AiQuotaStatus, error)
}

// Services bundles the business logic the API exposes.
type Services struct {
	Users         UserService
	Products      ProductService
	Recipes       RecipeService
	Meals         MealService
	ShoppingLists ShoppingListService
	Weights       MeasurementService
	Waists        MeasurementService
	Cycles        CycleService
	Hydration     HydrationService
	Statistics    StatisticsService
	Assets        AssetService
	AI            AIService
	Admin         AdminService
}
