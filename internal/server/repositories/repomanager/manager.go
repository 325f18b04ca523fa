package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/aiusage"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/assets"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/cycles"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/emailtemplates"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/hydration"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/meals"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/measurements"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/products"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/shoppinglists"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repositories on a pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Assets(db dbx.DBTX) assets.Repository
	Products(db dbx.DBTX) products.Repository
	Recipes(db dbx.DBTX) recipes.Repository
	Meals(db dbx.DBTX) meals.Repository
	ShoppingLists(db dbx.DBTX) shoppinglists.Repository
	Measurements(db dbx.DBTX, kind models.MeasurementKind) (measurements.Repository, error)
	Cycles(db dbx.DBTX) cycles.Repository
	Hydration(db dbx.DBTX) hydration.Repository
	AiUsage(db dbx.DBTX) aiusage.Repository
	EmailTemplates(db dbx.DBTX) emailtemplates.Repository
}
