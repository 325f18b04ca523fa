// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/migrations"
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
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Assets(db dbx.DBTX) assets.Repository {
	return assets.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Products(db dbx.DBTX) products.Repository {
	return products.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Recipes(db dbx.DBTX) recipes.Repository {
	return recipes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Meals(db dbx.DBTX) meals.Repository {
	return meals.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ShoppingLists(db dbx.DBTX) shoppinglists.Repository {
	return shoppinglists.NewPostgresRepository(db)
}

// Measurements returns the repository of one measurement series.
func (m *PostgresRepositoryManager) Measurements(db dbx.DBTX, kind models.MeasurementKind) (measurements.Repository, error) {
	return measurements.NewPostgresRepository(db, kind)
}

func (m *PostgresRepositoryManager) Cycles(db dbx.DBTX) cycles.Repository {
	return cycles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Hydration(db dbx.DBTX) hydration.Repository {
	return hydration.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) AiUsage(db dbx.DBTX) aiusage.Repository {
	return aiusage.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) EmailTemplates(db dbx.DBTX) emailtemplates.Repository {
	return emailtemplates.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
