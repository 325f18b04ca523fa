package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/mail"
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
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/shoppinglists"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// fixClock pins now() for the duration of a test.
func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = orig })
}

// seqIDs makes newID return id-1, id-2, ...
func seqIDs(t *testing.T) {
	t.Helper()
	orig := newID
	var mu sync.Mutex
	n := 0
	newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { newID = orig })
}

func ptr[T any](v T) *T { return &v }

// --- repository manager ---

type fakeRepoManager struct {
	repomanager.RepositoryManager
	users         *fakeUsersRepo
	refresh       *fakeRefreshRepo
	assets        *fakeAssetsRepo
	products      *fakeProductsRepo
	recipes       *fakeRecipesRepo
	meals         *fakeMealsRepo
	lists         *fakeListsRepo
	measurements  map[models.MeasurementKind]*fakeMeasurementsRepo
	cycles        *fakeCyclesRepo
	hydration     *fakeHydrationRepo
	aiusage       *fakeAiUsageRepo
	templates     *fakeTemplatesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:    &fakeUsersRepo{byID: map[string]*models.User{}},
		refresh:  &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}},
		assets:   &fakeAssetsRepo{byID: map[string]*models.Asset{}, referenced: map[string]bool{}},
		products: &fakeProductsRepo{byID: map[string]*models.Product{}, inUse: map[string]bool{}},
		recipes:  &fakeRecipesRepo{byID: map[string]*models.Recipe{}},
		meals:    &fakeMealsRepo{byID: map[string]*models.Meal{}},
		lists:    &fakeListsRepo{byID: map[string]*models.ShoppingList{}},
		measurements: map[models.MeasurementKind]*fakeMeasurementsRepo{
			models.MeasurementWeight: {byID: map[string]*models.Measurement{}},
			models.MeasurementWaist:  {byID: map[string]*models.Measurement{}},
		},
		cycles:    &fakeCyclesRepo{byID: map[string]*models.Cycle{}},
		hydration: &fakeHydrationRepo{byID: map[string]*models.HydrationEntry{}},
		aiusage:   &fakeAiUsageRepo{quotas: map[string]*models.AiQuota{}},
		templates: &fakeTemplatesRepo{byKey: map[string]*models.EmailTemplate{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.refresh
}
func (m *fakeRepoManager) Assets(dbx.DBTX) assets.Repository               { return m.assets }
func (m *fakeRepoManager) Products(dbx.DBTX) products.Repository           { return m.products }
func (m *fakeRepoManager) Recipes(dbx.DBTX) recipes.Repository             { return m.recipes }
func (m *fakeRepoManager) Meals(dbx.DBTX) meals.Repository                 { return m.meals }
func (m *fakeRepoManager) ShoppingLists(dbx.DBTX) shoppinglists.Repository { return m.lists }
func (m *fakeRepoManager) Cycles(dbx.DBTX) cycles.Repository               { return m.cycles }
func (m *fakeRepoManager) Hydration(dbx.DBTX) hydration.Repository         { return m.hydration }
func (m *fakeRepoManager) AiUsage(dbx.DBTX) aiusage.Repository             { return m.aiusage }
func (m *fakeRepoManager) EmailTemplates(dbx.DBTX) emailtemplates.Repository {
	return m.templates
}
func (m *fakeRepoManager) Measurements(_ dbx.DBTX, kind models.MeasurementKind) (measurements.Repository, error) {
	r, ok := m.measurements[kind]
	if !ok {
		return nil, common.ErrorValidation
	}
	return r, nil
}

// --- users ---

type fakeUsersRepo struct {
	byID       map[string]*models.User
	createErr  error
	getErr     error
	objectKeys map[string][]string // asset object keys per user id
}

func (f *fakeUsersRepo) add(u *models.User) *models.User {
	c := *u
	f.byID[u.ID] = &c
	return u
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, e := range f.byID {
		if e.Email == u.Email {
			return common.ErrorAlreadyExists
		}
	}
	u.CreatedAt = now()
	f.add(u)
	return nil
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}
func (f *fakeUsersRepo) GetByConfirmationToken(ctx context.Context, token string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return token != "" && u.ConfirmationToken == token })
}
func (f *fakeUsersRepo) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return token != "" && u.ResetToken == token })
}
func (f *fakeUsersRepo) Update(ctx context.Context, u *models.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return common.ErrorNotFound
	}
	f.add(u)
	return nil
}
func (f *fakeUsersRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.LastLoginAt = &at
	return nil
}
func (f *fakeUsersRepo) List(ctx context.Context, search string, page models.Page) ([]*models.User, int, error) {
	var out []*models.User
	for _, u := range f.byID {
		if strings.Contains(u.Email, search) {
			c := *u
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *models.User) int { return strings.Compare(a.Email, b.Email) })
	return out, len(out), nil
}
func (f *fakeUsersRepo) Delete(ctx context.Context, id string) ([]string, error) {
	if _, ok := f.byID[id]; !ok {
		return nil, common.ErrorNotFound
	}
	delete(f.byID, id)
	keys := f.objectKeys[id]
	delete(f.objectKeys, id)
	return keys, nil
}
func (f *fakeUsersRepo) DeleteUnconfirmedBefore(ctx context.Context, cutoff time.Time) (int64, []string, error) {
	var n int64
	var keys []string
	for id, u := range f.byID {
		if !u.EmailConfirmed && u.CreatedAt.Before(cutoff) {
			delete(f.byID, id)
			keys = append(keys, f.objectKeys[id]...)
			delete(f.objectKeys, id)
			n++
		}
	}
	return n, keys, nil
}

// --- refresh tokens ---

type fakeRefreshRepo struct {
	tokens    map[string]*models.RefreshToken
	findErr   error
	delErr    error
	createErr error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, ExpiresAt: now().Add(validity)}
	return nil
}
func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}
func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	if _, ok := f.tokens[token]; !ok {
		return common.ErrorNotFound
	}
	delete(f.tokens, token)
	return nil
}
func (f *fakeRefreshRepo) DeleteByUser(ctx context.Context, userID string) error {
	for k, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, k)
		}
	}
	return nil
}
func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, at time.Time) (int64, error) {
	var n int64
	for k, t := range f.tokens {
		if t.Expired(at) {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

// --- assets ---

type fakeAssetsRepo struct {
	byID       map[string]*models.Asset
	referenced map[string]bool
}

func (f *fakeAssetsRepo) Create(ctx context.Context, a *models.Asset) error {
	a.CreatedAt = now()
	c := *a
	f.byID[a.ID] = &c
	return nil
}
func (f *fakeAssetsRepo) Get(ctx context.Context, ownerID, id string) (*models.Asset, error) {
	a, ok := f.byID[id]
	if !ok || a.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	c := *a
	return &c, nil
}
func (f *fakeAssetsRepo) MarkUploaded(ctx context.Context, ownerID, id string) error {
	a, ok := f.byID[id]
	if !ok || a.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	a.Status = models.AssetUploaded
	return nil
}
func (f *fakeAssetsRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	return f.referenced[id], nil
}
func (f *fakeAssetsRepo) Delete(ctx context.Context, id string) error {
	if f.referenced[id] {
		return common.ErrAssetInUse
	}
	delete(f.byID, id)
	return nil
}
func (f *fakeAssetsRepo) ListStalePending(ctx context.Context, before time.Time, limit int) ([]*models.Asset, error) {
	var out []*models.Asset
	for _, a := range f.byID {
		if a.Status == models.AssetPending && a.CreatedAt.Before(before) && len(out) < limit {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

// --- products ---

type fakeProductsRepo struct {
	byID  map[string]*models.Product
	inUse map[string]bool
}

func (f *fakeProductsRepo) Create(ctx context.Context, p *models.Product) error {
	p.CreatedAt, p.UpdatedAt = now(), now()
	c := *p
	f.byID[p.ID] = &c
	return nil
}
func (f *fakeProductsRepo) Get(ctx context.Context, ownerID, id string) (*models.Product, error) {
	p, ok := f.byID[id]
	if !ok || p.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	c := *p
	return &c, nil
}
func (f *fakeProductsRepo) GetMany(ctx context.Context, ownerID string, ids []string) ([]*models.Product, error) {
	var out []*models.Product
	for _, id := range ids {
		if p, err := f.Get(ctx, ownerID, id); err == nil {
			out = append(out, p)
		}
	}
	return out, nil
}
func (f *fakeProductsRepo) List(ctx context.Context, ownerID, search string, page models.Page) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range f.byID {
		if p.OwnerID == ownerID && strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			c := *p
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *models.Product) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
func (f *fakeProductsRepo) Update(ctx context.Context, p *models.Product) error {
	if _, err := f.Get(ctx, p.OwnerID, p.ID); err != nil {
		return err
	}
	p.UpdatedAt = now()
	c := *p
	f.byID[p.ID] = &c
	return nil
}
func (f *fakeProductsRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := f.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if f.inUse[id] {
		return common.ErrAssetInUse
	}
	delete(f.byID, id)
	return nil
}

// --- recipes ---

type fakeRecipesRepo struct {
	byID map[string]*models.Recipe
}

func cloneRecipe(r *models.Recipe) *models.Recipe {
	c := *r
	c.Steps = make([]models.RecipeStep, len(r.Steps))
	for i, s := range r.Steps {
		c.Steps[i] = models.RecipeStep{Description: s.Description, Ingredients: slices.Clone(s.Ingredients)}
	}
	return &c
}

func (f *fakeRecipesRepo) Create(ctx context.Context, r *models.Recipe) error {
	r.CreatedAt, r.UpdatedAt = now(), now()
	f.byID[r.ID] = cloneRecipe(r)
	return nil
}
func (f *fakeRecipesRepo) Get(ctx context.Context, ownerID, id string) (*models.Recipe, error) {
	r, ok := f.byID[id]
	if !ok || r.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return cloneRecipe(r), nil
}
func (f *fakeRecipesRepo) GetMany(ctx context.Context, ownerID string, ids []string) ([]*models.Recipe, error) {
	var out []*models.Recipe
	for _, id := range ids {
		if r, err := f.Get(ctx, ownerID, id); err == nil {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeRecipesRepo) List(ctx context.Context, ownerID, search string, page models.Page) ([]*models.Recipe, error) {
	var out []*models.Recipe
	for _, r := range f.byID {
		if r.OwnerID == ownerID && strings.Contains(strings.ToLower(r.Name), strings.ToLower(search)) {
			out = append(out, cloneRecipe(r))
		}
	}
	slices.SortFunc(out, func(a, b *models.Recipe) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
func (f *fakeRecipesRepo) Update(ctx context.Context, r *models.Recipe) error {
	if _, err := f.Get(ctx, r.OwnerID, r.ID); err != nil {
		return err
	}
	r.UpdatedAt = now()
	f.byID[r.ID] = cloneRecipe(r)
	return nil
}
func (f *fakeRecipesRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := f.Get(ctx, ownerID, id); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

// --- meals ---

type fakeMealsRepo struct {
	byID map[string]*models.Meal
}

func cloneMeal(m *models.Meal) *models.Meal {
	c := *m
	c.Items = slices.Clone(m.Items)
	if c.Items == nil {
		c.Items = []models.MealItem{}
	}
	return &c
}

func (f *fakeMealsRepo) Create(ctx context.Context, m *models.Meal) error {
	m.CreatedAt, m.UpdatedAt = now(), now()
	f.byID[m.ID] = cloneMeal(m)
	return nil
}
func (f *fakeMealsRepo) Get(ctx context.Context, ownerID, id string) (*models.Meal, error) {
	m, ok := f.byID[id]
	if !ok || m.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return cloneMeal(m), nil
}
func (f *fakeMealsRepo) ListByRange(ctx context.Context, ownerID string, from, to time.Time) ([]*models.Meal, error) {
	out := []*models.Meal{}
	for _, m := range f.byID {
		if m.OwnerID == ownerID && !m.Date.Before(from) && !m.Date.After(to) {
			out = append(out, cloneMeal(m))
		}
	}
	slices.SortFunc(out, func(a, b *models.Meal) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}
func (f *fakeMealsRepo) Update(ctx context.Context, m *models.Meal) error {
	if _, err := f.Get(ctx, m.OwnerID, m.ID); err != nil {
		return err
	}
	m.UpdatedAt = now()
	f.byID[m.ID] = cloneMeal(m)
	return nil
}
func (f *fakeMealsRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := f.Get(ctx, ownerID, id); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}

// --- shopping lists ---

type fakeListsRepo struct {
	byID map[string]*models.ShoppingList
}

func cloneList(l *models.ShoppingList) *models.ShoppingList {
	c := *l
	c.Items = slices.Clone(l.Items)
	if c.Items == nil {
		c.Items = []models.ShoppingListItem{}
	}
	return &c
}

func (f *fakeListsRepo) Create(ctx context.Context, l *models.ShoppingList) error {
	l.CreatedAt, l.UpdatedAt = now(), now()
	f.byID[l.ID] = cloneList(l)
	return nil
}
func (f *fakeListsRepo) Get(ctx context.Context, ownerID, id string) (*models.ShoppingList, error) {
	l, ok := f.byID[id]
	if !ok || l.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return cloneList(l), nil
}
func (f *fakeListsRepo) List(ctx context.Context, ownerID string) ([]*models.ShoppingList, error) {
	var out []*models.ShoppingList
	for _, l := range f.byID {
		if l.OwnerID == ownerID {
			out = append(out, cloneList(l))
		}
	}
	slices.SortFunc(out, func(a, b *models.ShoppingList) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}
func (f *fakeListsRepo) GetCurrent(ctx context.Context, ownerID string) (*models.ShoppingList, error) {
	for _, l := range f.byID {
		if l.OwnerID == ownerID && l.IsCurrent {
			return cloneList(l), nil
		}
	}
	return nil, common.ErrorNotFound
}
func (f *fakeListsRepo) Update(ctx context.Context, l *models.ShoppingList) error {
	old, err := f.Get(ctx, l.OwnerID, l.ID)
	if err != nil {
		return err
	}
	l.IsCurrent = old.IsCurrent
	l.UpdatedAt = now()
	f.byID[l.ID] = cloneList(l)
	return nil
}
func (f *fakeListsRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := f.Get(ctx, ownerID, id); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}
func (f *fakeListsRepo) SetCurrent(ctx context.Context, ownerID, id string) error {
	if _, err := f.Get(ctx, ownerID, id); err != nil {
		return err
	}
	for _, l := range f.byID {
		if l.OwnerID == ownerID {
			l.IsCurrent = l.ID == id
		}
	}
	return nil
}
func (f *fakeListsRepo) SetItemChecked(ctx context.Context, ownerID, listID, itemID string, checked bool) error {
	l, ok := f.byID[listID]
	if !ok || l.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	return l.SetItemChecked(itemID, checked)
}

// --- measurements ---

type fakeMeasurementsRepo struct {
	byID map[string]*models.Measurement
}

func (f *fakeMeasurementsRepo) Upsert(ctx context.Context, m *models.Measurement) error {
	for _, e := range f.byID {
		if e.OwnerID == m.OwnerID && e.Date.Equal(m.Date) {
			e.Value = m.Value
			e.UpdatedAt = now()
			*m = *e
			return nil
		}
	}
	m.CreatedAt, m.UpdatedAt = now(), now()
	c := *m
	f.byID[m.ID] = &c
	return nil
}
func (f *fakeMeasurementsRepo) List(ctx context.Context, ownerID string, from, to time.Time) ([]*models.Measurement, error) {
	out := []*models.Measurement{}
	for _, m := range f.byID {
		if m.OwnerID == ownerID && !m.Date.Before(from) && !m.Date.After(to) {
			c := *m
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *models.Measurement) int { return a.Date.Compare(b.Date) })
	return out, nil
}
func (f *fakeMeasurementsRepo) Delete(ctx context.Context, ownerID, id string) error {
	m, ok := f.byID[id]
	if !ok || m.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

// --- cycles ---

type fakeCyclesRepo struct {
	byID map[string]*models.Cycle
}

func cloneCycle(c *models.Cycle) *models.Cycle {
	out := *c
	out.Days = slices.Clone(c.Days)
	if out.Days == nil {
		out.Days = []models.CycleDay{}
	}
	return &out
}

func (f *fakeCyclesRepo) Create(ctx context.Context, c *models.Cycle) error {
	c.CreatedAt = now()
	f.byID[c.ID] = cloneCycle(c)
	return nil
}
func (f *fakeCyclesRepo) Get(ctx context.Context, ownerID, id string) (*models.Cycle, error) {
	c, ok := f.byID[id]
	if !ok || c.OwnerID != ownerID {
		return nil, common.ErrorNotFound
	}
	return cloneCycle(c), nil
}
func (f *fakeCyclesRepo) List(ctx context.Context, ownerID string) ([]*models.Cycle, error) {
	out := []*models.Cycle{}
	for _, c := range f.byID {
		if c.OwnerID == ownerID {
			out = append(out, cloneCycle(c))
		}
	}
	slices.SortFunc(out, func(a, b *models.Cycle) int { return b.StartDate.Compare(a.StartDate) })
	return out, nil
}
func (f *fakeCyclesRepo) Update(ctx context.Context, c *models.Cycle) error {
	old, err := f.Get(ctx, c.OwnerID, c.ID)
	if err != nil {
		return err
	}
	old.StartDate, old.Notes = c.StartDate, c.Notes
	f.byID[c.ID] = old
	return nil
}
func (f *fakeCyclesRepo) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := f.Get(ctx, ownerID, id); err != nil {
		return err
	}
	delete(f.byID, id)
	return nil
}
func (f *fakeCyclesRepo) UpsertDay(ctx context.Context, cycleID string, d models.CycleDay) error {
	c, ok := f.byID[cycleID]
	if !ok {
		return common.ErrorNotFound
	}
	for i := range c.Days {
		if c.Days[i].Date.Equal(d.Date) {
			c.Days[i] = d
			return nil
		}
	}
	c.Days = append(c.Days, d)
	slices.SortFunc(c.Days, func(a, b models.CycleDay) int { return a.Date.Compare(b.Date) })
	return nil
}
func (f *fakeCyclesRepo) DeleteDay(ctx context.Context, cycleID string, date time.Time) error {
	c, ok := f.byID[cycleID]
	if !ok {
		return common.ErrorNotFound
	}
	return c.RemoveDay(date)
}

// --- hydration ---

type fakeHydrationRepo struct {
	byID map[string]*models.HydrationEntry
}

func (f *fakeHydrationRepo) Add(ctx context.Context, e *models.HydrationEntry) error {
	e.CreatedAt = now()
	c := *e
	f.byID[e.ID] = &c
	return nil
}
func (f *fakeHydrationRepo) Delete(ctx context.Context, ownerID, id string) error {
	e, ok := f.byID[id]
	if !ok || e.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}
func (f *fakeHydrationRepo) ListRange(ctx context.Context, ownerID string, from, to time.Time) ([]*models.HydrationEntry, error) {
	out := []*models.HydrationEntry{}
	for _, e := range f.byID {
		if e.OwnerID == ownerID && !e.Timestamp.Before(from) && e.Timestamp.Before(to) {
			c := *e
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *models.HydrationEntry) int { return a.Timestamp.Compare(b.Timestamp) })
	return out, nil
}
func (f *fakeHydrationRepo) DailyTotals(ctx context.Context, ownerID string, from, to time.Time) (map[time.Time]int, error) {
	entries, _ := f.ListRange(ctx, ownerID, from, to)
	out := map[time.Time]int{}
	for _, e := range entries {
		out[models.NormalizeDate(e.Timestamp)] += e.AmountML
	}
	return out, nil
}

// --- ai usage ---

type fakeAiUsageRepo struct {
	logged []*models.AiUsage
	quotas map[string]*models.AiQuota
}

func (f *fakeAiUsageRepo) Log(ctx context.Context, u *models.AiUsage) error {
	u.CreatedAt = now()
	c := *u
	f.logged = append(f.logged, &c)
	return nil
}
func (f *fakeAiUsageRepo) TokensSince(ctx context.Context, userID string, since time.Time) (int, error) {
	total := 0
	for _, u := range f.logged {
		if u.UserID == userID && !u.CreatedAt.Before(since) {
			total += u.TotalTokens
		}
	}
	return total, nil
}
func (f *fakeAiUsageRepo) Summary(ctx context.Context, from, to time.Time) ([]models.AiUsageSummary, error) {
	byUser := map[string]*models.AiUsageSummary{}
	var order []string
	for _, u := range f.logged {
		if u.CreatedAt.Before(from) || !u.CreatedAt.Before(to) {
			continue
		}
		s, ok := byUser[u.UserID]
		if !ok {
			s = &models.AiUsageSummary{UserID: u.UserID}
			byUser[u.UserID] = s
			order = append(order, u.UserID)
		}
		s.Requests++
		s.InputTokens += u.InputTokens
		s.OutputTokens += u.OutputTokens
		s.TotalTokens += u.TotalTokens
	}
	out := []models.AiUsageSummary{}
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	return out, nil
}
func (f *fakeAiUsageRepo) GetQuota(ctx context.Context, userID string) (*models.AiQuota, error) {
	q, ok := f.quotas[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *q
	return &c, nil
}
func (f *fakeAiUsageRepo) SetQuota(ctx context.Context, q *models.AiQuota) error {
	q.UpdatedAt = now()
	c := *q
	f.quotas[q.UserID] = &c
	return nil
}
func (f *fakeAiUsageRepo) DeleteQuota(ctx context.Context, userID string) error {
	if _, ok := f.quotas[userID]; !ok {
		return common.ErrorNotFound
	}
	delete(f.quotas, userID)
	return nil
}

// --- email templates ---

type fakeTemplatesRepo struct {
	byKey map[string]*models.EmailTemplate
}

func (f *fakeTemplatesRepo) List(ctx context.Context) ([]*models.EmailTemplate, error) {
	out := []*models.EmailTemplate{}
	for _, t := range f.byKey {
		c := *t
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *models.EmailTemplate) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}
func (f *fakeTemplatesRepo) Get(ctx context.Context, key string) (*models.EmailTemplate, error) {
	t, ok := f.byKey[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}
func (f *fakeTemplatesRepo) Upsert(ctx context.Context, t *models.EmailTemplate) error {
	t.UpdatedAt = now()
	c := *t
	f.byKey[t.Key] = &c
	return nil
}
func (f *fakeTemplatesRepo) CreateIfMissing(ctx context.Context, t *models.EmailTemplate) (bool, error) {
	if _, ok := f.byKey[t.Key]; ok {
		return false, nil
	}
	return true, f.Upsert(ctx, t)
}

// --- collaborators ---

type sentMail struct {
	key, to string
	data    mail.TemplateData
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, key, to string, data mail.TemplateData) error {
	f.sent = append(f.sent, sentMail{key: key, to: to, data: data})
	return f.err
}

type fakeStorage struct {
	deleted []string
	err     error
}

func (f *fakeStorage) PresignPut(ctx context.Context, key, contentType string, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://s3.local/put/" + key, nil
}
func (f *fakeStorage) PresignGet(ctx context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://s3.local/get/" + key, nil
}
func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, key)
	return nil
}
