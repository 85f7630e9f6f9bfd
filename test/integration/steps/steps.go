// Package steps wires the Godog step definitions to a live in-process API
// server backed by the shared SQLite and miniredis mocks.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/application/usecase/category"
	"github.com/budgetree/backend/internal/application/usecase/transaction"
	"github.com/budgetree/backend/internal/domain/entity"
	"github.com/budgetree/backend/internal/infra/server/router"
	"github.com/budgetree/backend/internal/integration/adapters"
	"github.com/budgetree/backend/internal/integration/entrypoint/controller"
	"github.com/budgetree/backend/internal/integration/entrypoint/middleware"
	"github.com/budgetree/backend/internal/integration/persistence"
	"github.com/budgetree/backend/internal/integration/persistence/model"
	"github.com/budgetree/backend/test/integration/mock"
)

const testJWTSecret = "integration-test-secret"

var (
	serverOnce   sync.Once
	serverURL    string
	testDB       *mock.Db
	tokenService adapter.TokenService
)

// startServer boots the full API once per test run: real router, controllers,
// use cases and repositories over the shared in-memory database.
func startServer() {
	serverOnce.Do(func() {
		testDB = mock.NewDb(map[string]any{
			"categories":   &model.CategoryModel{},
			"transactions": &model.TransactionModel{},
		})

		redisClient := redis.NewClient(&redis.Options{Addr: mock.NewRedis().Addr()})

		categoryRepo := persistence.NewCategoryRepository(testDB.DbConn)
		transactionRepo := persistence.NewTransactionRepository(testDB.DbConn)

		tokenService = adapters.NewTokenService(testJWTSecret, time.Hour)

		validator := category.NewValidator(categoryRepo)
		categoryController := controller.NewCategoryController(
			category.NewCreateCategoryUseCase(categoryRepo, validator),
			category.NewUpdateCategoryUseCase(categoryRepo, validator),
			category.NewDeleteCategoryUseCase(categoryRepo, transactionRepo),
			category.NewGetCategoryUseCase(categoryRepo),
			category.NewGetChildrenUseCase(categoryRepo),
			category.NewListCategoriesUseCase(categoryRepo),
			category.NewGetHierarchyUseCase(categoryRepo),
			category.NewGetCategoryPathUseCase(categoryRepo),
			category.NewGetCategoryStatsUseCase(categoryRepo),
		)
		transactionController := controller.NewTransactionController(
			transaction.NewRecordTransactionUseCase(transactionRepo, categoryRepo),
			transaction.NewListTransactionsUseCase(transactionRepo),
		)

		healthController := controller.NewHealthController(func() bool { return true })
		// Generous limit so scenarios never trip it while still exercising the
		// limiter path on every write.
		writeRateLimiter := middleware.NewRateLimiterWithConfig(redisClient, 10000, time.Minute)
		authMiddleware := middleware.NewAuthMiddleware(tokenService)

		r := router.NewRouter(healthController, categoryController, transactionController, writeRateLimiter, authMiddleware)
		engine := r.Setup("test")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			panic("failed to reserve test server port: " + err.Error())
		}
		serverURL = "http://" + listener.Addr().String()

		go func() {
			_ = http.Serve(listener, engine)
		}()

		waitForServer()
	})
}

func waitForServer() {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(serverURL + "/health")
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	panic("test server did not become ready")
}

// testContext carries the state of a single scenario.
type testContext struct {
	client      *http.Client
	headers     map[string]string
	status      int
	body        []byte
	userID      uuid.UUID
	categoryIDs map[string]uuid.UUID
	lastID      string
}

func (t *testContext) reset() {
	t.headers = map[string]string{}
	t.categoryIDs = map[string]uuid.UUID{}
	t.status = 0
	t.body = nil
	t.userID = uuid.Nil
	t.lastID = ""
}

func (t *testContext) theAPIServerIsRunning() error {
	startServer()
	return nil
}

func (t *testContext) iAmAuthenticatedAs(email string) error {
	// Deterministic per-email user so re-authenticating stays on the same user.
	t.userID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(email))
	token, err := tokenService.GenerateAccessToken(context.Background(), t.userID)
	if err != nil {
		return fmt.Errorf("failed to issue test token: %w", err)
	}
	t.headers["Authorization"] = "Bearer " + token
	return nil
}

func (t *testContext) iAmNotAuthenticated() error {
	delete(t.headers, "Authorization")
	return nil
}

func (t *testContext) seedCategory(name, categoryType string, parentID *uuid.UUID, active bool) error {
	cat := entity.NewCategory(t.userID, name, entity.CategoryType(categoryType), entity.DefaultCategoryColor, entity.DefaultCategoryIcon, false, parentID)
	cat.IsActive = active
	if err := testDB.DbConn.Create(model.CategoryFromEntity(cat)).Error; err != nil {
		return fmt.Errorf("failed to seed category %s: %w", name, err)
	}
	t.categoryIDs[name] = cat.ID
	return nil
}

func (t *testContext) aCategoryExists(categoryType, name string) error {
	return t.seedCategory(name, categoryType, nil, true)
}

func (t *testContext) aCategoryExistsUnder(categoryType, name, parentName string) error {
	parentID, ok := t.categoryIDs[parentName]
	if !ok {
		return fmt.Errorf("unknown parent category %q", parentName)
	}
	return t.seedCategory(name, categoryType, &parentID, true)
}

func (t *testContext) anInactiveCategoryExists(categoryType, name string) error {
	return t.seedCategory(name, categoryType, nil, false)
}

func (t *testContext) aTransactionReferencingExists(categoryName string) error {
	categoryID, ok := t.categoryIDs[categoryName]
	if !ok {
		return fmt.Errorf("unknown category %q", categoryName)
	}
	txn := entity.NewTransaction(
		t.userID,
		time.Now().UTC(),
		"seeded transaction",
		decimal.NewFromInt(-10),
		entity.TransactionTypeExpense,
		&categoryID,
		"",
	)
	if err := testDB.DbConn.Create(model.TransactionFromEntity(txn)).Error; err != nil {
		return fmt.Errorf("failed to seed transaction: %w", err)
	}
	return nil
}

// replacePlaceholders substitutes {{category:Name}} and {{last_id}} tokens in
// paths, bodies and expected values.
func (t *testContext) replacePlaceholders(s string) string {
	for name, id := range t.categoryIDs {
		s = strings.ReplaceAll(s, "{{category:"+name+"}}", id.String())
	}
	return strings.ReplaceAll(s, "{{last_id}}", t.lastID)
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.doRequest(method, path, nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	return t.doRequest(method, path, []byte(t.replacePlaceholders(body.Content)))
}

func (t *testContext) doRequest(method, path string, body []byte) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, serverURL+t.replacePlaceholders(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	t.status = resp.StatusCode
	t.body, err = io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	t.captureIDs()
	return nil
}

// captureIDs remembers ids from created resources so later steps can address
// them by name or as {{last_id}}.
func (t *testContext) captureIDs() {
	var doc map[string]any
	if err := json.Unmarshal(t.body, &doc); err != nil {
		return
	}
	id, ok := doc["id"].(string)
	if !ok {
		return
	}
	t.lastID = id
	if name, ok := doc["name"].(string); ok {
		if parsed, err := uuid.Parse(id); err == nil {
			t.categoryIDs[name] = parsed
		}
	}
}

func (t *testContext) theResponseStatusShouldBe(expected int) error {
	if t.status != expected {
		return fmt.Errorf("expected status %d, got %d (body: %s)", expected, t.status, t.body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(path, expected string) error {
	value, err := t.valueAtPath(path)
	if err != nil {
		return err
	}
	expected = t.replacePlaceholders(expected)
	if got := fmt.Sprint(value); got != expected {
		return fmt.Errorf("expected field %q to be %q, got %q (body: %s)", path, expected, got, t.body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(path string) error {
	_, err := t.valueAtPath(path)
	return err
}

func (t *testContext) theResponseListShouldHaveItems(path string, count int) error {
	value, err := t.valueAtPath(path)
	if err != nil {
		return err
	}
	list, ok := value.([]any)
	if !ok {
		return fmt.Errorf("field %q is not a list (body: %s)", path, t.body)
	}
	if len(list) != count {
		return fmt.Errorf("expected %d items in %q, got %d (body: %s)", count, path, len(list), t.body)
	}
	return nil
}

// valueAtPath walks a dot-separated path through the decoded response body.
// Numeric segments index into arrays.
func (t *testContext) valueAtPath(path string) (any, error) {
	var doc any
	if err := json.Unmarshal(t.body, &doc); err != nil {
		return nil, fmt.Errorf("response body is not JSON: %s", t.body)
	}

	current := doc
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found (body: %s)", path, t.body)
			}
			current = value
		case []any:
			index, err := strconv.Atoi(part)
			if err != nil || index < 0 || index >= len(node) {
				return nil, fmt.Errorf("invalid list index %q in path %q", part, path)
			}
			current = node[index]
		default:
			return nil, fmt.Errorf("cannot descend into %q at %q", path, part)
		}
	}
	return current, nil
}

func (t *testContext) theDatabaseShouldHaveActiveCategories(count int) error {
	var total int64
	err := testDB.DbConn.Model(&model.CategoryModel{}).Where("is_active = ?", true).Count(&total).Error
	if err != nil {
		return err
	}
	if total != int64(count) {
		return fmt.Errorf("expected %d active categories, got %d", count, total)
	}
	return nil
}

func (t *testContext) categoryActiveState(name string) (bool, error) {
	categoryID, ok := t.categoryIDs[name]
	if !ok {
		return false, fmt.Errorf("unknown category %q", name)
	}
	var row model.CategoryModel
	if err := testDB.DbConn.First(&row, "id = ?", categoryID).Error; err != nil {
		return false, fmt.Errorf("failed to load category %q: %w", name, err)
	}
	return row.IsActive, nil
}

func (t *testContext) theCategoryShouldBeInactive(name string) error {
	active, err := t.categoryActiveState(name)
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("expected category %q to be inactive", name)
	}
	return nil
}

func (t *testContext) theCategoryShouldBeActive(name string) error {
	active, err := t.categoryActiveState(name)
	if err != nil {
		return err
	}
	if !active {
		return fmt.Errorf("expected category %q to be active", name)
	}
	return nil
}

// InitializeTestSuite boots the shared server before any scenario runs.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(startServer)
}

// InitializeScenario registers the step definitions.
func InitializeScenario(sc *godog.ScenarioContext) {
	t := &testContext{client: &http.Client{Timeout: 5 * time.Second}}
	t.reset()

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		startServer()
		mock.ClearRedis()
		t.reset()
		return ctx, testDB.Reset()
	})

	sc.Step(`^the API server is running$`, t.theAPIServerIsRunning)
	sc.Step(`^I am authenticated as "([^"]*)"$`, t.iAmAuthenticatedAs)
	sc.Step(`^I am not authenticated$`, t.iAmNotAuthenticated)
	sc.Step(`^an? "([^"]*)" category named "([^"]*)" exists$`, t.aCategoryExists)
	sc.Step(`^an? "([^"]*)" category named "([^"]*)" exists under "([^"]*)"$`, t.aCategoryExistsUnder)
	sc.Step(`^an inactive "([^"]*)" category named "([^"]*)" exists$`, t.anInactiveCategoryExists)
	sc.Step(`^a transaction referencing "([^"]*)" exists$`, t.aTransactionReferencingExists)
	sc.Step(`^I send a (GET|POST|PATCH|DELETE) request to "([^"]*)"$`, t.iSendARequestTo)
	sc.Step(`^I send a (POST|PATCH) request to "([^"]*)" with body:$`, t.iSendARequestToWithBody)
	sc.Step(`^the response status should be (\d+)$`, t.theResponseStatusShouldBe)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, t.theResponseFieldShouldBe)
	sc.Step(`^the response field "([^"]*)" should exist$`, t.theResponseFieldShouldExist)
	sc.Step(`^the response list "([^"]*)" should have (\d+) items?$`, t.theResponseListShouldHaveItems)
	sc.Step(`^the database should have (\d+) active categories$`, t.theDatabaseShouldHaveActiveCategories)
	sc.Step(`^the category "([^"]*)" should be inactive$`, t.theCategoryShouldBeInactive)
	sc.Step(`^the category "([^"]*)" should be active$`, t.theCategoryShouldBeActive)
}
