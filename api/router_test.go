package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ddd-course/api/course"
	"ddd-course/api/health"
	"ddd-course/api/order"
	"ddd-course/api/shipment"
	courseapp "ddd-course/application/course"
	orderapp "ddd-course/application/order"
	shipmentapp "ddd-course/application/shipment"
	"ddd-course/config"
	"ddd-course/domain/shared"
	"ddd-course/infrastructure/eventbus"
	"ddd-course/infrastructure/persistence/memory"
	"ddd-course/infrastructure/persistence/retry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
}

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "ddd-course", Version: "test", Env: "test"},
		Database: config.DatabaseConfig{Type: config.DatabaseMemory},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST"},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       600,
		},
	}
}

func newTestEngine(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uowFactory := memory.NewUnitOfWorkFactory(eventbus.NewDispatcher(nil), retry.Disabled)
	router := NewRouter(cfg,
		health.NewController(cfg, nil),
		course.NewController(courseapp.NewApplicationService(memory.NewCourseRepository(), uowFactory)),
		shipment.NewController(shipmentapp.NewApplicationService(memory.NewShipmentRepository(), uowFactory)),
		order.NewController(orderapp.NewApplicationService(memory.NewOrderRepository(), uowFactory)),
	)
	router.SetupRoutes()
	return router.GetEngine()
}

func do(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestCourseEndpoints(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	rec, env := do(t, engine, http.MethodPost, "/api/v1/courses", gin.H{"name": "Domain-Driven Design", "capacity": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	created := decode[courseapp.CourseResponse](t, env.Data)
	assert.Equal(t, 1, created.SeatsLeft)

	rec, env = do(t, engine, http.MethodPost, "/api/v1/courses/"+created.ID+"/enrollments",
		gin.H{"student_id": shared.NewID().String()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	enrolled := decode[courseapp.CourseResponse](t, env.Data)
	assert.True(t, enrolled.Full)
	assert.Equal(t, 2, enrolled.Version)

	t.Run("full course is a business rule violation", func(t *testing.T) {
		rec, env := do(t, engine, http.MethodPost, "/api/v1/courses/"+created.ID+"/enrollments",
			gin.H{"student_id": shared.NewID().String()})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "BUSINESS_RULE_VIOLATION", env.Error)
		assert.False(t, env.Success)
	})

	t.Run("no open courses left", func(t *testing.T) {
		rec, env := do(t, engine, http.MethodGet, "/api/v1/courses/open", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[struct {
			Items []courseapp.CourseResponse `json:"items"`
			Total int                        `json:"total"`
		}](t, env.Data)
		assert.Empty(t, list.Items)
		assert.Equal(t, 0, list.Total)
	})

	t.Run("unknown course", func(t *testing.T) {
		rec, env := do(t, engine, http.MethodGet, "/api/v1/courses/"+shared.NewID().String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", env.Error)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec, env := do(t, engine, http.MethodGet, "/api/v1/courses/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", env.Error)
	})

	t.Run("binding failure", func(t *testing.T) {
		rec, env := do(t, engine, http.MethodPost, "/api/v1/courses", gin.H{"name": "Go", "capacity": 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "BAD_REQUEST", env.Error)
	})

	t.Run("name too short", func(t *testing.T) {
		rec, env := do(t, engine, http.MethodPost, "/api/v1/courses", gin.H{"name": "Go", "capacity": 5})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_ERROR", env.Error)
	})
}

func TestShipmentEndpoints(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	rec, env := do(t, engine, http.MethodPost, "/api/v1/shipments", gin.H{
		"city": "Moscow", "street": "Tverskaya 1", "zip_code": "125009",
		"max_weight_kg": 10, "max_volume_m3": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[shipmentapp.ShipmentResponse](t, env.Data)
	base := "/api/v1/shipments/" + created.ID

	rec, _ = do(t, engine, http.MethodPost, base+"/dispatch", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "empty shipment cannot be dispatched")

	rec, _ = do(t, engine, http.MethodPost, base+"/parcels", gin.H{
		"order_id": shared.NewID().String(), "weight_kg": 11, "volume_m3": 0.1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "parcel heavier than the shipment limit")

	rec, _ = do(t, engine, http.MethodPost, base+"/parcels", gin.H{
		"order_id": shared.NewID().String(), "weight_kg": 2.5, "volume_m3": 0.2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, step := range []string{"dispatch", "transit", "deliver"} {
		rec, _ = do(t, engine, http.MethodPost, base+"/"+step, nil)
		require.Equal(t, http.StatusOK, rec.Code, step+": "+rec.Body.String())
	}

	rec, env = do(t, engine, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	delivered := decode[shipmentapp.ShipmentResponse](t, env.Data)
	assert.Equal(t, "DELIVERED", delivered.Status)
	assert.Equal(t, 5, delivered.Version)
	assert.NotNil(t, delivered.DeliveredAt)

	rec, _ = do(t, engine, http.MethodPost, base+"/cancel", gin.H{"reason": "too late"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = do(t, engine, http.MethodGet, "/api/v1/shipments?status=DELIVERED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Total int `json:"total"`
	}](t, env.Data)
	assert.Equal(t, 1, list.Total)

	rec, _ = do(t, engine, http.MethodGet, "/api/v1/shipments", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderEndpoints(t *testing.T) {
	engine := newTestEngine(t, testConfig())
	customerID := shared.NewID().String()
	productID := shared.NewID().String()

	rec, env := do(t, engine, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id": customerID,
		"currency":    "RUB",
		"items": []gin.H{
			{"product_id": productID, "product_name": "Keyboard", "quantity": 2, "unit_price": 1500},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[orderapp.OrderResponse](t, env.Data)
	assert.Equal(t, int64(3000), created.Total.Amount)
	base := "/api/v1/orders/" + created.ID

	rec, env = do(t, engine, http.MethodPut, base+"/items/"+productID, gin.H{"quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(4500), decode[orderapp.OrderResponse](t, env.Data).Total.Amount)

	rec, _ = do(t, engine, http.MethodDelete, base+"/items/"+shared.NewID().String(), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "removing an unknown product")

	rec, _ = do(t, engine, http.MethodPost, base+"/ship", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "unpaid order cannot ship")

	rec, _ = do(t, engine, http.MethodPost, base+"/pay", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec, env = do(t, engine, http.MethodPost, base+"/ship", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "SHIPPED", decode[orderapp.OrderResponse](t, env.Data).Status)

	rec, _ = do(t, engine, http.MethodPost, base+"/cancel", gin.H{"reason": "changed my mind"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env = do(t, engine, http.MethodGet, "/api/v1/orders/customer/"+customerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Items []orderapp.OrderResponse `json:"items"`
	}](t, env.Data)
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)
}

func TestHealthEndpoints(t *testing.T) {
	cfg := testConfig()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	failing := health.PingerFunc(func(ctx context.Context) error { return errors.New("connection refused") })
	health.NewController(cfg, map[string]health.Pinger{"database": failing, "redis": nil}).
		RegisterRoutes(engine.Group("/api/v1"))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"failed":["database"]`)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestUnknownRoute(t *testing.T) {
	engine := newTestEngine(t, testConfig())

	rec, env := do(t, engine, http.MethodGet, "/api/v1/students", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Error)
	assert.Equal(t, http.StatusNotFound, env.Code)
	assert.Contains(t, env.Message, "/api/v1/students")
	assert.NotEmpty(t, env.RequestID)
}

func TestRootEndpoint(t *testing.T) {
	engine := newTestEngine(t, testConfig())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"storage":"memory"`)
}
