package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/mealstreak/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestAPI(t *testing.T, opts Options) (*API, func()) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return NewAPI(gdb, opts), func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

// newTestEngine 挂载会话与设备中间件，routes 负责注册被测接口
func newTestEngine(api *API, routes func(group *gin.RouterGroup)) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))

	group := r.Group("/api")
	group.Use(DeviceSession())
	routes(group)

	r.NoRoute(api.ServeSPA)
	return r
}

// testClient 在请求之间保留会话 cookie，相当于同一台设备
type testClient struct {
	engine  *gin.Engine
	cookies []*http.Cookie
}

func newTestClient(engine *gin.Engine) *testClient {
	return &testClient{engine: engine}
}

func (c *testClient) do(t *testing.T, method, path string, payload any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		switch value := payload.(type) {
		case string:
			body = strings.NewReader(value)
		default:
			data, err := json.Marshal(value)
			if err != nil {
				t.Fatalf("failed to marshal payload: %v", err)
			}
			body = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rr := httptest.NewRecorder()
	c.engine.ServeHTTP(rr, req)

	if fresh := rr.Result().Cookies(); len(fresh) > 0 {
		c.cookies = fresh
	}
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v\nbody=%s", err, rr.Body.String())
	}
	return payload
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
}
