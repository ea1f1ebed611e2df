package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/proninteam/collect_go_server/config"
	"github.com/proninteam/collect_go_server/internal/api/middleware"
	"github.com/proninteam/collect_go_server/internal/events"
	"github.com/proninteam/collect_go_server/internal/pkg/cache"
	"github.com/proninteam/collect_go_server/internal/pkg/response"
	"github.com/proninteam/collect_go_server/internal/repository"
	"github.com/proninteam/collect_go_server/internal/service"
	"github.com/proninteam/collect_go_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testContext 本地测试上下文
type testContext struct {
	DB *gorm.DB
}

// setupApp 构建带完整服务栈的测试环境
func setupApp(t *testing.T) (*testContext, *service.CollectService, *service.PaymentService, *service.LikeService, *service.CommentService, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	client, _, cleanupRedis := testutil.SetupTestRedis(t)
	store := cache.NewStore(client, time.Minute)

	dispatcher := events.NewDispatcher()
	dispatcher.Register("cache_invalidator", events.NewCacheInvalidator(store))

	collectRepo := repository.NewCollectRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)

	cfg := &config.Config{}

	collectService := service.NewCollectService(collectRepo, paymentRepo, userRepo, store, dispatcher, cfg)
	paymentService := service.NewPaymentService(db, collectRepo, paymentRepo, userRepo, dispatcher, cfg)
	likeService := service.NewLikeService(likeRepo, paymentRepo, dispatcher, cfg)
	commentService := service.NewCommentService(commentRepo, paymentRepo, userRepo, dispatcher, cfg)

	ctx := &testContext{DB: db}

	cleanup := func() {
		cleanupRedis()
		testutil.CleanupTestDB(t, db)
	}

	return ctx, collectService, paymentService, likeService, commentService, cleanup
}

// mockAuth 模拟认证中间件
func mockAuth(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}
