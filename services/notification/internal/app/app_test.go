package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"blog-api/pkg/config"
	"blog-api/pkg/jwt"
	"blog-api/pkg/logger"
	"blog-api/pkg/queue"
	"blog-api/services/notification/internal/entity"
	"blog-api/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	page     *entity.Page
	marked   []uint
	err      error
	lastUser uint
}

func (s *stubUseCase) HandleTask(context.Context, queue.NotificationTask) error { return nil }

func (s *stubUseCase) ListNotifications(_ context.Context, userID uint, limit, offset int) (*entity.Page, error) {
	s.lastUser = userID
	return s.page, s.err
}

func (s *stubUseCase) MarkRead(_ context.Context, userID, id uint) error {
	s.lastUser = userID
	if s.err != nil {
		return s.err
	}
	s.marked = append(s.marked, id)
	return nil
}

func (s *stubUseCase) MarkAllRead(_ context.Context, userID uint) (int64, error) {
	s.lastUser = userID
	return 4, s.err
}

var _ usecase.NotificationUseCase = (*stubUseCase)(nil)

func setup(t *testing.T, uc *stubUseCase) (http.Handler, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWTSecret: "notify-secret", AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour}
	token, err := jwt.NewService(cfg.JWTSecret).GenerateToken(11, "user")
	require.NoError(t, err)

	return NewRouter(cfg, logger.New(), uc), token
}

func serve(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNotifications_RequireAuth(t *testing.T) {
	router, _ := setup(t, &stubUseCase{})

	for _, path := range []string{"/api/notifications/", "/api/notifications/read_all/", "/api/notifications/3/read/"} {
		method := http.MethodPost
		if path == "/api/notifications/" {
			method = http.MethodGet
		}
		w := serve(router, method, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestGetNotifications(t *testing.T) {
	uc := &stubUseCase{page: &entity.Page{
		Count:   1,
		Unread:  1,
		Results: []entity.Notification{{ID: 5, Type: "vote", PostID: 2, Message: "reader liked your post"}},
	}}
	router, token := setup(t, uc)

	w := serve(router, http.MethodGet, "/api/notifications/?limit=500", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(11), uc.lastUser)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["unread"])
	results := body["results"].([]interface{})
	first := results[0].(map[string]interface{})
	assert.Equal(t, float64(2), first["post"])
	assert.NotContains(t, first, "ActorID")
}

func TestMarkRead(t *testing.T) {
	uc := &stubUseCase{}
	router, token := setup(t, uc)

	w := serve(router, http.MethodPost, "/api/notifications/5/read/", token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uint{5}, uc.marked)

	w = serve(router, http.MethodPost, "/api/notifications/abc/read/", token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	uc.err = fmt.Errorf("lookup: %w", entity.ErrNotFound)
	w = serve(router, http.MethodPost, "/api/notifications/6/read/", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkAllRead(t *testing.T) {
	router, token := setup(t, &stubUseCase{})

	w := serve(router, http.MethodPost, "/api/notifications/read_all/", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"updated":4}`, w.Body.String())
}

func TestSwaggerDoc(t *testing.T) {
	router, _ := setup(t, &stubUseCase{})

	w := serve(router, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/notifications/{id}/read/")
}
