package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"blog-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPriority(t *testing.T) {
	assert.Equal(t, uint8(0), ClampPriority(-3))
	assert.Equal(t, uint8(4), ClampPriority(4))
	assert.Equal(t, uint8(10), ClampPriority(42))
}

func TestNotificationTask_JSON(t *testing.T) {
	like := true
	task := NotificationTask{Type: TaskTypeVote, UserID: 1, ActorID: 2, PostID: 7, IsLike: &like, Priority: 3}

	body, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"vote","user_id":1,"actor_id":2,"post_id":7,"is_like":true,"priority":3}`, string(body))

	comment := NotificationTask{Type: TaskTypeComment, UserID: 1, ActorID: 2, PostID: 7}
	body, err = json.Marshal(comment)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "is_like")
}

func TestDispatch(t *testing.T) {
	log := logger.New()
	body := []byte(`{"type":"comment","user_id":1,"actor_id":2,"post_id":7}`)

	var got NotificationTask
	ok := func(_ context.Context, task NotificationTask) error {
		got = task
		return nil
	}
	assert.Equal(t, outcomeAck, dispatch(context.Background(), body, false, ok, log))
	assert.Equal(t, NotificationTask{Type: TaskTypeComment, UserID: 1, ActorID: 2, PostID: 7}, got)

	failing := func(context.Context, NotificationTask) error { return errors.New("db down") }
	assert.Equal(t, outcomeRequeue, dispatch(context.Background(), body, false, failing, log))
	assert.Equal(t, outcomeReject, dispatch(context.Background(), body, true, failing, log))

	drop := func(context.Context, NotificationTask) error { return fmt.Errorf("post gone: %w", ErrDropTask) }
	assert.Equal(t, outcomeReject, dispatch(context.Background(), body, false, drop, log))

	called := false
	spy := func(context.Context, NotificationTask) error { called = true; return nil }
	assert.Equal(t, outcomeReject, dispatch(context.Background(), []byte("{not json"), false, spy, log))
	assert.False(t, called)
}
