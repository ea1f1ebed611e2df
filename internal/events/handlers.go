package events

import (
	"context"

	"github.com/proninteam/collect_go_server/internal/pkg/cache"
	"github.com/proninteam/collect_go_server/internal/pkg/queue"
)

// NewCacheInvalidator 任何付款/点赞/评论/活动的变更都使该活动的详情缓存失效
func NewCacheInvalidator(store *cache.Store) HandlerFunc {
	return func(ctx context.Context, e Event) error {
		if e.CollectID == 0 {
			return nil
		}
		return store.InvalidateCollectDetail(ctx, e.CollectID)
	}
}

// NewNotificationEnqueuer 活动创建和付款创建时入队异步通知
func NewNotificationEnqueuer(q *queue.Queue) HandlerFunc {
	return func(ctx context.Context, e Event) error {
		if e.Action != ActionCreated {
			return nil
		}

		switch e.Entity {
		case EntityCollect:
			return q.Push(ctx, &queue.NotificationMessage{
				Type:      queue.TypeCollectCreated,
				CollectID: e.CollectID,
			})
		case EntityPayment:
			return q.Push(ctx, &queue.NotificationMessage{
				Type:      queue.TypePaymentCreated,
				CollectID: e.CollectID,
				PaymentID: e.PaymentID,
			})
		}

		return nil
	}
}
