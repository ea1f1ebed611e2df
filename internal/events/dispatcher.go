package events

import (
	"context"
	"log"
)

// 实体与动作常量
const (
	EntityCollect = "collect"
	EntityPayment = "payment"
	EntityLike    = "like"
	EntityComment = "comment"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event 实体变更事件，在写入提交成功后派发
type Event struct {
	Entity    string
	Action    string
	CollectID int64
	PaymentID int64
}

// HandlerFunc 事件处理函数，错误只记录不向上传播
type HandlerFunc func(ctx context.Context, e Event) error

type registration struct {
	name    string
	handler HandlerFunc
}

// Dispatcher 事件分发器。
// 处理器在触发写入的请求内同步调用，但完全隔离：
// 处理器返回错误或 panic 都不会影响已提交的写入。
type Dispatcher struct {
	registrations []registration
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register 注册事件处理器
func (d *Dispatcher) Register(name string, handler HandlerFunc) {
	d.registrations = append(d.registrations, registration{name: name, handler: handler})
}

// Dispatch 派发事件到所有处理器
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	for _, reg := range d.registrations {
		d.invoke(ctx, reg, e)
	}
}

func (d *Dispatcher) invoke(ctx context.Context, reg registration, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event handler %s panicked on %s.%s: %v", reg.name, e.Entity, e.Action, r)
		}
	}()

	if err := reg.handler(ctx, e); err != nil {
		log.Printf("Event handler %s failed on %s.%s (collect=%d): %v",
			reg.name, e.Entity, e.Action, e.CollectID, err)
	}
}
