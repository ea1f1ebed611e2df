package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/proninteam/collect_go_server/config"
	"github.com/proninteam/collect_go_server/internal/events"
	"github.com/proninteam/collect_go_server/internal/model"
	"github.com/proninteam/collect_go_server/internal/model/dto"
	"github.com/proninteam/collect_go_server/internal/pkg/cache"
	"github.com/proninteam/collect_go_server/internal/repository"
)

var (
	ErrCollectNotFound   = errors.New("活动不存在")
	ErrCollectPermission = errors.New("无权操作此活动")
	ErrNameTaken         = errors.New("活动名称或 slug 已被占用")
	ErrCollectActive     = errors.New("活动仍在进行中，无需激活")
	ErrCollectNotActive  = errors.New("活动已处于停止状态")
	ErrStopDateNotFuture = errors.New("截止时间必须晚于当前时间")
	ErrStopDateNotLater  = errors.New("新的截止时间必须晚于原截止时间")
	ErrTargetExceedsCap  = errors.New("目标金额不能超过总额上限")
	ErrAmountBelowMin    = errors.New("目标金额与总额上限不得低于最低付款金额")
)

// 活动状态展示文案
const (
	statusOpen   = "收款进行中"
	statusClosed = "收款已结束"
)

// CollectService 负责活动的创建、展示与生命周期流转。
// is_active 只能由本服务（作者操作、付款准入、对账）修改。
type CollectService struct {
	collectRepo *repository.CollectRepository
	paymentRepo *repository.PaymentRepository
	userRepo    *repository.UserRepository
	cacheStore  *cache.Store
	dispatcher  *events.Dispatcher
	cfg         *config.Config
}

func NewCollectService(
	collectRepo *repository.CollectRepository,
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	cacheStore *cache.Store,
	dispatcher *events.Dispatcher,
	cfg *config.Config,
) *CollectService {
	return &CollectService{
		collectRepo: collectRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		cacheStore:  cacheStore,
		dispatcher:  dispatcher,
		cfg:         cfg,
	}
}

// Create 创建活动，默认处于收款中状态
func (s *CollectService) Create(ctx context.Context, userID int64, req *dto.CreateCollectRequest) (*dto.CollectItem, error) {
	if err := validateAmounts(req.MinPayment, req.TargetAmount, req.TotalAmount); err != nil {
		return nil, err
	}
	if !req.StopDate.After(time.Now()) {
		return nil, ErrStopDateNotFuture
	}

	taken, err := s.collectRepo.CountByNameOrSlug(req.Name, req.Slug, 0)
	if err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, ErrNameTaken
	}

	collect := &model.Collect{
		UserID:       userID,
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		LogoURL:      req.LogoURL,
		EventFormat:  req.Event.Format,
		EventReason:  req.Event.Reason,
		EventDate:    req.Event.Date,
		EventTime:    req.Event.Time,
		EventPlace:   req.Event.Place,
		MinPayment:   req.MinPayment,
		TargetAmount: req.TargetAmount,
		TotalAmount:  req.TotalAmount,
		StopDate:     req.StopDate,
		IsActive:     true,
	}

	if err := s.collectRepo.Create(collect); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, events.Event{
		Entity:    events.EntityCollect,
		Action:    events.ActionCreated,
		CollectID: collect.ID,
	})

	return s.buildItem(collect), nil
}

// Get 获取活动详情，优先走缓存
func (s *CollectService) Get(ctx context.Context, id int64) (*dto.CollectDetail, error) {
	var cached dto.CollectDetail
	if err := s.cacheStore.GetCollectDetail(ctx, id, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Collect %d: cache read failed: %v", id, err)
	}

	collect, err := s.collectRepo.GetDetail(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectNotFound
		}
		return nil, err
	}

	detail := s.buildDetail(collect)

	if err := s.cacheStore.SetCollectDetail(ctx, id, detail); err != nil {
		log.Printf("Collect %d: cache write failed: %v", id, err)
	}

	return detail, nil
}

// Update 编辑活动的描述性字段，金额与状态字段不在此处修改
func (s *CollectService) Update(ctx context.Context, userID, id int64, req *dto.UpdateCollectRequest) (*dto.CollectDetail, error) {
	collect, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Slug != nil {
		fields["slug"] = *req.Slug
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.LogoURL != nil {
		fields["logo_url"] = *req.LogoURL
	}
	if req.Event != nil {
		fields["event_format"] = req.Event.Format
		fields["event_reason"] = req.Event.Reason
		fields["event_date"] = req.Event.Date
		fields["event_time"] = req.Event.Time
		fields["event_place"] = req.Event.Place
	}

	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	if req.Name != nil || req.Slug != nil {
		name := collect.Name
		slug := collect.Slug
		if req.Name != nil {
			name = *req.Name
		}
		if req.Slug != nil {
			slug = *req.Slug
		}
		taken, err := s.collectRepo.CountByNameOrSlug(name, slug, id)
		if err != nil {
			return nil, err
		}
		if taken > 0 {
			return nil, ErrNameTaken
		}
	}

	if err := s.collectRepo.UpdateFields(id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, events.Event{
		Entity:    events.EntityCollect,
		Action:    events.ActionUpdated,
		CollectID: id,
	})

	return s.Get(ctx, id)
}

// Delete 删除活动及其全部付款、点赞、评论
func (s *CollectService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.getOwned(userID, id); err != nil {
		return err
	}

	if err := s.collectRepo.Delete(id); err != nil {
		return err
	}

	s.dispatcher.Dispatch(ctx, events.Event{
		Entity:    events.EntityCollect,
		Action:    events.ActionDeleted,
		CollectID: id,
	})

	return nil
}

// Deactivate 作者手动停止收款
func (s *CollectService) Deactivate(ctx context.Context, userID, id int64) (*dto.CollectItem, error) {
	collect, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	if !collect.IsActive {
		return nil, ErrCollectNotActive
	}

	if err := s.collectRepo.SetActive(id, false); err != nil {
		return nil, err
	}
	collect.IsActive = false

	s.dispatcher.Dispatch(ctx, events.Event{
		Entity:    events.EntityCollect,
		Action:    events.ActionUpdated,
		CollectID: id,
	})

	return s.buildItem(collect), nil
}

// Reactivate 重新激活已停止的活动，可同时调整目标金额和截止时间。
// 只替换请求中提供的字段。
func (s *CollectService) Reactivate(ctx context.Context, userID, id int64, req *dto.ReactivateCollectRequest) (*dto.CollectItem, error) {
	collect, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	if collect.IsActive {
		return nil, ErrCollectActive
	}

	fields := map[string]interface{}{"is_active": true}

	if req.StopDate != nil {
		if !req.StopDate.After(time.Now()) {
			return nil, ErrStopDateNotFuture
		}
		if !req.StopDate.After(collect.StopDate) {
			return nil, ErrStopDateNotLater
		}
		fields["stop_date"] = *req.StopDate
	}

	if req.TargetAmount != nil {
		if collect.Capped() && *req.TargetAmount > collect.TotalAmount {
			return nil, ErrTargetExceedsCap
		}
		fields["target_amount"] = *req.TargetAmount
	}

	if err := s.collectRepo.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	collect.IsActive = true
	if req.StopDate != nil {
		collect.StopDate = *req.StopDate
	}
	if req.TargetAmount != nil {
		collect.TargetAmount = *req.TargetAmount
	}

	s.dispatcher.Dispatch(ctx, events.Event{
		Entity:    events.EntityCollect,
		Action:    events.ActionUpdated,
		CollectID: id,
	})

	return s.buildItem(collect), nil
}

// getOwned 获取活动并校验作者权限
func (s *CollectService) getOwned(userID, id int64) (*model.Collect, error) {
	collect, err := s.collectRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectNotFound
		}
		return nil, err
	}

	if collect.UserID != userID {
		return nil, ErrCollectPermission
	}

	return collect, nil
}

func validateAmounts(minPayment, targetAmount, totalAmount float64) error {
	if targetAmount > 0 && targetAmount < minPayment {
		return ErrAmountBelowMin
	}
	if totalAmount > 0 && totalAmount < minPayment {
		return ErrAmountBelowMin
	}
	if targetAmount > 0 && totalAmount > 0 && targetAmount > totalAmount {
		return ErrTargetExceedsCap
	}
	return nil
}

func (s *CollectService) buildItem(c *model.Collect) *dto.CollectItem {
	item := &dto.CollectItem{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		LogoURL:      c.LogoURL,
		MinPayment:   c.MinPayment,
		TargetAmount: c.TargetAmount,
		TotalAmount:  c.TotalAmount,
		StopDate:     c.StopDate.Format(time.RFC3339),
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}

	if c.User != nil {
		item.Author = buildAuthor(c.User)
	}

	return item
}

func (s *CollectService) buildDetail(c *model.Collect) *dto.CollectDetail {
	detail := &dto.CollectDetail{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		LogoURL:     c.LogoURL,
		Event: &dto.EventInfo{
			Format: c.EventFormat,
			Reason: c.EventReason,
			Date:   c.EventDate,
			Time:   c.EventTime,
			Place:  c.EventPlace,
		},
		MinPayment:   c.MinPayment,
		TargetAmount: c.TargetAmount,
		TotalAmount:  c.TotalAmount,
		StopDate:     c.StopDate.Format(time.RFC3339),
		IsActive:     c.IsActive,
		Status:       statusClosed,
		Payments:     []*dto.PaymentItem{},
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}

	if c.IsActive {
		detail.Status = statusOpen
	}

	if c.User != nil {
		detail.Author = buildAuthor(c.User)
	}

	var sum float64
	for _, p := range c.Payments {
		sum += p.Amount
		detail.Payments = append(detail.Payments, buildPaymentItem(p))
	}
	detail.CurrentSum = sum

	return detail
}

func buildAuthor(u *model.User) *dto.AuthorInfo {
	return &dto.AuthorInfo{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.DisplayName(),
	}
}

// buildPaymentItem 构造付款展示项，hide_amount 只隐藏展示金额，
// 不影响 current_sum 统计。
func buildPaymentItem(p *model.Payment) *dto.PaymentItem {
	item := &dto.PaymentItem{
		ID:           p.ID,
		AmountHidden: p.HideAmount,
		LikeCount:    int64(len(p.Likes)),
		Comments:     []*dto.CommentItem{},
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}

	if !p.HideAmount {
		amount := p.Amount
		item.Amount = &amount
	}

	if p.User != nil {
		item.Author = buildAuthor(p.User)
	}

	for _, c := range p.Comments {
		comment := &dto.CommentItem{
			ID:        c.ID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		}
		if c.User != nil {
			comment.Author = buildAuthor(c.User)
		}
		item.Comments = append(item.Comments, comment)
	}

	return item
}
