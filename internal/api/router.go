package api

import (
	"github.com/gin-gonic/gin"

	"github.com/proninteam/collect_go_server/config"
	"github.com/proninteam/collect_go_server/internal/api/handler"
	"github.com/proninteam/collect_go_server/internal/api/middleware"
)

type Router struct {
	collectHandler *handler.CollectHandler
	paymentHandler *handler.PaymentHandler
	likeHandler    *handler.LikeHandler
	commentHandler *handler.CommentHandler
	cfg            *config.Config
}

func NewRouter(
	collectHandler *handler.CollectHandler,
	paymentHandler *handler.PaymentHandler,
	likeHandler *handler.LikeHandler,
	commentHandler *handler.CommentHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		collectHandler: collectHandler,
		paymentHandler: paymentHandler,
		likeHandler:    likeHandler,
		commentHandler: commentHandler,
		cfg:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// 公开读取（可选认证）
		public := api.Group("/collects")
		public.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			public.GET("/:id", r.collectHandler.Get)
		}

		// 需要认证的接口
		authenticated := api.Group("/collects")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 活动
			authenticated.POST("", r.collectHandler.Create)
			authenticated.PATCH("/:id", r.collectHandler.Update)
			authenticated.DELETE("/:id", r.collectHandler.Delete)
			authenticated.PATCH("/:id/activate", r.collectHandler.Activate)
			authenticated.PATCH("/:id/deactivate", r.collectHandler.Deactivate)

			// 付款
			authenticated.POST("/:id/payments", r.paymentHandler.Create)

			// 点赞
			authenticated.POST("/:id/payments/:pid/like", r.likeHandler.Create)
			authenticated.DELETE("/:id/payments/:pid/like/delete", r.likeHandler.Delete)

			// 评论
			authenticated.POST("/:id/payments/:pid/comment", r.commentHandler.Create)
			authenticated.DELETE("/:id/payments/:pid/comment/:cid", r.commentHandler.Delete)
		}
	}

	return engine
}
