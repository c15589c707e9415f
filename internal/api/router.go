package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/litreview/config"
	_ "github.com/d60-Lab/litreview/docs"
	"github.com/d60-Lab/litreview/internal/api/handler"
	"github.com/d60-Lab/litreview/internal/api/middleware"
)

// Options 控制可选中间件
type Options struct {
	Sentry  bool
	Tracing bool
	Limiter *middleware.IPRateLimiter
}

// NewRouter 注册所有路由
func NewRouter(cfg *config.Config, h *handler.Handler, parser middleware.TokenParser, opts Options) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	r.Use(gin.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if opts.Tracing {
		r.Use(otelgin.Middleware(cfg.Server.Name))
	}
	r.Use(middleware.RequestLogger(), middleware.Metrics(), middleware.SecurityHeaders())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.Limiter != nil {
		limit = middleware.RateLimit(opts.Limiter)
	}

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth", limit)
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/login", h.Login)
	}

	authed := v1.Group("", middleware.Auth(parser))
	{
		authed.GET("/feed", h.Feed)
		authed.GET("/posts", h.Posts)

		tickets := authed.Group("/tickets")
		tickets.POST("", limit, h.CreateTicket)
		tickets.GET("/:id", h.GetTicket)
		tickets.PUT("/:id", limit, h.EditTicket)
		tickets.DELETE("/:id", h.DeleteTicket)
		tickets.POST("/:id/reviews", limit, h.CreateReview)

		reviews := authed.Group("/reviews")
		reviews.POST("", limit, h.CreateReviewAndTicket)
		reviews.GET("/:id", h.GetReview)
		reviews.PUT("/:id", limit, h.EditReview)
		reviews.DELETE("/:id", h.DeleteReview)

		rel := authed.Group("/relations")
		rel.POST("/follow", limit, h.Follow)
		rel.POST("/unfollow", h.Unfollow)
		rel.POST("/block", h.Block)
		rel.POST("/unblock", h.Unblock)
		rel.GET("/following", h.ListFollowing)
		rel.GET("/followers", h.ListFollowers)
		rel.GET("/blocked", h.ListBlocked)
	}
	return r
}
