package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"lessonbook/internal/auth"
	"lessonbook/internal/availability"
	"lessonbook/internal/branch"
	"lessonbook/internal/coach"
	"lessonbook/internal/config"
	"lessonbook/internal/dashboard"
	"lessonbook/internal/lesson"
	"lessonbook/internal/membership"
	"lessonbook/internal/reservation"
	"lessonbook/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	router  *gin.Engine
	http    *http.Server
	limiter *RateLimiter
	done    chan struct{}
	stop    sync.Once
}

// New wires every repository, service and handler onto one router. rdb may be
// nil, in which case availability is computed on every request.
func New(db *sqlx.DB, cfg *config.Config, rdb redis.Cmdable) (*Server, error) {
	opens, err := coach.ParseTimeOfDay(cfg.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("invalid OPEN_TIME: %w", err)
	}
	closes, err := coach.ParseTimeOfDay(cfg.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("invalid CLOSE_TIME: %w", err)
	}
	engine, err := availability.NewEngine(cfg.Location, opens, closes)
	if err != nil {
		return nil, err
	}

	var (
		cache       *availability.Cache
		invalidator coach.Invalidator = noopInvalidator{}
	)
	if rdb != nil {
		cache = availability.NewCache(rdb, cfg.AvailabilityCacheTTL)
		invalidator = cache
	}

	userRepo := user.NewRepository(db)
	branchRepo := branch.NewRepository(db)
	coachRepo := coach.NewRepository(db)
	lessonRepo := lesson.NewRepository(db)
	membershipRepo := membership.NewRepository(db)
	reservationRepo := reservation.NewRepository(db)

	userHandler := user.NewHandler(user.NewService(userRepo, cfg.JWTSecret, cfg.JWTRefreshSecret))
	branchHandler := branch.NewHandler(branch.NewService(branchRepo))
	coachHandler := coach.NewHandler(coach.NewService(coachRepo, invalidator))
	lessonHandler := lesson.NewHandler(lesson.NewService(lessonRepo))
	membershipHandler := membership.NewHandler(membership.NewService(membershipRepo))
	reservationHandler := reservation.NewHandler(reservation.NewService(reservationRepo, lessonRepo, invalidator))
	availabilityHandler := availability.NewHandler(
		availability.NewService(engine, coachRepo, reservationRepo, lessonRepo, cache),
		cfg.Location,
	)
	dashboardHandler := dashboard.NewHandler(dashboard.NewService(dashboard.NewRepository(db), cfg.Location))

	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 3*time.Minute)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		corsMiddleware(),
		RequestLoggingMiddleware(),
		MetricsMiddleware(),
	)
	router.NoRoute(noRoute)

	router.GET("/health", Health(db, rdb))
	router.GET("/metrics", Metrics())

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(limiter))
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware, RateLimitMiddleware(limiter))
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/me/memberships", membershipHandler.ListMine)
		protected.GET("/memberships/:membershipID/ledger", membershipHandler.Ledger)

		protected.GET("/branches", branchHandler.List)
		protected.GET("/branches/:branchID", branchHandler.Get)
		protected.GET("/coaches", coachHandler.List)
		protected.GET("/coaches/:coachID", coachHandler.Get)
		protected.GET("/coaches/:coachID/availability", availabilityHandler.ForCoach)
		protected.GET("/lessons", lessonHandler.Search)
		protected.GET("/lessons/:lessonID", lessonHandler.Get)
		protected.GET("/lessons/:lessonID/availability", availabilityHandler.ForLesson)

		protected.POST("/reservations", reservationHandler.Create)
		protected.GET("/reservations", reservationHandler.ListMine)
		protected.PATCH("/reservations/:reservationID/cancel", reservationHandler.Cancel)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/dashboard/stats", dashboardHandler.Stats)
		admin.GET("/users", userHandler.List)
		admin.POST("/users/:userID/memberships", membershipHandler.Issue)

		admin.POST("/branches", branchHandler.Create)
		admin.PUT("/branches/:branchID", branchHandler.Update)
		admin.DELETE("/branches/:branchID", branchHandler.Delete)

		admin.POST("/coaches", coachHandler.Create)
		admin.PUT("/coaches/:coachID", coachHandler.Update)
		admin.DELETE("/coaches/:coachID", coachHandler.Delete)
		admin.GET("/coaches/:coachID/schedule", coachHandler.GetSchedule)
		admin.PUT("/coaches/:coachID/schedule", coachHandler.ReplaceSchedule)
		admin.POST("/coaches/:coachID/timeoffs", coachHandler.AddTimeOff)
		admin.DELETE("/coaches/:coachID/timeoffs/:timeOffID", coachHandler.RemoveTimeOff)

		admin.POST("/lessons", lessonHandler.Create)
		admin.PUT("/lessons/:lessonID", lessonHandler.Update)
		admin.DELETE("/lessons/:lessonID", lessonHandler.Delete)

		admin.GET("/reservations", reservationHandler.ListAll)
		admin.PATCH("/reservations/:reservationID", reservationHandler.UpdateStatus)

		admin.POST("/memberships/:membershipID/adjust", membershipHandler.Adjust)
		admin.PATCH("/memberships/:membershipID/active", membershipHandler.SetActive)
		admin.GET("/memberships/:membershipID/audit", membershipHandler.Audit)
	}

	return &Server{
		router:  router,
		limiter: limiter,
		done:    make(chan struct{}),
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go s.limiter.Run(time.Minute, s.done)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.stop.Do(func() { close(s.done) })
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateCoach(context.Context, int) error { return nil }
