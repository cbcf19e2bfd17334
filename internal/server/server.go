package server

import (
	"backend-pacewatch/internal/auth"
	"backend-pacewatch/internal/coach"
	"backend-pacewatch/internal/config"
	"backend-pacewatch/internal/db"
	"backend-pacewatch/internal/history"
	"backend-pacewatch/internal/notify"
	"backend-pacewatch/internal/store"
	"backend-pacewatch/internal/strava"
	"backend-pacewatch/internal/tokens"
	"backend-pacewatch/internal/webhook"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Store *store.Store
	Coach *coach.Service
}

func NewServer(cfg config.Config, pg *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	st := store.New(cfg.DataDir)

	var querier db.Querier
	if pg != nil {
		querier = pg
	}
	tokenStore := tokens.NewService(querier)
	api := strava.NewClient(strava.NewTokenManager(cfg.StravaClientID, cfg.StravaClientSecret, tokenStore))

	var notifier notify.Notifier
	if cfg.TelegramBotToken != "" {
		notifier = notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
	}

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    pg,
		Redis: redisClient,
		Store: st,
		Coach: coach.NewService(api, st, notifier, redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.Cfg.AdminKey))
	webhook.RegisterRoutes(s.App.Group("/webhook"), s.Cfg.StravaVerifyToken, s.Coach)
	history.RegisterRoutes(s.App.Group("/activities"), history.NewService(s.Store), jwtMiddleware)
}
