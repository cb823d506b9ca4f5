package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"intake-backend/config"
	"intake-backend/events"
	"intake-backend/handler"
	"intake-backend/jwt"
	"intake-backend/log"
	"intake-backend/mail"
	"intake-backend/password"
	"intake-backend/routes"
	"intake-backend/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.EnsureLogger("development")
		log.Logger.Fatal("failed loading configuration", zap.Error(err))
	}
	log.EnsureLogger(cfg.AppEnv)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var s store.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Logger.Warn("using in-memory store, data is lost on exit")
		s = store.NewMemory()
	default:
		m, err := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Logger.Fatal("failed connecting to database", zap.Error(err))
		}
		defer func() {
			if err := m.Disconnect(context.Background()); err != nil {
				log.Logger.Error("failed disconnecting from database", zap.Error(err))
			}
		}()

		if err := m.EnsureIndexes(ctx); err != nil {
			log.Logger.Fatal("unable to create index", zap.Error(err))
		}
		s = m
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.EventsEnabled() {
		a, err := events.Dial(ctx, cfg.RabbitMQ)
		if err != nil {
			log.Logger.Fatal("failed connecting to rabbitmq", zap.Error(err))
		}
		defer a.Close()
		publisher = a
	}

	var mailer mail.Mailer = mail.Nop{}
	if cfg.MailEnabled() {
		mailer = mail.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	routes.Setup(app, handler.Deps{
		Store:  s,
		Hasher: password.NewHasher(cfg.BcryptCost),
		Tokens: jwt.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL),
		Events: publisher,
		Mailer: mailer,
	})

	go func() {
		<-ctx.Done()
		log.Logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Logger.Info(fmt.Sprintf("Server is running at port: %s", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Logger.Fatal("couldn't serve http", zap.Error(err))
	}
}
