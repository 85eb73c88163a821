package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Koncii-co/koncii-wander-guide/internal/app"
	"github.com/Koncii-co/koncii-wander-guide/internal/config"
	"github.com/Koncii-co/koncii-wander-guide/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func main() {
	envFile := flag.String("env", ".env", "файл с переменными окружения")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.BotToken == "" {
		log.Fatal("Не указан токен бота (BOT_TOKEN)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}
	defer db.Close()

	services, err := app.NewServices(ctx, cfg, db, log)
	if err != nil {
		log.Fatal("не удалось инициализировать сервисы", zap.Error(err))
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal("Ошибка инициализации бота", zap.Error(err))
	}
	log.Info("запущен бот", zap.String("username", api.Self.UserName))

	b := &bot{
		api:           api,
		profiles:      services.Auth,
		concierge:     services.Concierge,
		accommodation: services.Accommodation,
		cart:          services.Cart,
		trips:         services.Trips,
		bookings:      services.Bookings,
		sessions:      newSessionStore(sessionTTL),
		log:           log.Named("bot"),
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			log.Info("бот остановлен")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}
