package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/rupeetasks/taskbot/internal/bot"
	"github.com/rupeetasks/taskbot/internal/config"
	"github.com/rupeetasks/taskbot/internal/logger"
	"github.com/rupeetasks/taskbot/internal/repository"
	"github.com/rupeetasks/taskbot/internal/service"
	"github.com/rupeetasks/taskbot/internal/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		log.Fatal(err)
	}

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		zap.L().Fatal("failed to init repository", zap.Error(err))
	}

	board := service.NewTaskBoard(repo, session.NewMemoryStore())

	b, err := bot.NewBot(cfg.TelegramToken, board)
	if err != nil {
		zap.L().Fatal("failed to init bot", zap.Error(err))
	}

	if err := b.Start(); err != nil {
		zap.L().Fatal("bot stopped", zap.Error(err))
	}
}
