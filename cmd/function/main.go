package main

import (
	"context"

	"github.com/rupeetasks/taskbot/internal/bot"
	"github.com/rupeetasks/taskbot/internal/config"
	"github.com/rupeetasks/taskbot/internal/logger"
	"github.com/rupeetasks/taskbot/internal/repository"
	"github.com/rupeetasks/taskbot/internal/service"
	"github.com/rupeetasks/taskbot/internal/session"
)

// Request is the incoming API Gateway request.
type Request struct {
	Body string `json:"body"`
}

// Response is the API Gateway response.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Handler processes a single webhook update per invocation. Note that
// conversation state is in-memory, so multi-step flows need the long-poll
// deployment (cmd/bot) or an externally backed session.Store.
func Handler(ctx context.Context, request Request) (*Response, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errorResponse(err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		return errorResponse(err)
	}

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		return errorResponse(err)
	}

	board := service.NewTaskBoard(repo, session.NewMemoryStore())

	b, err := bot.NewBot(cfg.TelegramToken, board)
	if err != nil {
		return errorResponse(err)
	}

	if err := b.HandleWebhook([]byte(request.Body)); err != nil {
		return errorResponse(err)
	}

	return &Response{
		StatusCode: 200,
		Body:       "",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func errorResponse(err error) (*Response, error) {
	return &Response{
		StatusCode: 500,
		Body:       err.Error(),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}, nil
}

func main() {
	// Entry point for local testing only; deployments invoke Handler.
}
