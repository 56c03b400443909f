package wire

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/wire"

	"github.com/sevigo/review-bot/internal/app"
	"github.com/sevigo/review-bot/internal/config"
	"github.com/sevigo/review-bot/internal/core"
	"github.com/sevigo/review-bot/internal/jobs"
	"github.com/sevigo/review-bot/internal/llm"
	"github.com/sevigo/review-bot/internal/logger"
	"github.com/sevigo/review-bot/internal/platforms"
	"github.com/sevigo/review-bot/internal/server"
)

// AppSet provides every component of the webhook server.
var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	config.LoadConfig,
	llm.NewPromptManager,
	platforms.NewRegistry,
	jobs.NewDispatcher,
	jobs.NewReviewJob,
	jobs.NewCommittee,
	jobs.NewCommitteeJob,
	provideGenerator,
	provideJob,
	provideLoggerConfig,
	provideLogWriter,
	provideSlogLogger,
	wire.Bind(new(core.PlatformResolver), new(*platforms.Registry)),
	wire.Bind(new(core.JobDispatcher), new(*jobs.Dispatcher)),
)

func provideGenerator(cfg *config.Config, logger *slog.Logger) llm.Generator {
	opts := []llm.Option{llm.WithHTTPClient(newOllamaHTTPClient(cfg.AI.Timeout))}
	if cfg.AI.EchoTokens {
		opts = append(opts, llm.WithTokenSink(os.Stdout))
	}
	return llm.NewOllamaClient(cfg.AI.OllamaHost, cfg.AI.Model, logger, opts...)
}

// provideJob picks the job webhook events run, based on REVIEW_MODE.
func provideJob(cfg *config.Config, review *jobs.ReviewJob, committee *jobs.CommitteeJob) core.Job {
	if cfg.ReviewMode == config.ModeCommittee {
		return committee
	}
	return review
}

func newOllamaHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: timeout,
	}
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg logger.Config) (io.Writer, func()) {
	w := logger.Writer(cfg)
	if f, ok := w.(*os.File); ok && f != os.Stdout && f != os.Stderr {
		return w, func() { _ = f.Close() }
	}
	return w, func() {}
}

func provideSlogLogger(loggerConfig logger.Config, writer io.Writer) *slog.Logger {
	l := logger.NewLogger(loggerConfig, writer)
	slog.SetDefault(l)
	return l
}
