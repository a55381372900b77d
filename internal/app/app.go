package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Nariman739/ramadan-bot/internal/aladhan"
	"github.com/Nariman739/ramadan-bot/internal/config"
	"github.com/Nariman739/ramadan-bot/internal/gcal"
	"github.com/Nariman739/ramadan-bot/internal/metrics"
	"github.com/Nariman739/ramadan-bot/internal/scheduler"
	"github.com/Nariman739/ramadan-bot/internal/seeder"
	"github.com/Nariman739/ramadan-bot/internal/store"
	"github.com/Nariman739/ramadan-bot/internal/telegram"
	"github.com/Nariman739/ramadan-bot/internal/web"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
	router  *telegram.Router
	sched   *scheduler.Scheduler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // /callback does the whole seeding inline
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting ramadan-bot",
		zap.String("http", a.cfg.HTTPAddr),
		zap.Int("hijri_year", a.cfg.HijriYear),
		zap.Int("hijri_month", a.cfg.HijriMonth),
	)

	loc, err := time.LoadLocation(a.cfg.TZ)
	if err != nil {
		a.log.Error("load timezone failed", zap.String("tz", a.cfg.TZ), zap.Error(err))
		return err
	}

	// Open SQLite, run migrations and the legacy subscriber import.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath, a.cfg.LegacySubs, a.cfg.DefaultCity)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	m := metrics.NewCollector()
	timetable := aladhan.New(a.cfg.AladhanBase, a.cfg.AladhanMethod, loc)
	calendar := gcal.New(a.cfg.GoogleClientID, a.cfg.GoogleClientSecret, a.cfg.CallbackURL)

	a.router = telegram.NewRouter(a.bot, repo, timetable, calendar,
		loc, a.cfg.HijriYear, a.cfg.HijriMonth, m, a.log)

	seed := seeder.New(calendar, repo, timetable, calendar, a.router,
		loc, a.cfg.HijriYear, a.cfg.HijriMonth, m, a.log)
	a.httpSrv.Handler = web.NewRouter(seed, m, a.log)

	notifier := scheduler.NewNotifier(repo, timetable, a.router, a.cfg.HijriMonth, m, a.log)
	a.sched, err = scheduler.New(loc, a.cfg.MorningTime, a.cfg.EveningTime, notifier, a.log)
	if err != nil {
		a.log.Error("scheduler init failed", zap.Error(err))
		return err
	}
	a.sched.Start()

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			a.sched.Stop()

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
