// Package web serves the OAuth callback and the operational endpoints.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Nariman739/ramadan-bot/internal/domain"
	"github.com/Nariman739/ramadan-bot/internal/metrics"
)

// Completer finishes an authorization handshake. seeder.Seeder implements it.
type Completer interface {
	Complete(ctx context.Context, st domain.LinkState, code string) error
}

const (
	successHTML = "<html><body style='font-family:sans-serif;text-align:center;padding:50px'>" +
		"<h2>Готово!</h2>" +
		"<p>Все события Рамадана добавлены в ваш Google Calendar.</p>" +
		"<p>Можете закрыть эту страницу и вернуться в Telegram.</p>" +
		"</body></html>"

	failureHTML = "<html><body style='font-family:sans-serif;text-align:center;padding:50px'>" +
		"<h2>Ошибка</h2>" +
		"<p>Попробуйте снова через /connect в боте.</p>" +
		"</body></html>"
)

// NewRouter builds the HTTP handler: GET /callback, /healthz, /metrics.
func NewRouter(completer Completer, m *metrics.Collector, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Get("/callback", func(w http.ResponseWriter, req *http.Request) {
		code := req.URL.Query().Get("code")
		rawState := req.URL.Query().Get("state")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		if code == "" || rawState == "" {
			log.Warn("callback missing code or state")
			_, _ = w.Write([]byte(failureHTML))
			return
		}
		st, err := domain.ParseLinkState(rawState)
		if err != nil {
			log.Warn("callback with bad state", zap.Error(err))
			_, _ = w.Write([]byte(failureHTML))
			return
		}

		// The seeder already told the user what happened; here we only pick
		// the page for the browser tab.
		if err := completer.Complete(req.Context(), st, code); err != nil {
			_, _ = w.Write([]byte(failureHTML))
			return
		}
		_, _ = w.Write([]byte(successHTML))
	})

	return r
}
