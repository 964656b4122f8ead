package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	checkinhandler "gatecheck/internal/checkin/handler"
	"gatecheck/internal/platform/config"
	"gatecheck/internal/platform/middleware"
	reporthandler "gatecheck/internal/report/handler"
	suspendhandler "gatecheck/internal/suspend/handler"
	"gatecheck/pkg/platform/httputil"
)

// Deps collects everything the router mounts. Handlers own their routes via
// Register; the router only decides middleware and privilege grouping.
type Deps struct {
	Gate    config.Gate
	Logger  *slog.Logger
	CheckIn *checkinhandler.Handler
	Suspend *suspendhandler.Handler
	Report  *reporthandler.Handler
	Health  func(ctx context.Context) error
}

// NewRouter wires the two privilege levels: operators scan (check-in and
// suspend), observers only read aggregates. Authorization itself is the
// out-of-scope static-secret gate applied as middleware; services below this
// layer never authorize.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", handleHealth(d.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(op chi.Router) {
		op.Use(middleware.RequireSecret("operator", d.Gate.OperatorSecret, d.Logger))
		d.CheckIn.Register(op)
		d.Suspend.Register(op)
	})

	r.Group(func(ob chi.Router) {
		ob.Use(middleware.RequireSecret("observer", d.Gate.ObserverSecret, d.Logger))
		d.Report.Register(ob)
	})

	return r
}

func handleHealth(health func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(r.Context()); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
					"error":  err.Error(),
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
