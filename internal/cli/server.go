package cli

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/account"
	"github.com/MrEthical07/goSession/handler"
	promexport "github.com/MrEthical07/goSession/metrics/export/prometheus"
	"github.com/MrEthical07/goSession/middleware"
	"github.com/MrEthical07/goSession/permission"
)

// newRouter mounts every HTTP surface of the server.
func newRouter(engine *goSession.Engine, svc *account.Service, metrics bool, logger *slog.Logger) http.Handler {
	onError := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("request failed", "path", r.URL.Path, "error", err)
		middleware.DefaultErrorHandler(w, r, err)
	}
	withErr := middleware.WithErrorHandler(onError)
	paths := engine.Paths()

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			promexport.NewExporter(engine),
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	auth := handler.NewAuth(engine, nil, onError)
	r.Mount("/auth", auth.Routes(goSession.AreaGeneral))
	r.Mount(paths.AdminPrefix+"/auth", auth.Routes(goSession.AreaAdmin))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Guard(engine, withErr))
		r.Get(paths.Dashboard, landing)
		r.With(middleware.RequireOperation(engine, permission.OpAdminArea, withErr)).
			Get(paths.AdminLanding, landing)
		r.Route(paths.AdminPrefix+"/usuarios", func(r chi.Router) {
			r.Use(middleware.RequireOperation(engine, permission.OpManageUsers, withErr))
			r.Mount("/", handler.NewUsers(engine, svc, paths.AdminPrefix+"/usuarios", logger).Routes())
		})
	})

	return r
}

// landing reports who is signed in; page rendering belongs to the host
// application.
func landing(w http.ResponseWriter, r *http.Request) {
	id, _ := goSession.IdentityFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"name": id.User.Name,
		"role": id.Role().String(),
		"area": id.Area.String(),
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start).String(),
			)
		})
	}
}
