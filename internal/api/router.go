package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"golang.org/x/time/rate"

	"github.com/projecthelena/greetpay/internal/clock"
	"github.com/projecthelena/greetpay/internal/config"
	_ "github.com/projecthelena/greetpay/internal/docs"
	"github.com/projecthelena/greetpay/internal/logging"
	"github.com/projecthelena/greetpay/internal/probe"
)

type Router struct {
	*chi.Mux
	limiter *IPRateLimiter
}

// NewRouter builds the HTTP router. checkers feed /api/readyz.
// Close releases the rate limiter's background goroutine.
func NewRouter(cfg *config.Config, clk clock.Clock, checkers ...probe.Checker) *Router {
	r := chi.NewRouter()
	metrics := NewMetrics()

	r.Use(RequestID)
	// Only trust X-Forwarded-For / X-Real-IP behind a known proxy; otherwise
	// clients could pick the IP the rate limiter sees.
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(AccessLog(logging.New("http")))
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	var limiter *IPRateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	userH := NewUserHandler(clk)
	paymentH := NewPaymentHandler(clk, cfg.MaxBodyBytes)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		// Probes are never rate limited.
		api.Get("/healthz", Healthz)
		api.Get("/readyz", Readyz(checkers...))

		api.Group(func(limited chi.Router) {
			if limiter != nil {
				limited.Use(RateLimitMiddleware(limiter))
			}
			limited.Get("/user", userH.GetUser)
			limited.Post("/payment", paymentH.PostPayment)

			limited.Get("/docs/*", httpSwagger.Handler(
				httpSwagger.URL("/api/docs/doc.json"),
			))
		})
	})

	return &Router{Mux: r, limiter: limiter}
}

func (rt *Router) Close() {
	if rt.limiter != nil {
		rt.limiter.Stop()
	}
}
