package httpapi

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig carries the cross-cutting settings of the router.
type RouterConfig struct {
	ServiceName    string
	JWTSecret      string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter mounts the estate API. Reads are public; writes need a bearer token.
func NewRouter(h *Handler, cfg RouterConfig, m *metrics.MetricsManager, log *logger.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(log.Named("HTTP")))
	r.Use(chimw.Recoverer)
	r.Use(Tracing(cfg.ServiceName))
	r.Use(Metrics(m))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/property-types", h.ListPropertyTypes)
		r.Get("/property-types/{id}", h.GetPropertyType)
		r.Get("/tags", h.ListTags)
		r.Get("/tags/{id}", h.GetTag)
		r.Get("/properties", h.ListProperties)
		r.Get("/properties/{id}", h.GetProperty)
		r.Get("/properties/{id}/offers", h.ListOffers)
		r.Get("/properties/{id}/invoices", h.ListInvoices)
		r.Get("/offers/{id}", h.GetOffer)

		r.Group(func(r chi.Router) {
			r.Use(JWTAuth(cfg.JWTSecret, log.Named("JWTAuth")))

			r.Post("/property-types", h.CreatePropertyType)
			r.Put("/property-types/{id}", h.UpdatePropertyType)
			r.Delete("/property-types/{id}", h.DeletePropertyType)

			r.Post("/tags", h.CreateTag)
			r.Put("/tags/{id}", h.UpdateTag)
			r.Delete("/tags/{id}", h.DeleteTag)

			r.Post("/properties", h.CreateProperty)
			r.Put("/properties/{id}", h.UpdateProperty)
			r.Delete("/properties/{id}", h.DeleteProperty)
			r.Post("/properties/{id}/cancel", h.CancelProperty)
			r.Post("/properties/{id}/sell", h.SellProperty)
			r.Post("/properties/{id}/photos", h.UploadPhoto)
			r.Post("/properties/{id}/offers", h.CreateOffer)
			r.Post("/properties/{id}/offers/batch", h.CreateOffers)

			r.Put("/offers/{id}", h.UpdateOffer)
			r.Delete("/offers/{id}", h.DeleteOffer)
			r.Post("/offers/{id}/accept", h.AcceptOffer)
			r.Post("/offers/{id}/refuse", h.RefuseOffer)
		})
	})

	return r
}
