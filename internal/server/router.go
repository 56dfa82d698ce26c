package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	bookingctrl "parkbooking/internal/booking/controller"
	cartctrl "parkbooking/internal/cart/controller"
	checkoutctrl "parkbooking/internal/checkout/controller"
	parkctrl "parkbooking/internal/park/controller"
)

func NewRouter(
	parks *parkctrl.ParkController,
	bookings *bookingctrl.BookingController,
	carts *cartctrl.CartController,
	checkout *checkoutctrl.CheckoutController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/parks", func(r chi.Router) {
			r.Get("/", parks.ListParks)
			r.Post("/", parks.CreatePark)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", parks.GetPark)
				r.Put("/", parks.UpdateDetails)
				r.Delete("/", parks.DeletePark)
				r.Post("/guest-limit", parks.AddGuestCapacity)
				r.Delete("/guest-limit", parks.RemoveGuestCapacity)
				r.Put("/price", parks.UpdatePrice)
				r.Get("/bookings", bookings.ListParkBookings)
				r.Post("/bookings", bookings.CreateBooking)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", bookings.ListBookings)
			r.Get("/{id}", bookings.GetBooking)
			r.Delete("/{id}", bookings.DeleteBooking)
			r.Post("/{id}/cancel", bookings.CancelBooking)
		})

		r.Route("/carts", func(r chi.Router) {
			r.Post("/", carts.CreateCart)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", carts.GetCart)
				r.Delete("/", carts.DeleteCart)
				r.Post("/items", carts.AddItem)
				r.Delete("/items", carts.Clear)
				r.Delete("/items/{bookingId}", carts.RemoveItem)
				r.Post("/undo", carts.Undo)
				r.Get("/totals", carts.Totals)
			})
		})

		r.Post("/checkout", checkout.Checkout)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				zap.String("traceId", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
