package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/comandalivre/opsdesk/internal/alert"
	"github.com/comandalivre/opsdesk/internal/service/models/customer"
	"github.com/comandalivre/opsdesk/internal/service/models/order"
	"github.com/comandalivre/opsdesk/internal/service/services/customersvc"
	"github.com/comandalivre/opsdesk/internal/service/services/ordersvc"
	"github.com/comandalivre/opsdesk/internal/transport/http/alerts"
	deleteorder "github.com/comandalivre/opsdesk/internal/transport/http/delete_order"
	deleteprofile "github.com/comandalivre/opsdesk/internal/transport/http/delete_profile"
	listcustomers "github.com/comandalivre/opsdesk/internal/transport/http/list_customers"
	listorders "github.com/comandalivre/opsdesk/internal/transport/http/list_orders"
	restoreorder "github.com/comandalivre/opsdesk/internal/transport/http/restore_order"
	saveprofile "github.com/comandalivre/opsdesk/internal/transport/http/save_profile"
	updateorder "github.com/comandalivre/opsdesk/internal/transport/http/update_order"
	"github.com/comandalivre/opsdesk/pkg/http/middleware/trace"
	"github.com/comandalivre/opsdesk/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type orderService interface {
	Orders() []order.Order
	Refresh(ctx context.Context) error
	Update(ctx context.Context, id int64, fields order.UpdateFields) error
	Restore(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64, confirm ordersvc.Confirmer) error
}

type customerService interface {
	Customers(ctx context.Context, q customersvc.Query) ([]customer.Summary, error)
	SaveProfile(ctx context.Context, profile customer.Profile) error
	RemoveProfile(ctx context.Context, phone string) error
}

type escalator interface {
	Active() (alert.Alert, bool)
	State() alert.State
	Acknowledge()
	GrantAudio()
}

type pusher interface {
	Grant()
}

type HTTPTransport struct {
	server      *http.Server
	router      *chi.Mux
	orderSvc    orderService
	customerSvc customerService
	escalator   escalator
	pusher      pusher
}

func NewHTTPTransport(
	orderSvc orderService,
	customerSvc customerService,
	esc escalator,
	push pusher,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:      server,
		router:      router,
		orderSvc:    orderSvc,
		customerSvc: customerSvc,
		escalator:   esc,
		pusher:      push,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/orders", h.listOrders)
		r.Patch("/orders/{id}", h.updateOrder)
		r.Post("/orders/{id}/restore", h.restoreOrder)
		r.Delete("/orders/{id}", h.deleteOrder)

		r.Get("/customers", h.listCustomers)
		r.Put("/customers/{phone}", h.saveProfile)
		r.Delete("/customers/{phone}", h.deleteProfile)

		r.Get("/alert", h.activeAlert)
		r.Post("/alert/ack", h.acknowledgeAlert)
		r.Post("/alert/audio", h.grantAudio)
		r.Post("/alert/push", h.grantPush)
	})
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) updateOrder(w http.ResponseWriter, r *http.Request) {
	updateorder.UpdateOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) restoreOrder(w http.ResponseWriter, r *http.Request) {
	restoreorder.RestoreOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) deleteOrder(w http.ResponseWriter, r *http.Request) {
	deleteorder.DeleteOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listCustomers(w http.ResponseWriter, r *http.Request) {
	listcustomers.ListCustomers(w, r, h.customerSvc)
}

func (h *HTTPTransport) saveProfile(w http.ResponseWriter, r *http.Request) {
	saveprofile.SaveProfile(w, r, h.customerSvc)
}

func (h *HTTPTransport) deleteProfile(w http.ResponseWriter, r *http.Request) {
	deleteprofile.DeleteProfile(w, r, h.customerSvc)
}

func (h *HTTPTransport) activeAlert(w http.ResponseWriter, r *http.Request) {
	alerts.GetActive(w, r, h.escalator)
}

func (h *HTTPTransport) acknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	alerts.Acknowledge(w, r, h.escalator)
}

func (h *HTTPTransport) grantAudio(w http.ResponseWriter, r *http.Request) {
	alerts.GrantAudio(w, r, h.escalator)
}

func (h *HTTPTransport) grantPush(w http.ResponseWriter, r *http.Request) {
	alerts.GrantPush(w, r, h.pusher)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
