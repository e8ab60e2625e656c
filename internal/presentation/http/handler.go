package httppresentation

import (
	"net/http"

	appauth "github.com/BiharaCD/beverage-OS/internal/application/auth"
	appinv "github.com/BiharaCD/beverage-OS/internal/application/inventory"
	"github.com/BiharaCD/beverage-OS/internal/application/records"
	"github.com/BiharaCD/beverage-OS/internal/domain/dispatch"
	"github.com/BiharaCD/beverage-OS/internal/domain/party"
	"github.com/BiharaCD/beverage-OS/internal/domain/production"
	"github.com/BiharaCD/beverage-OS/internal/domain/purchasing"
	"github.com/BiharaCD/beverage-OS/internal/domain/receipt"
	"github.com/BiharaCD/beverage-OS/internal/domain/sales"
	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/observability/logctx"
	"github.com/rs/cors"
)

const componentHTTPHandler = "http_server"

// Services are the application entry points the routes call.
type Services struct {
	ReceiveGoods    *appinv.ReceiveGoodsUseCase
	DispatchGoods   *appinv.DispatchGoodsUseCase
	UpdateThreshold *appinv.UpdateThresholdUseCase
	Inventory       *appinv.Service
	Auth            *appauth.Service

	GRNs           *records.Service[receipt.GRN, *receipt.GRN]
	Dispatches     *records.Service[dispatch.Dispatch, *dispatch.Dispatch]
	PurchaseOrders *records.Service[purchasing.PurchaseOrder, *purchasing.PurchaseOrder]
	SupplierBills  *records.Service[purchasing.SupplierBill, *purchasing.SupplierBill]
	Invoices       *records.Service[sales.Invoice, *sales.Invoice]
	Batches        *records.Service[production.Batch, *production.Batch]
	Suppliers      *records.Service[party.Party, *party.Party]
	Customers      *records.Service[party.Party, *party.Party]
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type Options struct {
	// Banner is the text served on GET /.
	Banner string
	Tokens TokenVerifier
	// RequireAuth puts every business route behind a bearer token. Auth routes that
	// act on behalf of a user always require one.
	RequireAuth    bool
	AllowedOrigins []string
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
}

type Handler struct {
	svc          Services
	opts         Options
	log          observability.Logger
	reqCounter   observability.Counter
	durHistogram observability.Histogram
}

func NewHandler(svc Services, opts Options, logger observability.Logger, tel observability.Observability) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = tel.Logger()
	}
	if opts.Banner == "" {
		opts.Banner = "BeverageOS API Running"
	}
	return &Handler{
		svc:          svc,
		opts:         opts,
		log:          baseLogger.With(observability.F("component", componentHTTPHandler)),
		reqCounter:   tel.Metrics().Counter(observability.MHTTPRequests),
		durHistogram: tel.Metrics().Histogram(observability.MHTTPRequestDuration),
	}
}

type access int

const (
	public access = iota
	// business routes: protected only when RequireAuth is set
	business
	signedIn
)

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	s := h.svc

	h.handle(mux, "GET /{$}", public, h.handleRoot)
	h.handle(mux, "GET /health", public, h.handleHealth)
	if h.opts.Metrics != nil {
		mux.Handle("GET /metrics", h.opts.Metrics)
	}

	h.handle(mux, "POST /api/auth/register", public, h.handleRegister)
	h.handle(mux, "POST /api/auth/login", public, h.handleLogin)
	h.handle(mux, "GET /api/auth/profile", signedIn, h.handleProfile)
	h.handle(mux, "GET /api/auth/pending-users", signedIn, h.handlePendingUsers)
	h.handle(mux, "GET /api/auth/approved-users", signedIn, h.handleApprovedUsers)
	h.handle(mux, "PATCH /api/auth/{userId}/approve", signedIn, h.handleApproveUser)
	h.handle(mux, "PATCH /api/auth/{userId}/reject", signedIn, h.handleRejectUser)

	h.handle(mux, "GET /api/inventory", business, h.handleListInventory)
	h.handle(mux, "GET /api/inventory/export", business, h.handleExportInventory)
	h.handle(mux, "GET /api/inventory/{id}", business, h.handleGetInventory)
	h.handle(mux, "PATCH /api/inventory/{id}/threshold", business, h.handleUpdateThreshold)

	h.handle(mux, "POST /api/grn", business, h.handleReceiveGoods)
	h.handle(mux, "GET /api/grn", business, listRecords(s.GRNs))
	h.handle(mux, "GET /api/grn/{id}", business, getRecord(s.GRNs))
	h.handle(mux, "PATCH /api/grn/{id}/status", business, setRecordStatus(s.GRNs))

	h.handle(mux, "POST /api/sales-dispatches", business, h.handleDispatchGoods)
	h.handle(mux, "GET /api/sales-dispatches", business, listRecords(s.Dispatches))
	h.handle(mux, "GET /api/sales-dispatches/{id}", business, getRecord(s.Dispatches))
	h.handle(mux, "PATCH /api/sales-dispatches/{id}/status", business, setRecordStatus(s.Dispatches))

	h.handle(mux, "POST /api/purchase-orders", business, createRecord(s.PurchaseOrders))
	h.handle(mux, "GET /api/purchase-orders", business, listRecords(s.PurchaseOrders))
	h.handle(mux, "GET /api/purchase-orders/{id}", business, getRecord(s.PurchaseOrders))
	h.handle(mux, "PATCH /api/purchase-orders/{id}/status", business, setRecordStatus(s.PurchaseOrders))
	h.handle(mux, "DELETE /api/purchase-orders/{id}", business, deleteRecord(s.PurchaseOrders))

	h.handle(mux, "POST /api/supplier-bills", business, createRecord(s.SupplierBills))
	h.handle(mux, "GET /api/supplier-bills", business, listRecords(s.SupplierBills))
	h.handle(mux, "GET /api/supplier-bills/{id}", business, getRecord(s.SupplierBills))
	h.handle(mux, "PATCH /api/supplier-bills/{id}/status", business, setRecordStatus(s.SupplierBills))
	h.handle(mux, "DELETE /api/supplier-bills/{id}", business, deleteRecord(s.SupplierBills))

	h.handle(mux, "POST /api/customer-invoices", business, createRecord(s.Invoices))
	h.handle(mux, "GET /api/customer-invoices", business, listRecords(s.Invoices))
	h.handle(mux, "GET /api/customer-invoices/{id}", business, getRecord(s.Invoices))
	h.handle(mux, "PATCH /api/customer-invoices/{id}/status", business, setRecordStatus(s.Invoices))

	h.handle(mux, "POST /api/production-batches", business, createRecord(s.Batches))
	h.handle(mux, "GET /api/production-batches", business, listRecords(s.Batches))
	h.handle(mux, "GET /api/production-batches/{id}", business, getRecord(s.Batches))
	h.handle(mux, "PATCH /api/production-batches/{id}/status", business, setRecordStatus(s.Batches))
	h.handle(mux, "PATCH /api/production-batches/{id}/QCresult", business, setRecordQCResult(s.Batches))

	for prefix, svc := range map[string]*records.Service[party.Party, *party.Party]{
		"/api/suppliers": s.Suppliers,
		"/api/customers": s.Customers,
	} {
		h.handle(mux, "POST "+prefix, business, createRecord(svc))
		h.handle(mux, "GET "+prefix, business, listRecords(svc))
		h.handle(mux, "GET "+prefix+"/{id}", business, getRecord(svc))
		h.handle(mux, "PUT "+prefix+"/{id}", business, updateRecord(svc))
		h.handle(mux, "DELETE "+prefix+"/{id}", business, deleteRecord(svc))
	}

	return cors.New(cors.Options{
		AllowedOrigins:   h.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", headerRequestID},
		ExposedHeaders:   []string{headerRequestID},
		AllowCredentials: true,
	}).Handler(mux)
}

// handle registers pattern wrapped as
// Trace → request logger → access log → HTTP metrics → auth → handler.
func (h *Handler) handle(mux *http.ServeMux, pattern string, level access, handler http.HandlerFunc) {
	var inner http.Handler = handler
	if level == signedIn || (level == business && h.opts.RequireAuth) {
		inner = h.withAuth(inner)
	}

	wrapped := h.withTrace(
		ObservabilityMiddleware(
			h.log,
			func(r *http.Request) string { return r.Header.Get(headerRequestID) },
		)(
			h.withAccessLog(
				h.withHTTPMetrics(inner),
			),
		),
	)

	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped.ServeHTTP(w, r.WithContext(contextWithRoute(r.Context(), pattern)))
	}))
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(h.opts.Banner))
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	logctx.FromOr(r.Context(), h.log).Debug("health_check")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
