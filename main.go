package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BiharaCD/beverage-OS/internal/application"
	appauth "github.com/BiharaCD/beverage-OS/internal/application/auth"
	appinv "github.com/BiharaCD/beverage-OS/internal/application/inventory"
	"github.com/BiharaCD/beverage-OS/internal/application/records"
	"github.com/BiharaCD/beverage-OS/internal/config"
	"github.com/BiharaCD/beverage-OS/internal/domain/dispatch"
	"github.com/BiharaCD/beverage-OS/internal/domain/document"
	dominv "github.com/BiharaCD/beverage-OS/internal/domain/inventory"
	"github.com/BiharaCD/beverage-OS/internal/domain/party"
	"github.com/BiharaCD/beverage-OS/internal/domain/production"
	"github.com/BiharaCD/beverage-OS/internal/domain/purchasing"
	"github.com/BiharaCD/beverage-OS/internal/domain/receipt"
	"github.com/BiharaCD/beverage-OS/internal/domain/sales"
	domuser "github.com/BiharaCD/beverage-OS/internal/domain/user"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/auth"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/id"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/memory"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/mongostore"
	infraobs "github.com/BiharaCD/beverage-OS/internal/infrastructure/observability"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/observability/oteltrace"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/observability/prometrics"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/observability/zaplogger"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/outbox"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/repository"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/sequence"
	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/pkg/logging"
	"github.com/BiharaCD/beverage-OS/internal/pkg/validation"
	httppresentation "github.com/BiharaCD/beverage-OS/internal/presentation/http"
	workerpresentation "github.com/BiharaCD/beverage-OS/internal/presentation/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	baseLogger := logging.MustNewLogger(cfg.ServiceName, cfg.Env, logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := zaplogger.New(logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	counters, histograms := prometrics.Standard(prometrics.New("", reg))
	tel := infraobs.New(
		oteltrace.New(cfg.ServiceName),
		zaplogger.New(baseLogger),
		infraobs.Instruments{Counters: counters, Histograms: histograms},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		systemLogger.Error("store_open_failed", observability.F("driver", cfg.StoreDriver), observability.F("error", err))
		os.Exit(1)
	}
	systemLogger.Info("store_ready", observability.F("driver", cfg.StoreDriver))

	var codes application.CodeGenerator = sequence.NewTimestamp(nil)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		codes = sequence.NewRedis(rdb)
		systemLogger.Info("sequence_redis", observability.F("addr", cfg.RedisAddr))
	}

	bus := outbox.NewBus(systemLogger, tel, outbox.Options{})
	v := validation.New(cfg.PhoneRegion)
	ids := id.NewUUIDGenerator()
	items := repository.NewInventoryRepository(st.items)
	tokens := auth.NewJWTIssuer(cfg.JWTSecret, cfg.TokenTTL, nil)

	deps := appinv.Deps{
		Items:      items,
		GRNs:       st.grns,
		Dispatches: st.dispatches,
		IDs:        ids,
		Codes:      codes,
		Publisher:  bus,
		Validator:  v,
		Telemetry:  tel,
	}

	svc := httppresentation.Services{
		ReceiveGoods:    appinv.NewReceiveGoodsUseCase(deps),
		DispatchGoods:   appinv.NewDispatchGoodsUseCase(deps),
		UpdateThreshold: appinv.NewUpdateThresholdUseCase(deps),
		Inventory:       appinv.NewService(items),
		Auth: appauth.NewService(repository.NewUserRepository(st.users), auth.NewBcryptHasher(0), tokens, ids, nil, v, tel,
			appauth.Config{AutoApproveOnLogin: cfg.AutoApproveOnLogin}),
		GRNs: records.New(st.grns, ids, nil, v, tel,
			records.Options{Name: "grn", Label: "GRN"}),
		Dispatches: records.New(st.dispatches, ids, nil, v, tel,
			records.Options{Name: "sales_dispatch", Label: "Dispatch", Newest: true}),
		PurchaseOrders: records.New(st.purchaseOrders, ids, nil, v, tel,
			records.Options{Name: "purchase_order", Label: "Purchase Order"}),
		SupplierBills: records.New(st.supplierBills, ids, nil, v, tel,
			records.Options{Name: "supplier_bill", Label: "Supplier bill"}),
		Invoices: records.New(st.invoices, ids, nil, v, tel,
			records.Options{Name: "customer_invoice", Label: "Invoice"}),
		Batches: records.New(st.batches, ids, nil, v, tel,
			records.Options{Name: "production_batch", Label: "Batch"}),
		Suppliers: records.New(st.suppliers, ids, nil, v, tel,
			records.Options{Name: "supplier", Label: "Supplier"}),
		Customers: records.New(st.customers, ids, nil, v, tel,
			records.Options{Name: "customer", Label: "Customer"}),
	}

	workerpresentation.NewStockWatchWorker(bus, appinv.NewStockWatch(items, tel), tel, systemLogger).Start()
	bus.Start(ctx)

	handler := httppresentation.NewHandler(svc, httppresentation.Options{
		Tokens:         tokens,
		RequireAuth:    cfg.RequireAuth,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}, zaplogger.New(baseLogger), tel)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		systemLogger.Info("http_server_start", observability.F("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error", observability.F("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error", observability.F("error", err))
	} else {
		systemLogger.Info("http_server_stopped")
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		systemLogger.Warn("event_bus_shutdown_error", observability.F("error", err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			systemLogger.Warn("redis_close_error", observability.F("error", err))
		}
	}
	if err := closeStores(shutdownCtx); err != nil {
		systemLogger.Warn("store_close_error", observability.F("error", err))
	}
}

type stores struct {
	items          document.Store[dominv.Item]
	grns           document.Store[receipt.GRN]
	dispatches     document.Store[dispatch.Dispatch]
	users          document.Store[domuser.User]
	purchaseOrders document.Store[purchasing.PurchaseOrder]
	supplierBills  document.Store[purchasing.SupplierBill]
	invoices       document.Store[sales.Invoice]
	batches        document.Store[production.Batch]
	suppliers      document.Store[party.Party]
	customers      document.Store[party.Party]
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, func(context.Context) error, error) {
	if cfg.StoreDriver != config.StoreMongo {
		return &stores{
			items:          memory.NewCollection[dominv.Item]("inventories", "itemCode"),
			grns:           memory.NewCollection[receipt.GRN]("grns", "grnNumber"),
			dispatches:     memory.NewCollection[dispatch.Dispatch]("salesdispatches"),
			users:          memory.NewCollection[domuser.User]("users", "email"),
			purchaseOrders: memory.NewCollection[purchasing.PurchaseOrder]("purchaseorders", "poNumber"),
			supplierBills:  memory.NewCollection[purchasing.SupplierBill]("supplierbills"),
			invoices:       memory.NewCollection[sales.Invoice]("customerinvoices"),
			batches:        memory.NewCollection[production.Batch]("productionbatches", "batchID"),
			suppliers:      memory.NewCollection[party.Party]("suppliers"),
			customers:      memory.NewCollection[party.Party]("customers"),
		}, func(context.Context) error { return nil }, nil
	}

	client, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.MongoDatabase)

	items := mongostore.NewCollection[dominv.Item](db, "inventories", "itemCode")
	grns := mongostore.NewCollection[receipt.GRN](db, "grns", "grnNumber")
	users := mongostore.NewCollection[domuser.User](db, "users", "email")
	purchaseOrders := mongostore.NewCollection[purchasing.PurchaseOrder](db, "purchaseorders", "poNumber")
	batches := mongostore.NewCollection[production.Batch](db, "productionbatches", "batchID")

	for _, ix := range []interface{ EnsureIndexes(context.Context) error }{items, grns, users, purchaseOrders, batches} {
		if err := ix.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
	}

	return &stores{
		items:          items,
		grns:           grns,
		dispatches:     mongostore.NewCollection[dispatch.Dispatch](db, "salesdispatches"),
		users:          users,
		purchaseOrders: purchaseOrders,
		supplierBills:  mongostore.NewCollection[purchasing.SupplierBill](db, "supplierbills"),
		invoices:       mongostore.NewCollection[sales.Invoice](db, "customerinvoices"),
		batches:        batches,
		suppliers:      mongostore.NewCollection[party.Party](db, "suppliers"),
		customers:      mongostore.NewCollection[party.Party](db, "customers"),
	}, disconnect(client), nil
}

func disconnect(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error { return client.Disconnect(ctx) }
}
