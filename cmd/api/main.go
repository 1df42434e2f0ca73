package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/boutique-ledger/internal/application/documents"
	"github.com/jhoicas/boutique-ledger/internal/application/exports"
	"github.com/jhoicas/boutique-ledger/internal/application/history"
	"github.com/jhoicas/boutique-ledger/internal/application/ledger"
	"github.com/jhoicas/boutique-ledger/internal/application/usecase"
	"github.com/jhoicas/boutique-ledger/internal/application/views"
	"github.com/jhoicas/boutique-ledger/internal/domain/repository"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/boutique-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/ws"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/boutique-ledger/internal/interfaces/http"
	"github.com/jhoicas/boutique-ledger/pkg/config"
	"github.com/jhoicas/boutique-ledger/pkg/logger"
)

// stores adaptadores del almacén elegidos por STORE_DRIVER.
type stores struct {
	products    repository.ProductRepository
	movements   repository.StockMovementRepository
	sales       repository.SaleRepository
	saleLines   repository.SaleLineRepository
	clients     repository.ClientRepository
	suppliers   repository.SupplierRepository
	settlements repository.SettlementRepository
	close       func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		st := memory.New()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		return &stores{
			products:    st.Products(),
			movements:   st.Movements(),
			sales:       st.Sales(),
			saleLines:   st.SaleLines(),
			clients:     st.Clients(),
			suppliers:   st.Suppliers(),
			settlements: st.Settlements(),
			close:       func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		return nil, err
	}
	return &stores{
		products:    postgres.NewProductRepository(pool),
		movements:   postgres.NewStockMovementRepository(pool),
		sales:       postgres.NewSaleRepository(pool),
		saleLines:   postgres.NewSaleLineRepository(pool),
		clients:     postgres.NewClientRepository(pool),
		suppliers:   postgres.NewSupplierRepository(pool),
		settlements: postgres.NewSettlementRepository(pool),
		close:       pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	policy, err := ledger.ParseStockPolicy(cfg.Ledger.StockPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("LEDGER_STOCK_POLICY")
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacén")
	}
	defer st.close()

	hub := ws.NewHub(log.Component("ws"))
	go hub.Run(ctx)

	ledgerSvc := ledger.NewService(ledger.Repositories{
		Products:    st.products,
		Movements:   st.movements,
		Sales:       st.sales,
		SaleLines:   st.saleLines,
		Clients:     st.clients,
		Settlements: st.settlements,
	},
		ledger.WithStockPolicy(policy),
		ledger.WithLogger(log.Component("ledger")),
		ledger.WithNotifier(hub),
	)

	viewSvc := views.NewService(views.Repositories{
		Products:  st.products,
		Movements: st.movements,
		Sales:     st.sales,
		Clients:   st.clients,
		Suppliers: st.suppliers,
	}, cache.New(cfg.Ledger.CacheSchemaVersion),
		views.WithAlertThreshold(cfg.Ledger.AlertThreshold),
		views.WithLogger(log.Component("views")),
	)

	historySvc := history.NewService(history.Repositories{
		Settlements: st.settlements,
		Sales:       st.sales,
		Movements:   st.movements,
		Clients:     st.clients,
		Suppliers:   st.suppliers,
		Products:    st.products,
	}, log.Component("history"))

	// PDF: factura de venta y albarán de recepción
	docSvc := documents.NewService(documents.Repositories{
		Sales:     st.sales,
		SaleLines: st.saleLines,
		Clients:   st.clients,
		Products:  st.products,
		Movements: st.movements,
		Suppliers: st.suppliers,
	}, documents.Shop{
		Name:    cfg.Shop.Name,
		Address: cfg.Shop.Address,
		Phone:   cfg.Shop.Phone,
	}, infrapdf.NewMarotoPDFGenerator())
	exportSvc := exports.NewService(viewSvc, xlsx.NewExcelizeWriter(), cfg.Shop.Name)

	app := httpRouter.NewApp(cfg.App.Name)
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:      ledgerSvc,
		Views:       viewSvc,
		History:     historySvc,
		Documents:   docSvc,
		Exports:     exportSvc,
		ProductUC:   usecase.NewProductUseCase(st.products, cfg.Ledger.AlertThreshold),
		ClientUC:    usecase.NewClientUseCase(st.clients),
		SupplierUC:  usecase.NewSupplierUseCase(st.suppliers),
		Hub:         hub,
		JWTSecret:   cfg.JWT.Secret,
		JWTAudience: cfg.JWT.Audience,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	stop()

	log.Info().Msg("aplicación detenida")
}
