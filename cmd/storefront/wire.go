package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	carthttp "github.com/dwikikusuma/storefront/internal/cart/httpapi"
	cartadapter "github.com/dwikikusuma/storefront/internal/cart/infra/adapter"
	cartmem "github.com/dwikikusuma/storefront/internal/cart/infra/memory"
	cartpg "github.com/dwikikusuma/storefront/internal/cart/infra/postgres"
	cartredis "github.com/dwikikusuma/storefront/internal/cart/infra/redis"

	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/storefront/internal/catalog/domain"
	cataloghttp "github.com/dwikikusuma/storefront/internal/catalog/httpapi"
	catalogmem "github.com/dwikikusuma/storefront/internal/catalog/infra/memory"
	catalogpg "github.com/dwikikusuma/storefront/internal/catalog/infra/postgres"

	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	checkouthttp "github.com/dwikikusuma/storefront/internal/checkout/httpapi"
	checkoutadapter "github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"
	checkoutmem "github.com/dwikikusuma/storefront/internal/checkout/infra/memory"
	checkoutpg "github.com/dwikikusuma/storefront/internal/checkout/infra/postgres"

	orderapp "github.com/dwikikusuma/storefront/internal/order/app"
	orderhttp "github.com/dwikikusuma/storefront/internal/order/httpapi"
	ordermem "github.com/dwikikusuma/storefront/internal/order/infra/memory"
	orderpg "github.com/dwikikusuma/storefront/internal/order/infra/postgres"

	"github.com/dwikikusuma/storefront/internal/notify"
	stockapp "github.com/dwikikusuma/storefront/internal/stock/app"
	stockhttp "github.com/dwikikusuma/storefront/internal/stock/httpapi"
	stockpg "github.com/dwikikusuma/storefront/internal/stock/infra/postgres"

	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/postgres"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// stores is the persistence chosen by STORAGE_BACKEND.
type stores struct {
	products catalogapp.ProductRepo
	stock    stockapp.StockRepo
	orders   orderapp.OrderRepo
	delivery checkoutapp.DeliveryRepo
	// carts is nil when sessions live in process memory.
	carts    cartapp.SessionStore
	ready    []readyCheck
	closers  []io.Closer
}

func memoryStores() *stores {
	products := catalogmem.NewProductStore()
	return &stores{
		products: products,
		stock:    products,
		orders:   ordermem.NewOrderStore(products),
		delivery: checkoutmem.NewDeliveryStore(),
	}
}

func postgresStores(ctx context.Context, cfg config.Config) (*stores, error) {
	db, err := postgres.Open(postgres.Config{
		Host:    cfg.PostgresHost,
		Port:    cfg.PostgresPort,
		User:    cfg.PostgresUser,
		Pass:    cfg.PostgresPassword,
		DB:      cfg.PostgresDB,
		SSLMode: cfg.PostgresSSLMode,
	})
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &stores{
		products: catalogpg.NewProductRepo(db),
		stock:    stockpg.NewStockRepo(db),
		orders:   orderpg.NewOrderRepo(db),
		delivery: checkoutpg.NewDeliveryRepo(db),
		carts:    cartpg.NewSessionStore(db, cfg.CartTTL),
		ready:    []readyCheck{pingDB(db)},
		closers:  []io.Closer{db},
	}, nil
}

func pingDB(db *sql.DB) readyCheck {
	return db.PingContext
}

// sessionStore prefers Redis, then the database, then process memory.
func sessionStore(cfg config.Config, s *stores) cartapp.SessionStore {
	if cfg.RedisAddr == "" {
		if s.carts != nil {
			return s.carts
		}
		return cartmem.NewSessionStore()
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	s.ready = append(s.ready, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	s.closers = append(s.closers, rdb)
	return cartredis.NewSessionStore(rdb, cfg.CartSessionKey, cfg.CartTTL)
}

// notifiers returns the configured channels and anything that must be
// closed after the dispatcher drains.
func notifiers(cfg config.Config) (notify.Notifier, []io.Closer) {
	var (
		fanout  notify.Fanout
		closers []io.Closer
	)
	if cfg.TelegramEnabled() {
		fanout = append(fanout, notify.NewTelegram(cfg.TelegramAPIURL, cfg.TelegramBotToken, cfg.TelegramChatID))
	}
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		k := notify.NewKafka(notify.NewKafkaWriter(brokers, cfg.KafkaOrderTopic))
		fanout = append(fanout, k)
		closers = append(closers, k)
	}
	if len(fanout) == 0 {
		return nil, nil
	}
	return fanout, closers
}

type application struct {
	handlers   handlers
	dispatcher *notify.Dispatcher
}

func newApplication(cfg config.Config, s *stores, sessions cartapp.SessionStore, notifier notify.Notifier, log *slog.Logger) *application {
	catalogSvc := catalogapp.NewService(s.products)
	ledger := stockapp.NewLedger(s.stock, log)

	cartSvc := cartapp.NewService(sessions, cartadapter.NewCatalogProductReader(catalogSvc), log)
	orderSvc := orderapp.NewService(s.orders, log)

	app := &application{}
	var placed checkoutapp.OrderNotifier
	if notifier != nil {
		app.dispatcher = notify.NewDispatcher(notifier, cfg.NotifyTimeout, log)
		placed = app.dispatcher
	}

	checkoutSvc := checkoutapp.NewService(
		checkoutadapter.NewCartServiceReader(cartSvc),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		s.delivery,
		orderSvc,
		placed,
		cfg.CheckoutMaxConcurrent,
		log,
	)

	app.handlers = handlers{
		catalog:  cataloghttp.NewHandler(catalogSvc),
		stock:    stockhttp.NewHandler(ledger),
		cart:     carthttp.NewHandler(cartSvc),
		checkout: checkouthttp.NewHandler(checkoutSvc),
		orders:   orderhttp.NewHandler(orderSvc),
	}
	return app
}

// seedDemo fills an empty memory catalog so the API is usable without a database.
func seedDemo(ctx context.Context, catalog *catalogapp.Service) error {
	demo := []catalogdomain.NewProduct{
		{Name: "Ceramic Mug", Description: "350ml stoneware mug", UnitPrice: decimal.RequireFromString("12.50"), AvailableQuantity: 25, OnSale: true},
		{Name: "Loose Leaf Tea", Description: "100g jasmine green tea", UnitPrice: decimal.RequireFromString("8.00"), AvailableQuantity: 40, OnSale: true},
		{Name: "Teapot", Description: "Cast iron, 800ml", UnitPrice: decimal.RequireFromString("45.00"), AvailableQuantity: 5, OnSale: true},
		{Name: "Tea Strainer", Description: "Stainless steel", UnitPrice: decimal.RequireFromString("4.75"), AvailableQuantity: 0, OnSale: false},
	}
	for _, p := range demo {
		if _, err := catalog.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seed %s: %w", p.Name, err)
		}
	}
	return nil
}
