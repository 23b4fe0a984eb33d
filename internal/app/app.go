package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"time"

	"pulperia-go/internal/service"
	"pulperia-go/internal/store"
)

type Config struct {
	Addr    string
	DataDir string

	JWTSecret []byte
	TokenTTL  time.Duration

	BootstrapAdminUsername string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	SeedDemo bool
}

// App wires the services together. Everything is constructed once here and
// passed by reference into the handlers; there is no package-level state.
type App struct {
	cfg Config
	log *slog.Logger
	st  *store.Store

	inventory *service.InventoryService
	menu      *service.MenuService
	orders    *service.OrdersService
	cashier   *service.CashierService
	reports   *service.ReportsService
	auth      *service.AuthService

	sseHub *SSEHub
}

func New(cfg Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * time.Minute
	}

	// Ensure we have a signing key (stable recommended via env, but generate if missing)
	if len(cfg.JWTSecret) < 32 {
		cfg.JWTSecret = make([]byte, 32)
		_, _ = rand.Read(cfg.JWTSecret)
		logger.Warn("JWT_SECRET_HEX not set (or too short) — generating ephemeral signing key; tokens will be invalidated on restart")
	}

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	inventory, err := service.NewInventory(st, logger)
	if err != nil {
		return nil, err
	}
	menu, err := service.NewMenu(st, logger)
	if err != nil {
		return nil, err
	}
	orders, err := service.NewOrders(st, inventory, menu, logger)
	if err != nil {
		return nil, err
	}
	cashier, err := service.NewCashier(st, orders, logger)
	if err != nil {
		return nil, err
	}
	auth, err := service.NewAuth(st, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		log:       logger,
		st:        st,
		inventory: inventory,
		menu:      menu,
		orders:    orders,
		cashier:   cashier,
		reports:   service.NewReports(cashier, inventory, orders),
		auth:      auth,
		sseHub:    NewSSEHub(logger),
	}

	// Bootstrap admin if none exists (only once).
	if !auth.HasAdmin() &&
		cfg.BootstrapAdminUsername != "" && cfg.BootstrapAdminEmail != "" && cfg.BootstrapAdminPassword != "" {
		u, err := auth.Register(cfg.BootstrapAdminUsername, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword, store.RolAdministrador)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		logger.Info("bootstrapped admin user", "username", u.Username)
	}

	// Seed catalog ONLY if both collections are empty (never touches users).
	if cfg.SeedDemo && menu.Count() == 0 && inventory.Count() == 0 {
		if err := service.SeedCatalog(inventory, menu, logger); err != nil {
			logger.Warn("catalog seed failed", "err", err)
		}
	}

	return a, nil
}

func (a *App) Config() Config                       { return a.cfg }
func (a *App) Log() *slog.Logger                    { return a.log }
func (a *App) Store() *store.Store                  { return a.st }
func (a *App) Inventory() *service.InventoryService { return a.inventory }
func (a *App) Menu() *service.MenuService           { return a.menu }
func (a *App) Orders() *service.OrdersService       { return a.orders }
func (a *App) Cashier() *service.CashierService     { return a.cashier }
func (a *App) Reports() *service.ReportsService     { return a.reports }
func (a *App) Auth() *service.AuthService           { return a.auth }
func (a *App) SSE() *SSEHub                         { return a.sseHub }
