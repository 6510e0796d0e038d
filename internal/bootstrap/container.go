// Package bootstrap arma los casos de uso sobre el driver de almacenamiento configurado.
// Lo comparten el servidor HTTP y el CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/shayar/CommissionApp/internal/application/analytics"
	"github.com/shayar/CommissionApp/internal/application/audit"
	"github.com/shayar/CommissionApp/internal/application/auth"
	"github.com/shayar/CommissionApp/internal/application/reports"
	"github.com/shayar/CommissionApp/internal/application/sales"
	"github.com/shayar/CommissionApp/internal/application/taxonomy"
	"github.com/shayar/CommissionApp/internal/domain/repository"
	"github.com/shayar/CommissionApp/internal/infrastructure/memory"
	infrapdf "github.com/shayar/CommissionApp/internal/infrastructure/pdf"
	"github.com/shayar/CommissionApp/internal/infrastructure/postgres"
	"github.com/shayar/CommissionApp/pkg/config"
	"github.com/shayar/CommissionApp/pkg/logger"
	"github.com/shayar/CommissionApp/pkg/money"
)

// Container casos de uso listos para usar. Close libera el pool si lo hay.
type Container struct {
	Auth       *auth.AuthUseCase
	UserQuery  *auth.UserUseCase
	Resolver   *taxonomy.RateResolver
	Recorder   *sales.Recorder
	Aggregator *reports.Aggregator
	AuditList  *audit.ListUseCase
	Dashboard  *analytics.DashboardUseCase
	PDF        reports.PDFRenderer
	Formatter  *money.Formatter
	Users      repository.UserRepository

	close func()
}

// repos conjunto de repositorios fuera de transacción más el runner transaccional.
type repos struct {
	tx interface {
		taxonomy.TxRunner
		auth.TxRunner
	}
	categories    repository.CategoryRepository
	subCategories repository.SubCategoryRepository
	sales         repository.SaleRepository
	reports       repository.ReportRepository
	audits        repository.AuditRepository
	users         repository.UserRepository
}

// Build conecta el store (postgres o memory), aplica migraciones si corresponde y arma el contenedor.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	log = logger.OrNop(log)

	var (
		r       repos
		closeFn = func() {}
	)
	switch cfg.DB.Driver {
	case config.StoreMemory:
		s := memory.NewStore()
		r = repos{
			tx:            s,
			categories:    s.Categories(),
			subCategories: s.SubCategories(),
			sales:         s.Sales(),
			reports:       s.Reports(),
			audits:        s.Audits(),
			users:         s.Users(),
		}
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		r = repos{
			tx:            postgres.NewTxRunner(pool),
			categories:    postgres.NewCategoryRepository(pool),
			subCategories: postgres.NewSubCategoryRepository(pool),
			sales:         postgres.NewSaleRepository(pool),
			reports:       postgres.NewReportRepository(pool),
			audits:        postgres.NewAuditRepository(pool),
			users:         postgres.NewUserRepository(pool),
		}
		closeFn = pool.Close
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.DB.Driver)
	}

	formatter := money.NewFormatter(cfg.Report.CurrencyLocale, "$")
	resolver := taxonomy.NewRateResolver(r.tx, r.categories, r.subCategories, log)
	aggregator := reports.NewAggregator(r.sales, r.reports, r.users, log)

	return &Container{
		Auth: auth.NewAuthUseCase(r.users, r.tx, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, log),
		UserQuery:  auth.NewUserUseCase(r.users),
		Resolver:   resolver,
		Recorder:   sales.NewRecorder(r.users, resolver, r.sales, sales.Config{PaymentTypes: cfg.Sales.PaymentTypes}, log),
		Aggregator: aggregator,
		AuditList:  audit.NewListUseCase(r.audits),
		Dashboard:  analytics.NewDashboardUseCase(aggregator, cfg.Report.TopEmployees),
		PDF:        infrapdf.NewMarotoPDFGenerator(formatter),
		Formatter:  formatter,
		Users:      r.users,
		close:      closeFn,
	}, nil
}

// Close libera los recursos del store.
func (c *Container) Close() {
	if c != nil && c.close != nil {
		c.close()
	}
}
