package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shayar/CommissionApp/internal/bootstrap"
	"github.com/shayar/CommissionApp/pkg/config"
	"github.com/shayar/CommissionApp/pkg/logger"
)

// app estado compartido por los subcomandos.
type app struct {
	c     *bootstrap.Container
	actor string
	owned bool // el contenedor lo creó el CLI y debe cerrarlo
}

// newRootCmd arma el árbol de comandos. Con un contenedor no nil (tests) no se lee configuración.
func newRootCmd(c *bootstrap.Container) *cobra.Command {
	a := &app{c: c}
	v := viper.New()

	root := &cobra.Command{
		Use:           "epcctl",
		Short:         "Administración del motor de comisiones",
		Long:          `Gestiona categorías y tasas, registra ventas y genera reportes sobre el store configurado (STORE_DRIVER, DATABASE_URL).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.c != nil {
				return nil
			}
			cfg, err := config.LoadWith(v)
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
			container, err := bootstrap.Build(cmd.Context(), cfg, log)
			if err != nil {
				return fmt.Errorf("inicializar store: %w", err)
			}
			a.c, a.owned = container, true
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.owned {
				a.c.Close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.actor, "actor", "cli", "identidad registrada en la bitácora")
	flags.String("store", "", "driver de almacenamiento (postgres, memory)")
	flags.String("database-url", "", "connection string de PostgreSQL")
	flags.Bool("migrate", false, "aplicar migraciones al conectar")
	flags.String("log-level", "", "nivel de log (debug, info, warn, error)")
	_ = v.BindPFlag("STORE_DRIVER", flags.Lookup("store"))
	_ = v.BindPFlag("DATABASE_URL", flags.Lookup("database-url"))
	_ = v.BindPFlag("DB_AUTO_MIGRATE", flags.Lookup("migrate"))
	_ = v.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))

	root.AddCommand(categoriesCmd(a))
	root.AddCommand(subCategoriesCmd(a))
	root.AddCommand(salesCmd(a))
	root.AddCommand(reportsCmd(a))
	root.AddCommand(usersCmd(a))
	return root
}
