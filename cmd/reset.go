package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/leave-management/internal/balance"
	balancePostgres "github.com/frahmantamala/leave-management/internal/balance/postgres"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// resetCmd runs the yearly balance sweep once and exits. Safe to re-run: the
// sweep only touches users whose stored leave year is behind the calendar.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Run the yearly leave balance reset once",
	Long:  `Apply the new-year entitlement plus capped carry-over to every user whose balance is still pinned to a past year.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.Logging.Format, cfg.Logging.Level)
		lg := logger.LoggerWrapper()

		db, err := gorm.Open(gormPostgres.Open(cfg.Database.Source), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		repo := balancePostgres.NewBalanceRepository(db)
		service := balance.NewService(repo, balance.SystemClock(), lg)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		updated, err := service.RunYearlyReset(ctx)
		if err != nil {
			log.Fatalf("yearly reset failed: %v", err)
		}

		fmt.Printf("Yearly reset complete: %d user(s) updated\n", updated)
	},
}
