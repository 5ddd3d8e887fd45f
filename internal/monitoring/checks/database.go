package checks

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/corpman/internal/models"
	"github.com/charlesng35/corpman/internal/monitoring"
)

// credentialTables must exist before the API can authenticate anyone.
var credentialTables = []string{
	models.Account{}.TableName(),
	models.VerificationToken{}.TableName(),
}

// Database pings the connection and confirms the credential tables are migrated.
func Database(db *gorm.DB) monitoring.Check {
	return monitoring.NewCheck("database", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if db == nil {
			return monitoring.ProbeResult{Status: monitoring.StatusDown, Details: "database not configured"}
		}

		sqlDB, err := db.DB()
		if err != nil {
			return monitoring.ResultFromError("database", err, time.Since(start))
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return monitoring.ResultFromError("database", err, time.Since(start))
		}

		migrator := db.WithContext(ctx).Migrator()
		var missing []string
		for _, table := range credentialTables {
			if !migrator.HasTable(table) {
				missing = append(missing, table)
			}
		}
		if len(missing) > 0 {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDown,
				Details:  "missing tables: " + strings.Join(missing, ", "),
				Duration: time.Since(start),
			}
		}

		return monitoring.ProbeResult{Status: monitoring.StatusUp, Duration: time.Since(start)}
	})
}
