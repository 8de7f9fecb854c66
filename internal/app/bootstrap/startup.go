// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/tradepost/tradepost/internal/app/store/oauthstate"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// Sweep any OAuth state tokens the TTL monitor has not collected yet.
	n, err := oauthstate.New(deps.MongoDatabase).CleanupExpired(ctx)
	if err != nil {
		logger.Warn("oauth state cleanup failed", zap.Error(err))
		return nil
	}
	if n > 0 {
		logger.Info("removed expired oauth states", zap.Int64("count", n))
	}
	return nil
}
