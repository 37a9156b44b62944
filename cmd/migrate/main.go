package main

import (
	"flag"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/joripage/spotdex/config"
	"github.com/joripage/spotdex/pkg/infra"
	"github.com/joripage/spotdex/pkg/logging"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	logger := logging.NewLogger(logging.INFO)
	defer logger.Sync() // nolint
	zap.ReplaceGlobals(logger.Zap())

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	mgTool := infra.GetMigrateTool()
	mgTool.Migrate("file://migration/sql", cfg.DexDB.MigrationConnURL)
}
