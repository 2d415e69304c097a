package context

import (
	globalConfig "rmrk-indexer/config"
	"rmrk-indexer/database"
	"rmrk-indexer/processor/config"

	"gorm.io/gorm"
)

type ProcessorContext interface {
	Config() *config.Config
	DB() *gorm.DB
}

type processorContext struct {
	config *config.Config
	db     *gorm.DB
}

func BuildContext(configFile string) (ProcessorContext, error) {
	ctx := processorContext{}

	cfg, err := config.BuildConfig(configFile)
	if err != nil {
		return nil, err
	}
	ctx.config = cfg
	globalConfig.GlobalConfigCallback.Call(cfg)

	ctx.db, err = database.ConnectAndInitialize(&cfg.DB)
	if err != nil {
		return nil, err
	}
	return &ctx, nil
}

func (c *processorContext) Config() *config.Config { return c.config }

func (c *processorContext) DB() *gorm.DB { return c.db }
