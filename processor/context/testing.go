package context

import (
	globalConfig "rmrk-indexer/config"
	"rmrk-indexer/database"
	"rmrk-indexer/processor/config"
	"rmrk-indexer/processor/migrations"
)

func BuildTestContext(cfg *config.Config) (ProcessorContext, error) {
	ctx := processorContext{}
	var err error

	ctx.config = cfg
	globalConfig.GlobalConfigCallback.Call(cfg)

	ctx.db, err = database.ConnectAndInitializeTestDB(&cfg.DB)
	if err != nil {
		return nil, err
	}

	err = migrations.Container.ExecuteAll(ctx.db)
	if err != nil {
		return nil, err
	}

	return &ctx, nil
}
