package config

var (
	GlobalConfigCallback ConfigCallback[GlobalConfig] = ConfigCallback[GlobalConfig]{}
)

// Callbacks run once the application config is built, e.g., to initialize the logger
type ConfigCallback[T any] struct {
	callbacks []func(T)
}

func (cc *ConfigCallback[T]) AddCallback(callback func(T)) {
	cc.callbacks = append(cc.callbacks, callback)
}

func (cc ConfigCallback[T]) Call(config T) {
	for _, cb := range cc.callbacks {
		cb(config)
	}
}
