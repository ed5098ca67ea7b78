package config

import "go.uber.org/fx"

// Module регистрирует конфиг как fx-провайдер.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
		),
	)
}

// ModuleFrom: вариант для CLI, когда путь к конфигу пришёл флагом.
func ModuleFrom(path string) fx.Option {
	if path == "" {
		return Module()
	}
	return fx.Module("config",
		fx.Provide(
			func() (*Config, error) { return Load(path) },
		),
	)
}
