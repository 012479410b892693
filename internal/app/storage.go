package app

import (
	"taskmatrix/internal/config"
	"taskmatrix/internal/storage"
)

var globalFileStore *storage.LocalStore

func MustInitStorage() {
	cfg := config.Global().Storage

	store, err := storage.NewLocalStore(globalLogger, cfg.Dir)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("dir", cfg.Dir).
			Msg("failed to init file storage")
		panic(err)
	}
	globalFileStore = store

	globalLogger.Info().
		Str("dir", cfg.Dir).
		Msg("initialized file storage")
}
