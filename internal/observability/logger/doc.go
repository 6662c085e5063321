// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: Una sola instancia global inicializada con Init().
//   - Context Scoping: Cada request lleva su logger "scoped" con campos
//     adicionales (request_id, origin, etc.) sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//   - Levels: debug, info, warn, error (configurable via LOG_LEVEL).
//
// # Usage
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{
//	    Env:   cfg.App.Env,            // "dev" o "prod"
//	    Level: os.Getenv("LOG_LEVEL"), // "debug", "info", "warn", "error"
//	})
//	defer logger.Sync()
//
// En handlers (con contexto):
//
//	log := logger.From(ctx)
//	log.Info("exchange ok", logger.Op("obotoken"))
//
// Regla de la casa: nunca loguear tokens ni el client_secret; los campos
// estándar de abajo no incluyen ninguno a propósito.
package logger
