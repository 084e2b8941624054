// Package logger wraps zap for the world clock binaries.
//
// A global sugared logger is created at init with a console encoder. Loggers
// travel through context.Context (ToContext/FromContext), get scoped with
// WithName/WithKV, and are written through the leveled helpers (InfoKV,
// DebugKV, ErrorKV, ...). Services never hold a logger field: they pull it
// from the context they were given.
package logger
