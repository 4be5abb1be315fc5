// Package telemetry provides structured logging and in-process event
// publishing for openwrangle commands. Logging is zerolog underneath with
// component-scoped child loggers; events carry a per-invocation run id so a
// whole command's output correlates.
package telemetry
