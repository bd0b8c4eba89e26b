package logging

// globalRegistry tracks the Loggers registered explicitly through RegisterLogger or
// GetOrRegisterLogger, keyed by name such as "pipeline.rectify"; Sublogger does not register the
// loggers it creates. It lets log levels be adjusted at runtime, either directly by name or in
// bulk via a pattern in UpdateLoggerRegistryConfig.
var globalRegistry = newRegistry()

// RegisterLogger registers a new logger with a given name.
func RegisterLogger(name string, logger Logger) {
	globalRegistry.registerLogger(name, logger)
}

// LoggerNamed returns the logger with the specified name if one has been registered.
func LoggerNamed(name string) (logger Logger, ok bool) {
	return globalRegistry.loggerNamed(name)
}

// UpdateLoggerLevel assigns level to the named logger in the registry.
func UpdateLoggerLevel(name string, level Level) error {
	return globalRegistry.updateLoggerLevel(name, level)
}

// GetRegisteredLoggerNames returns the names of all loggers in the registry.
func GetRegisteredLoggerNames() []string {
	return globalRegistry.getRegisteredLoggerNames()
}

// UpdateLoggerRegistryConfig applies a batch of name-pattern level overrides (for example, from
// a config file reloaded at runtime) to every currently registered logger.
func UpdateLoggerRegistryConfig(logConfig []LoggerPatternConfig, errorLogger Logger) error {
	return globalRegistry.Update(logConfig, errorLogger)
}

// GetOrRegisterLogger returns the already-registered logger for name if one exists; otherwise it
// registers logger under name, applying any matching pattern from the last Update call,
// and returns it.
func GetOrRegisterLogger(name string, logger Logger) Logger {
	return globalRegistry.getOrRegister(name, logger)
}
