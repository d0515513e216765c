package main

// Exit codes shared by every command
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no repository, invalid config value)
	ExitDataError   = 3 // Data error (malformed input, validation failure)
)
