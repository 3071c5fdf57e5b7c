package main

// Exit codes used by all rt commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Not a repository / configuration error
	ExitDataError   = 3 // Malformed input or unknown reference
)
