package main

// Exit codes for the pubsync CLI.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (runtime failure)
	ExitConfigError = 2 // Configuration error (missing mailto, bad roster)
	ExitAPIError    = 3 // OpenAlex API error (network, non-2xx, timeout)
)
