// Package log provides slog-based logging with automatic masking of
// credentials.
//
// seoscan handles a Google Cloud API key that must never reach log output,
// including inside request URLs where it travels as a query parameter.
// SecureHandler wraps any slog.Handler and redacts attribute values that
// look like API keys, tokens, or other credentials before they are written.
package log
