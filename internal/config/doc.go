// Package config holds seoscan's runtime configuration.
//
// Config is populated from CLI flags and passed by dependency injection;
// there is no global state. The optional .seoscan YAML file adds
// per-domain overrides for crawl limits and the salience threshold.
// Database and config file locations follow the XDG Base Directory
// Specification.
package config
