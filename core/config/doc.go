// Package config loads the application configuration from environment
// variables and an optional .env file. Defaults come from the `default`
// struct tags on the partial config types; every partial lives next to the
// component it configures.
package config
