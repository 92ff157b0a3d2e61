// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Each SDK package declares its own config struct with `env` tags; this
// package only provides the loading mechanics:
//
//	cfg := config.MustLoad[gateway.Config]()
//	gw, err := gateway.New(cfg)
//
// The .env file is read at most once per process, before the first parse.
// Real environment variables always win over .env entries.
package config
