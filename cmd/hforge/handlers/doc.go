// Package handlers implements the business logic of the hforge CLI commands.
//
// Each exported function backs one cobra command. Provider clients, state
// stores and key handling are reached through package-level factory
// variables so tests can replace them with fakes.
package handlers
