// Package main hosts the langworker CLI entrypoint and command graph.
//
// The Cobra-based command tree starts the HTTP worker (serve), inspects the
// language registry (languages, resolve), and scaffolds configuration
// (config init/validate). It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
