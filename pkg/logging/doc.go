// Package logging provides the shared logging facade for the application.
//
// All subsystems log through the package-level Debug, Info, Warn and Error
// helpers, tagging each entry with a subsystem name. Output goes to the
// writer supplied at Init time; when the process runs as an MCP stdio
// server this must be stderr, because stdout carries the protocol stream.
package logging
