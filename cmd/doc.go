// Package cmd implements the command-line interface for inboxmeet.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide meeting tools for AI assistants
//   - schedule: Process one meeting request against the calendar
//   - resolve: Resolve free-text date and time into a timestamp
//   - slots: List free slots on a day
//   - watch: Poll the inbox and schedule detected meeting requests
//   - auth: Authorize a Google account
//   - version: Display version information
package cmd
