// Package meeting_tools exposes the meeting scheduler over MCP.
//
// The tools resolve free-text dates, check the account's calendar for
// conflicts, propose free slots inside working hours and book meetings. Every
// tool takes an optional "account" argument selecting the Google account.
package meeting_tools
