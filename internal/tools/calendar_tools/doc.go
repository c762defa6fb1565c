// Package calendar_tools provides MCP tools for raw Google Calendar queries.
//
// The only tool is calendar_query_freebusy, which lists the busy periods of
// the account's meeting calendar. Scheduling decisions live in meeting_tools.
package calendar_tools
