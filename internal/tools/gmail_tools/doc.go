// Package gmail_tools provides MCP tools that read the Gmail inbox.
//
// gmail_find_meeting_requests runs meeting request detection over the
// messages matching a search query and reports what it found without
// scheduling anything. Pass the findings to meeting_schedule to book them.
package gmail_tools
