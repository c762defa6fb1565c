// Package signal_tools provides the MCP tool for forwarding a message to the
// configured Signal chat.
//
// The tool is only registered when chat forwarding is configured (see the
// signal section of the config). It sends through the same notifier the
// scheduler uses to announce booked meetings.
//
// Example MCP tool call:
//
//	{
//	  "tool": "signal_notify",
//	  "arguments": {
//	    "message": "Running 10 minutes late for the project sync"
//	  }
//	}
package signal_tools
