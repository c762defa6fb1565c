package meeting_tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxmeet/internal/meeting"
	"github.com/teemow/inboxmeet/internal/server"
	"github.com/teemow/inboxmeet/internal/tools/common"
)

// RegisterMeetingTools registers all meeting tools with the MCP server
func RegisterMeetingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterResolveTools(s, sc); err != nil {
		return fmt.Errorf("failed to register resolve tools: %w", err)
	}
	if err := RegisterAvailabilityTools(s, sc); err != nil {
		return fmt.Errorf("failed to register availability tools: %w", err)
	}
	if err := RegisterScheduleTools(s, sc); err != nil {
		return fmt.Errorf("failed to register schedule tools: %w", err)
	}
	return nil
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	if v, ok := args[key].(float64); ok && v > 0 {
		return int(v)
	}
	return fallback
}

func account(request mcp.CallToolRequest, sc *server.ServerContext) string {
	return common.AccountFromRequest(request, sc.DefaultAccount())
}

func formatIntervals(b *strings.Builder, slots []meeting.Interval) {
	for i, slot := range slots {
		fmt.Fprintf(b, "%d. %s\n", i+1, slot)
	}
}
