package signal_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxmeet/internal/server"
	"github.com/teemow/inboxmeet/internal/tools/common"
)

// RegisterSignalTools registers the Signal forwarding tool. Nothing is
// registered when the server context has no notifier.
func RegisterSignalTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if sc.Notifier() == nil {
		return nil
	}

	notifyTool := mcp.NewTool("signal_notify",
		mcp.WithDescription("Forward a short text message to the configured Signal recipient or group"),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("Text message to send"),
		),
	)

	s.AddTool(notifyTool, common.InstrumentedToolHandler("signal_notify", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleNotify(ctx, request, sc)
		}))

	return nil
}

// handleNotify handles the signal_notify tool
func handleNotify(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	message, ok := args["message"].(string)
	if !ok || strings.TrimSpace(message) == "" {
		return mcp.NewToolResultError("Missing or invalid 'message' parameter"), nil
	}

	notifier := sc.Notifier()
	if notifier == nil {
		return mcp.NewToolResultError("Signal forwarding is not configured"), nil
	}
	if err := notifier.Notify(ctx, message); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send message: %v", err)), nil
	}

	return mcp.NewToolResultText("Message forwarded to Signal"), nil
}
