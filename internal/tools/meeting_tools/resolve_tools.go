package meeting_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxmeet/internal/meeting"
	"github.com/teemow/inboxmeet/internal/server"
	"github.com/teemow/inboxmeet/internal/tools/common"
)

// RegisterResolveTools registers the date resolution and request detection tools
func RegisterResolveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	resolveTool := mcp.NewTool("meeting_resolve_datetime",
		mcp.WithDescription("Resolve a free-text date and time (e.g. 'Friday', '3 PM IST') or a sentence containing one into an absolute timestamp"),
		mcp.WithString("date",
			mcp.Description("Date text, e.g. 'April 5, 2025', '05/04/2025' or a weekday name"),
		),
		mcp.WithString("time",
			mcp.Description("Time text, e.g. '3:30 PM', '15:00' or '3 PM (IST)'"),
		),
		mcp.WithString("text",
			mcp.Description("Free text to search for a date or time when date and time are not given"),
		),
	)
	s.AddTool(resolveTool, common.InstrumentedToolHandler("meeting_resolve_datetime", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleResolveDateTime(ctx, request, sc)
		}))

	detectTool := mcp.NewTool("meeting_detect_request",
		mcp.WithDescription("Check whether an email reads like a meeting request and extract its title, date, time, duration and attendees"),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("body",
			mcp.Description("Plain text email body"),
		),
	)
	s.AddTool(detectTool, common.InstrumentedToolHandler("meeting_detect_request", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDetectRequest(ctx, request, sc)
		}))

	return nil
}

func handleResolveDateTime(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	dateStr := stringArg(args, "date")
	timeStr := stringArg(args, "time")
	text := stringArg(args, "text")

	resolver := sc.Resolver()
	var (
		t   time.Time
		err error
	)
	switch {
	case dateStr != "" && timeStr != "":
		t, err = resolver.Resolve(dateStr, timeStr)
	case text != "":
		t, err = resolver.ExtractFromText(text)
	default:
		return mcp.NewToolResultError("either date and time, or text is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve date/time: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Resolved: %s\nRFC3339: %s\n",
		t.Format("Monday, January 2, 2006 at 3:04 PM MST"),
		t.Format(time.RFC3339))), nil
}

func handleDetectRequest(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	subject := stringArg(args, "subject")
	body := stringArg(args, "body")
	if subject == "" && body == "" {
		return mcp.NewToolResultError("subject is required"), nil
	}

	detection, ok := meeting.DetectRequest(subject, body, sc.Resolver().Now())
	if !ok {
		return mcp.NewToolResultText("No meeting request detected"), nil
	}

	out, err := json.MarshalIndent(detection, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode detection: %v", err)), nil
	}
	return mcp.NewToolResultText("Meeting request detected:\n" + string(out)), nil
}
