package gmail_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxmeet/internal/inbox"
	"github.com/teemow/inboxmeet/internal/meeting"
	"github.com/teemow/inboxmeet/internal/server"
	"github.com/teemow/inboxmeet/internal/tools/common"
)

// maxResultsLimit caps the messages read per call.
const maxResultsLimit = 100

// RegisterGmailTools registers all Gmail-related tools with the MCP server
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	findTool := mcp.NewTool("gmail_find_meeting_requests",
		mcp.WithDescription("Scan inbox messages for meeting requests and list the title, date, time, duration and attendees found in each"),
		common.AccountOption(),
		mcp.WithString("query",
			mcp.Description(fmt.Sprintf("Gmail search query (default: %q)", inbox.DefaultQuery)),
		),
		mcp.WithNumber("maxResults",
			mcp.Description(fmt.Sprintf("Maximum number of messages to scan (default: %d, max: %d)", inbox.DefaultMaxResults, maxResultsLimit)),
		),
	)

	s.AddTool(findTool, common.InstrumentedToolHandler("gmail_find_meeting_requests", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindMeetingRequests(ctx, request, sc)
		}))

	return nil
}

func handleFindMeetingRequests(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	query := inbox.DefaultQuery
	if q, ok := args["query"].(string); ok && strings.TrimSpace(q) != "" {
		query = q
	}
	maxResults := int64(inbox.DefaultMaxResults)
	if v, ok := args["maxResults"].(float64); ok && v > 0 {
		maxResults = min(int64(v), maxResultsLimit)
	}

	svc, err := sc.Services(common.AccountFromRequest(request, sc.DefaultAccount()))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if svc.Mail == nil {
		return mcp.NewToolResultError("no mailbox configured for this account"), nil
	}

	ids, err := svc.Mail.ListMessages(ctx, query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list messages: %v", err)), nil
	}

	now := sc.Resolver().Now()
	var b strings.Builder
	found := 0
	for _, id := range ids {
		msg, err := svc.Mail.GetMessage(ctx, id)
		if err != nil {
			fmt.Fprintf(&b, "- %s: failed to read message: %v\n", id, err)
			continue
		}
		detection, ok := meeting.DetectRequest(msg.Subject, msg.Body, now)
		if !ok {
			continue
		}
		found++
		writeDetection(&b, found, msg.ID, msg.SenderAddress(), detection)
	}

	if found == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No meeting requests found in %d message(s) matching %q", len(ids), query)), nil
	}
	header := fmt.Sprintf("Found %d meeting request(s) in %d message(s):\n\n", found, len(ids))
	return mcp.NewToolResultText(header + b.String()), nil
}

func writeDetection(b *strings.Builder, n int, id, sender string, d *meeting.Detection) {
	fmt.Fprintf(b, "%d. %s\n", n, d.Title)
	fmt.Fprintf(b, "   Message ID: %s\n", id)
	if sender != "" {
		fmt.Fprintf(b, "   From: %s\n", sender)
	}
	if d.Date != "" {
		fmt.Fprintf(b, "   Date: %s\n", d.Date)
	}
	if d.Time != "" {
		fmt.Fprintf(b, "   Time: %s\n", d.Time)
	}
	fmt.Fprintf(b, "   Duration: %s\n", d.Duration)
	if len(d.Attendees) > 0 {
		fmt.Fprintf(b, "   Attendees: %s\n", strings.Join(d.Attendees, ", "))
	}
	b.WriteString("\n")
}
