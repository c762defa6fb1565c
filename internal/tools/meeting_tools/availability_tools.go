package meeting_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxmeet/internal/meeting"
	"github.com/teemow/inboxmeet/internal/server"
	"github.com/teemow/inboxmeet/internal/tools/common"
)

// RegisterAvailabilityTools registers the conflict check and slot search tools
func RegisterAvailabilityTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	checkTool := mcp.NewTool("meeting_check_availability",
		mcp.WithDescription("Check whether a requested meeting time is free and propose alternatives on the same day if it is not"),
		common.AccountOption(),
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("Start date text, e.g. 'Friday' or '2025-04-04'"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Start time text, e.g. '3 PM' or '15:00 IST'"),
		),
		mcp.WithString("end_date",
			mcp.Description("End date text (default: the start date)"),
		),
		mcp.WithString("end_time",
			mcp.Description("End time text (default: one hour after the start)"),
		),
	)
	s.AddTool(checkTool, common.InstrumentedToolHandler("meeting_check_availability", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckAvailability(ctx, request, sc)
		}))

	findTool := mcp.NewTool("meeting_find_available_times",
		mcp.WithDescription("List free slots of a given length inside working hours on one day"),
		common.AccountOption(),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Day to search, e.g. 'Monday' or 'April 7, 2025'"),
		),
		mcp.WithNumber("duration_minutes",
			mcp.Description("Meeting length in minutes (default: 60)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of slots to return (default: all)"),
		),
	)
	s.AddTool(findTool, common.InstrumentedToolHandler("meeting_find_available_times", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindAvailableTimes(ctx, request, sc)
		}))

	return nil
}

func handleCheckAvailability(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	req := meeting.Request{
		StartDate: stringArg(args, "start_date"),
		StartTime: stringArg(args, "start_time"),
		EndDate:   stringArg(args, "end_date"),
		EndTime:   stringArg(args, "end_time"),
	}
	if req.StartDate == "" || req.StartTime == "" {
		return mcp.NewToolResultError("start_date and start_time are required"), nil
	}

	interval, err := sc.Resolver().ResolveInterval(req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve start: %v", err)), nil
	}

	negotiator, err := sc.Negotiator(account(request, sc))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	decision, err := negotiator.Check(ctx, interval)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to check availability: %v", err)), nil
	}

	var b strings.Builder
	if decision.Available {
		fmt.Fprintf(&b, "Available: %s is free\n", interval)
		return mcp.NewToolResultText(b.String()), nil
	}

	fmt.Fprintf(&b, "Not available: %s conflicts with an existing event\n", interval)
	if len(decision.Alternatives) == 0 {
		b.WriteString("No free slot of that length remains in working hours on that day\n")
	} else {
		fmt.Fprintf(&b, "\nAlternatives (%d):\n", len(decision.Alternatives))
		formatIntervals(&b, decision.Alternatives)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func handleFindAvailableTimes(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	dateStr := stringArg(args, "date")
	if dateStr == "" {
		return mcp.NewToolResultError("date is required"), nil
	}

	resolver := sc.Resolver()
	day, err := resolver.ResolveDate(dateStr, resolver.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve date: %v", err)), nil
	}

	duration := time.Duration(intArg(args, "duration_minutes", int(meeting.DefaultDuration/time.Minute))) * time.Minute
	limit := intArg(args, "limit", 0)

	negotiator, err := sc.Negotiator(account(request, sc))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slots, err := negotiator.ProposeTimes(ctx, day, duration, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to find available times: %v", err)), nil
	}

	if len(slots) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No free %d minute slot on %s", int(duration/time.Minute), day.Format("Mon Jan 2"))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d available slot(s) of %d minutes on %s:\n\n", len(slots), int(duration/time.Minute), day.Format("Mon Jan 2"))
	formatIntervals(&b, slots)
	return mcp.NewToolResultText(b.String()), nil
}
