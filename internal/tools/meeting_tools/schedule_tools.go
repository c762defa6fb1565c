package meeting_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxmeet/internal/meeting"
	"github.com/teemow/inboxmeet/internal/server"
	"github.com/teemow/inboxmeet/internal/tools/common"
)

// RegisterScheduleTools registers the booking tool
func RegisterScheduleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	scheduleTool := mcp.NewTool("meeting_schedule",
		mcp.WithDescription("Schedule a meeting: resolve the requested time, book it when free, otherwise propose alternatives and draft a reply to the organizer"),
		common.AccountOption(),
		mcp.WithString("title",
			mcp.Description("Meeting title (default: 'Meeting')"),
		),
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("Start date text, e.g. 'Friday' or 'April 4, 2025'"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Start time text, e.g. '3 PM (IST)'"),
		),
		mcp.WithString("end_date",
			mcp.Description("End date text (default: the start date)"),
		),
		mcp.WithString("end_time",
			mcp.Description("End time text (default: one hour after the start)"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated attendee email addresses; invalid entries are dropped"),
		),
		mcp.WithString("organizer_email",
			mcp.Description("Organizer address, invited when no valid attendee remains and used for the reply draft"),
		),
		mcp.WithString("location",
			mcp.Description("Meeting location"),
		),
		mcp.WithString("description",
			mcp.Description("Meeting description"),
		),
	)
	s.AddTool(scheduleTool, common.InstrumentedToolHandler("meeting_schedule", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSchedule(ctx, request, sc)
		}))

	return nil
}

func handleSchedule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	req := meeting.Request{
		Title:          stringArg(args, "title"),
		Location:       stringArg(args, "location"),
		Description:    stringArg(args, "description"),
		StartDate:      stringArg(args, "start_date"),
		StartTime:      stringArg(args, "start_time"),
		EndDate:        stringArg(args, "end_date"),
		EndTime:        stringArg(args, "end_time"),
		Attendees:      meeting.SplitAttendees(stringArg(args, "attendees")),
		OrganizerEmail: stringArg(args, "organizer_email"),
	}
	if req.StartDate == "" || req.StartTime == "" {
		return mcp.NewToolResultError("start_date and start_time are required"), nil
	}

	scheduler, err := sc.Scheduler(account(request, sc))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := scheduler.Process(ctx, req)
	if res.Status == meeting.StatusError {
		return mcp.NewToolResultError(res.Message), nil
	}
	return mcp.NewToolResultText(formatResult(res)), nil
}

func formatResult(res meeting.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n%s\n", res.Status, res.Message)

	switch res.Status {
	case meeting.StatusSuccess:
		fmt.Fprintf(&b, "\nTitle: %s\nWhen: %s\nEvent ID: %s\n", res.Title, res.Interval, res.EventID)
		if len(res.Attendees) > 0 {
			fmt.Fprintf(&b, "Attendees: %s\n", strings.Join(res.Attendees, ", "))
		}
	case meeting.StatusConflict:
		if len(res.Alternatives) > 0 {
			b.WriteString("\nAlternatives:\n")
			formatIntervals(&b, res.Alternatives)
		}
		if res.DraftID != "" {
			fmt.Fprintf(&b, "\nReply draft saved (ID: %s)\n", res.DraftID)
		}
	}
	return b.String()
}
