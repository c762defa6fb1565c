package common

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxmeet/internal/instrumentation"
	"github.com/teemow/inboxmeet/internal/server"
)

// InstrumentedToolHandler wraps a tool handler with a tool span, invocation
// metrics and audit logging. A result with IsError set counts as a failure.
//
//	s.AddTool(tool, common.InstrumentedToolHandler("meeting_schedule", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		account := AccountFromRequest(request, sc.DefaultAccount())
		invocation := instrumentation.NewToolInvocation(ctx, toolName, account)

		result, err := handler(ctx, request)

		failed := err != nil || (result != nil && result.IsError)
		invocation.Complete(!failed, err)
		if err != nil {
			instrumentation.SetSpanError(span, err)
		} else if !failed {
			instrumentation.SetSpanSuccess(span)
		}

		sc.Metrics().RecordToolInvocation(ctx, toolName, invocation.Status(), account, invocation.Duration)
		sc.AuditLogger().LogToolInvocation(invocation)

		return result, err
	}
}
