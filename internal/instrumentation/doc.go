// Package instrumentation provides OpenTelemetry metrics and tracing for the
// inboxmeet server.
//
// # Metrics
//
//   - http_requests_total, http_request_duration_seconds: metrics endpoint traffic
//   - google_api_operations_total, google_api_operation_duration_seconds:
//     Calendar and Gmail calls by service, operation and status
//   - mcp_tool_invocations_total, mcp_tool_duration_seconds: MCP tool calls
//   - meeting_requests_total: processed meeting requests by outcome
//     (success, conflict, error)
//   - meeting_alternatives: alternatives offered per conflict
//   - inbox_messages_total: messages examined by the inbox watcher
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and Google API
// calls (google.<service>.<operation>); see TraceGoogleCall.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	scheduler := meeting.NewScheduler(resolver, negotiator, booker,
//		meeting.WithRecorder(provider.Metrics()))
package instrumentation
