package common

import "github.com/mark3labs/mcp-go/mcp"

// AccountFromRequest returns the "account" argument of the request, or
// fallback when it is absent, empty or not a string.
func AccountFromRequest(request mcp.CallToolRequest, fallback string) string {
	if account, ok := request.GetArguments()["account"].(string); ok && account != "" {
		return account
	}
	return fallback
}

// AccountOption is the shared "account" parameter of every tool.
func AccountOption() mcp.ToolOption {
	return mcp.WithString("account",
		mcp.Description("Account name (default: the configured account). Selects the Google token to use."),
	)
}
