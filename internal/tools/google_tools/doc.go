// Package google_tools provides MCP tools for authorizing Google accounts.
//
// google_get_auth_url returns the consent URL for an account and
// google_save_auth_code exchanges the code the user copies back. The stored
// token is then picked up by the meeting and calendar tools on their next
// call for that account.
package google_tools
