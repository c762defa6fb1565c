package google_tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/oauth2"

	"github.com/teemow/inboxmeet/internal/google"
	"github.com/teemow/inboxmeet/internal/server"
)

func newServerContext(t *testing.T, conf *oauth2.Config) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		OAuth: conf,
		Services: func(context.Context, string) (*server.AccountServices, error) {
			return nil, errors.New("not used")
		},
	})
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func request(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content type %T", result.Content[0])
	return ""
}

func TestRegisterGoogleTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "1.0.0")
	if err := RegisterGoogleTools(s, newServerContext(t, nil)); err != nil {
		t.Errorf("RegisterGoogleTools() error = %v", err)
	}
}

func TestHandleGetAuthURL(t *testing.T) {
	sc := newServerContext(t, google.OAuthConfig(google.Credentials{ClientID: "id", ClientSecret: "secret"}))

	result, err := handleGetAuthURL(context.Background(), request(map[string]interface{}{"account": "work"}), sc)
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, `account "work"`) || !strings.Contains(text, "access_type=offline") {
		t.Errorf("unexpected result %q", text)
	}
}

func TestHandlers_NotConfigured(t *testing.T) {
	sc := newServerContext(t, nil)

	result, _ := handleGetAuthURL(context.Background(), request(nil), sc)
	if !result.IsError {
		t.Error("expected error without OAuth config")
	}
	result, _ = handleSaveAuthCode(context.Background(), request(map[string]interface{}{"authCode": "x"}), sc)
	if !result.IsError {
		t.Error("expected error without OAuth config")
	}
}

func TestHandleSaveAuthCode_MissingCode(t *testing.T) {
	sc := newServerContext(t, google.OAuthConfig(google.Credentials{ClientID: "id", ClientSecret: "secret"}))

	result, _ := handleSaveAuthCode(context.Background(), request(map[string]interface{}{}), sc)
	if !result.IsError {
		t.Error("expected error without authCode")
	}
}
