package signal_tools

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxmeet/internal/meeting"
	"github.com/teemow/inboxmeet/internal/server"
)

type fakeNotifier struct {
	texts []string
	err   error
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func newServerContext(t *testing.T, notifier meeting.Notifier) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Notifier: notifier,
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

func TestRegisterSignalTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "1.0.0")

	if err := RegisterSignalTools(s, newServerContext(t, nil)); err != nil {
		t.Errorf("RegisterSignalTools() without notifier error = %v", err)
	}
	if err := RegisterSignalTools(s, newServerContext(t, &fakeNotifier{})); err != nil {
		t.Errorf("RegisterSignalTools() error = %v", err)
	}
}

func TestHandleNotify(t *testing.T) {
	notifier := &fakeNotifier{}
	sc := newServerContext(t, notifier)

	result, err := handleNotify(context.Background(), request(map[string]interface{}{"message": "hello"}), sc)
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v", err)
	}
	if len(notifier.texts) != 1 || notifier.texts[0] != "hello" {
		t.Errorf("unexpected notifications %v", notifier.texts)
	}

	result, _ = handleNotify(context.Background(), request(map[string]interface{}{"message": "  "}), sc)
	if !result.IsError {
		t.Error("expected error for empty message")
	}
}

func TestHandleNotify_Errors(t *testing.T) {
	result, _ := handleNotify(context.Background(), request(map[string]interface{}{"message": "hello"}), newServerContext(t, nil))
	if !result.IsError {
		t.Error("expected error without notifier")
	}

	failing := newServerContext(t, &fakeNotifier{err: errors.New("signal-cli failed")})
	result, _ = handleNotify(context.Background(), request(map[string]interface{}{"message": "hello"}), failing)
	if !result.IsError {
		t.Error("expected error when sending fails")
	}
}
