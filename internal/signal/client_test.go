package signal

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRunner records invocations and replays canned output per subcommand.
type fakeRunner struct {
	calls  [][]string
	stdout map[string]string
	err    map[string]error
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	sub := ""
	if len(args) > 2 {
		sub = args[2]
	}
	if err := f.err[sub]; err != nil {
		return "", "boom", err
	}
	return f.stdout[sub], "", nil
}

func newTestClient(f *fakeRunner) *Client {
	return &Client{userID: "+15551234567", binary: "signal-cli", run: f.run}
}

const groupsOutput = `Id: YWJjZA== Name: Team Sync  Active: true Blocked: false
Id: ZWZnaA== Name: Family  Active: true Blocked: false
`

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		errString string
	}{
		{"empty user ID", "", "userID cannot be empty"},
		{"missing plus sign", "15551234567", "must be a phone number starting with +"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.userID)
			if err == nil || !strings.Contains(err.Error(), tt.errString) {
				t.Errorf("NewClient() error = %v, want error containing %q", err, tt.errString)
			}
		})
	}
}

func TestSendMessage(t *testing.T) {
	f := &fakeRunner{}
	client := newTestClient(f)

	if err := client.SendMessage(context.Background(), "+15559876543", "Booked"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	got := strings.Join(f.calls[0], " ")
	want := "signal-cli -u +15551234567 send +15559876543 -m Booked"
	if got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
}

func TestSendMessage_Errors(t *testing.T) {
	tests := []struct {
		name      string
		recipient string
		message   string
		runErr    error
		errString string
	}{
		{"empty recipient", "", "hi", nil, "recipient cannot be empty"},
		{"invalid recipient", "15559876543", "hi", nil, "starting with +"},
		{"empty message", "+15559876543", "", nil, "message cannot be empty"},
		{"command failure", "+15559876543", "hi", errors.New("exit status 1"), "failed to send message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeRunner{err: map[string]error{"send": tt.runErr}}
			err := newTestClient(f).SendMessage(context.Background(), tt.recipient, tt.message)

			var serr *SignalError
			if !errors.As(err, &serr) {
				t.Fatalf("expected SignalError, got %v", err)
			}
			if serr.Op != "send" || !strings.Contains(err.Error(), tt.errString) {
				t.Errorf("error = %v, want op send containing %q", err, tt.errString)
			}
		})
	}
}

func TestSendGroupMessage(t *testing.T) {
	f := &fakeRunner{stdout: map[string]string{"listGroups": groupsOutput}}
	client := newTestClient(f)

	if err := client.SendGroupMessage(context.Background(), "Family", "Booked"); err != nil {
		t.Fatalf("SendGroupMessage() error = %v", err)
	}
	got := strings.Join(f.calls[len(f.calls)-1], " ")
	if got != "signal-cli -u +15551234567 send -g ZWZnaA== -m Booked" {
		t.Errorf("unexpected command %q", got)
	}

	err := client.SendGroupMessage(context.Background(), "Unknown", "Booked")
	if err == nil || !strings.Contains(err.Error(), `group "Unknown" not found`) {
		t.Errorf("expected group not found error, got %v", err)
	}
}

func TestParseGroups(t *testing.T) {
	groups := parseGroups(groupsOutput)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].ID != "YWJjZA==" || groups[0].Name != "Team Sync" {
		t.Errorf("unexpected first group %+v", groups[0])
	}

	legacy := parseGroups("Id: YWJjZA==\nName: Team Sync\nActive: true\n")
	if len(legacy) != 1 || legacy[0].Name != "Team Sync" {
		t.Errorf("unexpected legacy parse %+v", legacy)
	}

	if groups := parseGroups(""); len(groups) != 0 {
		t.Errorf("expected no groups, got %+v", groups)
	}
}

func TestNotifier(t *testing.T) {
	f := &fakeRunner{}
	n, err := NewNotifier(newTestClient(f), "+15559876543", "")
	if err != nil {
		t.Fatalf("NewNotifier() error = %v", err)
	}
	if err := n.Notify(context.Background(), "Booked \"Sync\""); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if len(f.calls) != 1 || f.calls[0][4] != "+15559876543" {
		t.Errorf("unexpected calls %v", f.calls)
	}

	if _, err := NewNotifier(newTestClient(f), "", ""); err == nil {
		t.Error("expected error without recipient and group")
	}
	if _, err := NewNotifier(newTestClient(f), "+1555", "Team"); err == nil {
		t.Error("expected error with both recipient and group")
	}
	if _, err := NewNotifier(newTestClient(f), "1555", ""); err == nil {
		t.Error("expected error for invalid recipient")
	}
}

func TestSignalError(t *testing.T) {
	inner := errors.New("inner")
	err := &SignalError{Op: "send", UserID: "+1555", Err: inner}
	if err.Error() != "signal send (user: +1555): inner" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("SignalError should unwrap to the inner error")
	}
	if (&SignalError{Op: "send", Err: inner}).Error() != "signal send: inner" {
		t.Error("unexpected message without user")
	}
}
