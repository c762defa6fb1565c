package signal

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the signal-cli executable looked up in PATH.
const DefaultBinary = "signal-cli"

// runner executes a command and returns its stdout and stderr.
type runner func(ctx context.Context, name string, args ...string) (string, string, error)

// Client provides access to Signal messaging operations via signal-cli
type Client struct {
	userID string // phone number registered with signal-cli, e.g. "+15551234567"
	binary string
	run    runner
}

// NewClient creates a new Signal client for the specified phone number.
// The number must already be registered with signal-cli.
func NewClient(userID string) (*Client, error) {
	if err := validateNumber("userID", userID); err != nil {
		return nil, err
	}

	path, err := exec.LookPath(DefaultBinary)
	if err != nil {
		return nil, &SignalError{
			Op:     "initialize",
			UserID: userID,
			Err:    fmt.Errorf("signal-cli not found in PATH. Please install signal-cli: https://github.com/AsamK/signal-cli"),
		}
	}

	return &Client{userID: userID, binary: path, run: execCommand}, nil
}

// UserID returns the phone number associated with this client
func (c *Client) UserID() string {
	return c.userID
}

func execCommand(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func (c *Client) signalCLI(ctx context.Context, args ...string) (string, string, error) {
	return c.run(ctx, c.binary, append([]string{"-u", c.userID}, args...)...)
}

// SendMessage sends a text message to a Signal user
func (c *Client) SendMessage(ctx context.Context, recipient, message string) error {
	if err := validateNumber("recipient", recipient); err != nil {
		return &SignalError{Op: "send", UserID: c.userID, Err: err}
	}
	if message == "" {
		return &SignalError{Op: "send", UserID: c.userID, Err: fmt.Errorf("message cannot be empty")}
	}

	if _, stderr, err := c.signalCLI(ctx, "send", recipient, "-m", message); err != nil {
		return &SignalError{
			Op:     "send",
			UserID: c.userID,
			Err:    fmt.Errorf("failed to send message: %w (stderr: %s)", err, strings.TrimSpace(stderr)),
		}
	}
	return nil
}

// SendGroupMessage sends a text message to the group with the given name
func (c *Client) SendGroupMessage(ctx context.Context, groupName, message string) error {
	if groupName == "" {
		return &SignalError{Op: "sendGroup", UserID: c.userID, Err: fmt.Errorf("groupName cannot be empty")}
	}
	if message == "" {
		return &SignalError{Op: "sendGroup", UserID: c.userID, Err: fmt.Errorf("message cannot be empty")}
	}

	groups, err := c.ListGroups(ctx)
	if err != nil {
		return err
	}
	groupID := ""
	for _, g := range groups {
		if g.Name == groupName {
			groupID = g.ID
			break
		}
	}
	if groupID == "" {
		return &SignalError{Op: "sendGroup", UserID: c.userID, Err: fmt.Errorf("group %q not found", groupName)}
	}

	if _, stderr, err := c.signalCLI(ctx, "send", "-g", groupID, "-m", message); err != nil {
		return &SignalError{
			Op:     "sendGroup",
			UserID: c.userID,
			Err:    fmt.Errorf("failed to send group message: %w (stderr: %s)", err, strings.TrimSpace(stderr)),
		}
	}
	return nil
}

// ListGroups returns the groups the user is a member of
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	stdout, stderr, err := c.signalCLI(ctx, "listGroups")
	if err != nil {
		return nil, &SignalError{
			Op:     "listGroups",
			UserID: c.userID,
			Err:    fmt.Errorf("failed to list groups: %w (stderr: %s)", err, strings.TrimSpace(stderr)),
		}
	}
	return parseGroups(stdout), nil
}

// parseGroups reads signal-cli listGroups output. Each group is one line of
// the form "Id: <id> Name: <name> Active: true Blocked: false"; older
// releases print Id and Name on separate lines.
func parseGroups(output string) []Group {
	var groups []Group
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "Id: "):
			rest := strings.TrimPrefix(line, "Id: ")
			g := Group{}
			if id, name, ok := strings.Cut(rest, " Name: "); ok {
				g.ID = strings.TrimSpace(id)
				g.Name = trimGroupName(name)
			} else {
				g.ID = strings.TrimSpace(rest)
			}
			groups = append(groups, g)
		case strings.HasPrefix(line, "Name: ") && len(groups) > 0 && groups[len(groups)-1].Name == "":
			groups[len(groups)-1].Name = trimGroupName(strings.TrimPrefix(line, "Name: "))
		}
	}
	return groups
}

func trimGroupName(s string) string {
	if i := strings.Index(s, " Active: "); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func validateNumber(field, number string) error {
	if number == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if !strings.HasPrefix(number, "+") {
		return fmt.Errorf("%s must be a phone number starting with + (e.g., +15551234567)", field)
	}
	return nil
}
