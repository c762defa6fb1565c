package inbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxmeet/internal/gmail"
	"github.com/teemow/inboxmeet/internal/meeting"
)

type fakeMailbox struct {
	mu       sync.Mutex
	ids      []string
	messages map[string]*gmail.Message
	failing  map[string]int
	listErr  error
	queries  []string
}

func (f *fakeMailbox) ListMessages(_ context.Context, q string, _ int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.ids, f.listErr
}

func (f *fakeMailbox) GetMessage(_ context.Context, id string) (*gmail.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[id] > 0 {
		f.failing[id]--
		return nil, errors.New("temporary failure")
	}
	msg, ok := f.messages[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return msg, nil
}

type fakeScheduler struct {
	requests []meeting.Request
	status   meeting.Status
}

func (f *fakeScheduler) Process(_ context.Context, req meeting.Request) meeting.Result {
	f.requests = append(f.requests, req)
	status := f.status
	if status == "" {
		status = meeting.StatusSuccess
	}
	res := meeting.Result{Status: status}
	if status == meeting.StatusError {
		res.Err = errors.New("boom")
	}
	return res
}

type fakeNotifier struct {
	texts []string
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

var refNow = time.Date(2025, time.April, 2, 10, 0, 0, 0, time.UTC)

func newMailbox() *fakeMailbox {
	return &fakeMailbox{
		ids: []string{"m1", "m2", "m3"},
		messages: map[string]*gmail.Message{
			"m1": {ID: "m1", From: "Alice <alice@example.com>", Subject: "Project sync", Body: "Can we schedule a meeting on Friday at 3pm?"},
			"m2": {ID: "m2", From: "ops@example.com", Subject: "URGENT: disk full", Body: "Please look."},
			"m3": {ID: "m3", From: "news@example.com", Subject: "Weekly digest", Body: "Nothing to see."},
		},
		failing: map[string]int{},
	}
}

func newTestWatcher(t *testing.T, box *fakeMailbox, sched *fakeScheduler, notifier *fakeNotifier) *Watcher {
	t.Helper()
	w, err := NewWatcher(box, sched, Options{
		ImportanceKeywords: []string{"urgent", "asap"},
		Resolver:           meeting.NewResolver(meeting.WithClock(func() time.Time { return refNow })),
		Notifier:           notifier,
	})
	require.NoError(t, err)
	return w
}

func TestNewWatcher_Validation(t *testing.T) {
	_, err := NewWatcher(nil, &fakeScheduler{}, Options{})
	assert.Error(t, err)
	_, err = NewWatcher(newMailbox(), nil, Options{})
	assert.Error(t, err)
}

func TestWatcher_Poll(t *testing.T) {
	box := newMailbox()
	sched := &fakeScheduler{}
	notifier := &fakeNotifier{}
	w := newTestWatcher(t, box, sched, notifier)

	summary, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Fetched: 3, Meetings: 1, Important: 1, Skipped: 1}, summary)
	assert.Equal(t, []string{DefaultQuery}, box.queries)

	require.Len(t, sched.requests, 1)
	req := sched.requests[0]
	assert.Equal(t, "Project sync", req.Title)
	assert.Equal(t, "friday", req.StartDate)
	assert.Equal(t, "3:00 pm", req.StartTime)
	assert.Equal(t, "alice@example.com", req.OrganizerEmail)

	assert.Equal(t, []string{"Important email from ops@example.com: URGENT: disk full"}, notifier.texts)
}

func TestWatcher_PollSkipsSeenMessages(t *testing.T) {
	box := newMailbox()
	sched := &fakeScheduler{}
	w := newTestWatcher(t, box, sched, &fakeNotifier{})

	_, err := w.Poll(context.Background())
	require.NoError(t, err)

	summary, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
	assert.Len(t, sched.requests, 1)
}

func TestWatcher_PollRetriesFetchFailures(t *testing.T) {
	box := newMailbox()
	box.failing["m1"] = 1
	sched := &fakeScheduler{}
	w := newTestWatcher(t, box, sched, &fakeNotifier{})

	summary, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)
	assert.Empty(t, sched.requests)

	summary, err = w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Fetched: 1, Meetings: 1}, summary)
	assert.Len(t, sched.requests, 1)
}

func TestWatcher_PollSchedulerError(t *testing.T) {
	box := newMailbox()
	box.ids = []string{"m1"}
	w := newTestWatcher(t, box, &fakeScheduler{status: meeting.StatusError}, &fakeNotifier{})

	summary, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Fetched: 1, Errors: 1}, summary)

	// failed scheduling is not retried
	summary, err = w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

func TestWatcher_PollListError(t *testing.T) {
	box := newMailbox()
	box.listErr = errors.New("quota exceeded")
	w := newTestWatcher(t, box, &fakeScheduler{}, &fakeNotifier{})

	_, err := w.Poll(context.Background())
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestWatcher_Run(t *testing.T) {
	box := newMailbox()
	sched := &fakeScheduler{}
	w := newTestWatcher(t, box, sched, &fakeNotifier{})

	assert.Error(t, w.Run(context.Background(), 0))

	// a cancelled context polls once and stops before processing
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx, time.Minute))
	assert.Len(t, box.queries, 1)
	assert.Empty(t, sched.requests)
}
