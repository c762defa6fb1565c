package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type fakeAPI struct {
	messages map[string]*gmail.Message
	query    string
	draft    *gmail.Draft
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	const prefix = "/gmail/v1/users/me/"

	switch {
	case r.Method == http.MethodGet && r.URL.Path == prefix+"messages":
		f.query = r.URL.Query().Get("q")
		res := gmail.ListMessagesResponse{}
		for _, id := range []string{"m1", "m2"} {
			res.Messages = append(res.Messages, &gmail.Message{Id: id})
		}
		_ = json.NewEncoder(w).Encode(res)

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, prefix+"messages/"):
		msg, ok := f.messages[strings.TrimPrefix(r.URL.Path, prefix+"messages/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(msg)

	case r.Method == http.MethodPost && r.URL.Path == prefix+"drafts":
		f.draft = &gmail.Draft{}
		_ = json.NewDecoder(r.Body).Decode(f.draft)
		_ = json.NewEncoder(w).Encode(gmail.Draft{Id: "d-1"})

	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := NewClientWithHTTP(context.Background(), srv.Client(), "default", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return client
}

func encode(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestListMessages(t *testing.T) {
	api := &fakeAPI{}
	client := newTestClient(t, api)

	ids, err := client.ListMessages(context.Background(), "is:unread in:inbox", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, ids)
	assert.Equal(t, "is:unread in:inbox", api.query)
}

func TestGetMessage(t *testing.T) {
	api := &fakeAPI{messages: map[string]*gmail.Message{
		"m1": {
			Id:       "m1",
			ThreadId: "t1",
			Snippet:  "Can we meet",
			Payload: &gmail.MessagePart{
				MimeType: "multipart/alternative",
				Headers: []*gmail.MessagePartHeader{
					{Name: "From", Value: "Jane Doe <jane@example.com>"},
					{Name: "subject", Value: "Sync on Friday"},
				},
				Parts: []*gmail.MessagePart{
					{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: encode("<p>html</p>")}},
					{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: encode("Can we meet on Friday at 3pm?")}},
				},
			},
		},
	}}
	client := newTestClient(t, api)

	msg, err := client.GetMessage(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "t1", msg.ThreadID)
	assert.Equal(t, "Sync on Friday", msg.Subject)
	assert.Equal(t, "jane@example.com", msg.SenderAddress())
	assert.Equal(t, "Can we meet on Friday at 3pm?", msg.Body)

	_, err = client.GetMessage(context.Background(), "missing")
	assert.ErrorContains(t, err, "failed to get message missing")
}

func TestCreateDraft(t *testing.T) {
	api := &fakeAPI{}
	client := newTestClient(t, api)

	id, err := NewReplyDrafter(client).Draft(context.Background(), "jane@example.com", "Re: Planung für Freitag", "Line one\nLine two")
	require.NoError(t, err)
	assert.Equal(t, "d-1", id)

	require.NotNil(t, api.draft)
	raw, err := base64.URLEncoding.DecodeString(api.draft.Message.Raw)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "To: jane@example.com\r\n")
	assert.Contains(t, string(raw), "Subject: =?UTF-8?b?")
	assert.Contains(t, string(raw), "Line one\r\nLine two")
}

func TestCreateDraft_Validation(t *testing.T) {
	client := newTestClient(t, &fakeAPI{})

	_, err := client.CreateDraft(context.Background(), Draft{Subject: "x"})
	assert.Error(t, err)
	_, err = client.CreateDraft(context.Background(), Draft{To: []string{"a@example.com"}})
	assert.Error(t, err)
}

func TestEncodeRFC2047(t *testing.T) {
	assert.Equal(t, "Plain subject", encodeRFC2047("Plain subject"))
	assert.True(t, strings.HasPrefix(encodeRFC2047("Grüße"), "=?UTF-8?b?"))
}

func TestSenderAddress(t *testing.T) {
	assert.Equal(t, "a@example.com", (&Message{From: "a@example.com"}).SenderAddress())
	assert.Equal(t, "", (&Message{From: "not an address"}).SenderAddress())
}

func TestPlainBody_FallsBackToSnippet(t *testing.T) {
	msg := toMessage(&gmail.Message{Id: "x", Snippet: "snippet", Payload: &gmail.MessagePart{MimeType: "text/html"}})
	assert.Equal(t, "snippet", msg.Body)
}
