package push

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovestory/internal/capability"
)

type fakeNotifier struct {
	available bool
	action    string
	err       error
	got       []capability.Notification
}

func (f *fakeNotifier) Available() bool { return f.available }

func (f *fakeNotifier) Notify(_ context.Context, n capability.Notification) (string, error) {
	f.got = append(f.got, n)
	return f.action, f.err
}

func TestDefaultBody(t *testing.T) {
	n := Payload{}.Notification()
	assert.Equal(t, DefaultBody, n.Body)
	assert.Equal(t, DefaultTitle, n.Title)
	require.Len(t, n.Actions, 2)
	assert.Equal(t, capability.Action{ID: "view", Label: "View Memory"}, n.Actions[0])
	assert.Equal(t, capability.Action{ID: "close", Label: "Close"}, n.Actions[1])
}

func TestParsePayload(t *testing.T) {
	assert.Equal(t, Payload{Body: "hi"}, ParsePayload([]byte(`{"body":"hi"}`)))
	assert.Equal(t, Payload{Body: "plain text"}, ParsePayload([]byte("plain text\n")))
	assert.Equal(t, Payload{}, ParsePayload(nil))
	assert.Equal(t, Payload{Body: "{broken"}, ParsePayload([]byte("{broken")))
}

func TestHandleAction(t *testing.T) {
	assert.Equal(t, OpenCard, HandleAction("view"))
	assert.Equal(t, Dismissed, HandleAction("close"))
	assert.Equal(t, Dismissed, HandleAction(""))
}

func TestDeliver(t *testing.T) {
	n := &fakeNotifier{available: true, action: "view"}
	out, err := Deliver(context.Background(), n, Payload{Body: "We went to the beach"}, nil)
	require.NoError(t, err)
	assert.Equal(t, OpenCard, out)
	require.Len(t, n.got, 1)
	assert.Equal(t, "We went to the beach", n.got[0].Body)
}

func TestDeliverUnavailable(t *testing.T) {
	_, err := Deliver(context.Background(), &fakeNotifier{}, Payload{}, nil)
	assert.ErrorIs(t, err, capability.ErrUnavailable)

	_, err = Deliver(context.Background(), nil, Payload{}, nil)
	assert.ErrorIs(t, err, capability.ErrUnavailable)
}

func TestDeliverError(t *testing.T) {
	boom := errors.New("dbus down")
	out, err := Deliver(context.Background(), &fakeNotifier{available: true, err: boom}, Payload{}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Dismissed, out)
}
