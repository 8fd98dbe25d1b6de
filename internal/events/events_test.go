package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_KeepsOrderPerTopic(t *testing.T) {
	t.Parallel()
	r := &Recorder{}
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, TopicItems, "u1", New(ItemCreated, "u1", nil)))
	require.NoError(t, r.Publish(ctx, TopicUsers, "u1", New(UserSignedUp, "u1", nil)))
	require.NoError(t, r.Publish(ctx, TopicItems, "u1", New(ItemDeleted, "u1", nil)))

	assert.Equal(t, []string{ItemCreated, ItemDeleted}, r.Types(TopicItems))
	assert.Equal(t, []string{UserSignedUp}, r.Types(TopicUsers))
	assert.Len(t, r.Messages(), 3)
}

func TestRecorder_Err(t *testing.T) {
	t.Parallel()
	r := &Recorder{Err: errors.New("broker down")}

	err := r.Publish(context.Background(), TopicCart, "k", New(CartItemAdded, "k", nil))
	require.Error(t, err)
	assert.Empty(t, r.Messages())
}

func TestNew_StampsUTC(t *testing.T) {
	t.Parallel()
	ev := New(PasswordReset, "u", map[string]string{"a": "b"})
	assert.Equal(t, PasswordReset, ev.Type)
	assert.Equal(t, "UTC", ev.OccurredAt.Location().String())
}

func TestNop(t *testing.T) {
	t.Parallel()
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), TopicMail, "k", "v"))
	assert.NoError(t, p.Close())
}
