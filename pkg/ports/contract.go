package ports

import (
	"context"
	"testing"

	"github.com/aretw0/knockknock/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDialogueContract runs a suite of tests to verify that a Dialogue
// implementation adheres to the dialogue rules. newDialogue must return a
// fresh dialogue scripted from table on every call.
func RunDialogueContract(t *testing.T, table domain.Table, newDialogue func(t *testing.T) Dialogue) {
	ctx := context.Background()
	affirmative := table.Affirmative
	other := affirmative + "?"

	t.Run("Opening First", func(t *testing.T) {
		d := newDialogue(t)
		out, err := d.Start(ctx)
		require.NoError(t, err)
		assert.Equal(t, table.Opening, out)
		assert.False(t, d.Done())
	})

	t.Run("Start Only Once", func(t *testing.T) {
		d := newDialogue(t)
		_, err := d.Start(ctx)
		require.NoError(t, err)

		_, err = d.Start(ctx)
		assert.ErrorIs(t, err, domain.ErrInvalidCall)
	})

	t.Run("Punchline Regardless Of Input", func(t *testing.T) {
		d := newDialogue(t)
		_, err := d.Start(ctx)
		require.NoError(t, err)
		_, err = d.Reply(ctx, "")
		require.NoError(t, err)

		out, err := d.Reply(ctx, other)
		require.NoError(t, err)
		assert.Equal(t, table.Entry(d.Snapshot().Cursor).Punchline, out)
	})

	t.Run("Affirmative Continues", func(t *testing.T) {
		d := newDialogue(t)
		_, err := d.Start(ctx)
		require.NoError(t, err)
		for i := 0; i < 2; i++ {
			_, err := d.Reply(ctx, "")
			require.NoError(t, err)
		}
		before := d.Snapshot().Cursor

		out, err := d.Reply(ctx, affirmative)
		require.NoError(t, err)
		assert.NotEqual(t, table.Termination, out)
		assert.False(t, d.Done())
		assert.Equal(t, (before+1)%table.Len(), d.Snapshot().Cursor)
	})

	t.Run("Other Terminates", func(t *testing.T) {
		d := newDialogue(t)
		_, err := d.Start(ctx)
		require.NoError(t, err)
		for i := 0; i < 2; i++ {
			_, err := d.Reply(ctx, "")
			require.NoError(t, err)
		}

		out, err := d.Reply(ctx, other)
		require.NoError(t, err)
		assert.Equal(t, table.Termination, out)
		assert.True(t, d.Done())
		assert.Equal(t, domain.StateDone, d.Snapshot().State)

		_, err = d.Reply(ctx, affirmative)
		assert.ErrorIs(t, err, domain.ErrInvalidCall)
	})
}
