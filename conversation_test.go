package convoprint_test

import (
	"testing"

	"github.com/convoprint/convoprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want convoprint.Role
	}{
		{"user", convoprint.RoleUser},
		{"ASSISTANT", convoprint.RoleAssistant},
		{" system ", convoprint.RoleSystem},
		{"tool", convoprint.RoleTool},
		{"moderator", convoprint.RoleUnknown},
		{"", convoprint.Role("")},
		{"   ", convoprint.Role("")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, convoprint.ParseRole(tt.in), "ParseRole(%q)", tt.in)
	}
}

func TestConversation_AppendTurn(t *testing.T) {
	t.Parallel()

	t.Run("assigns sequential ords", func(t *testing.T) {
		t.Parallel()

		conv := &convoprint.Conversation{}
		conv.AppendTurn(convoprint.RoleUser, "Hi")
		conv.AppendTurn(convoprint.RoleAssistant, "Hello")
		conv.AppendTurn(convoprint.RoleUser, "Bye")

		require.Len(t, conv.Turns, 3)
		for i, turn := range conv.Turns {
			assert.Equal(t, i, turn.Ord)
		}
	})

	t.Run("drops whitespace-only content", func(t *testing.T) {
		t.Parallel()

		conv := &convoprint.Conversation{}
		conv.AppendTurn(convoprint.RoleUser, "  \n\t ")
		conv.AppendTurn(convoprint.RoleUser, "\u00a0\u00a0")

		assert.Empty(t, conv.Turns)
	})

	t.Run("normalizes non-breaking spaces and trims", func(t *testing.T) {
		t.Parallel()

		conv := &convoprint.Conversation{}
		conv.AppendTurn(convoprint.RoleAssistant, " hello\u00a0world ")

		require.Len(t, conv.Turns, 1)
		assert.Equal(t, "hello world", conv.Turns[0].Content)
	})
}

func TestConversation_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *convoprint.Conversation {
		return &convoprint.Conversation{
			SourceURL: "https://chatgpt.com/share/abc",
			Turns: []convoprint.Turn{
				{Role: convoprint.RoleUser, Content: "Hi", Ord: 0},
				{Role: convoprint.RoleAssistant, Content: "Hello", Ord: 1},
			},
		}
	}

	t.Run("valid conversation", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, valid().Validate())
	})

	t.Run("missing source URL", func(t *testing.T) {
		t.Parallel()
		conv := valid()
		conv.SourceURL = ""
		err := conv.Validate()
		require.Error(t, err)
		assert.Equal(t, convoprint.EINVALID, convoprint.ErrorCode(err))
	})

	t.Run("out-of-sequence ord", func(t *testing.T) {
		t.Parallel()
		conv := valid()
		conv.Turns[1].Ord = 5
		require.Error(t, conv.Validate())
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		conv := valid()
		conv.Turns[0].Content = ""
		require.Error(t, conv.Validate())
	})
}
