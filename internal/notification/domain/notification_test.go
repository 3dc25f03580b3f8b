package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversation_OtherParticipant(t *testing.T) {
	c := &Conversation{Participants: []string{"alice", "bob"}}

	got, ok := c.OtherParticipant("alice")
	assert.True(t, ok)
	assert.Equal(t, "bob", got)

	got, ok = c.OtherParticipant("bob")
	assert.True(t, ok)
	assert.Equal(t, "alice", got)
}

func TestConversation_OtherParticipant_None(t *testing.T) {
	for _, c := range []*Conversation{
		{Participants: nil},
		{Participants: []string{"alice"}},
		{Participants: []string{"alice", "alice"}},
		{Participants: []string{"alice", ""}},
	} {
		_, ok := c.OtherParticipant("alice")
		assert.False(t, ok, "participants %v", c.Participants)
	}
}
