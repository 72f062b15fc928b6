package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHistory(turns int) History {
	h := History{{Role: RoleSystem, Content: "sys"}}
	for i := 1; i <= turns; i++ {
		h = append(h,
			Message{Role: RoleUser, Content: fmt.Sprintf("q%d", i)},
			Message{Role: RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		)
	}
	return h
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleSystem.IsValid())
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAssistant.IsValid())
	assert.False(t, Role("tool").IsValid())
}

func TestHistory_Trim(t *testing.T) {
	t.Run("within bound is unchanged", func(t *testing.T) {
		h := buildHistory(3)
		assert.Equal(t, h, h.Trim(10))
	})

	t.Run("eleven turns keep the last ten", func(t *testing.T) {
		trimmed := buildHistory(11).Trim(10)

		require.Len(t, trimmed, 21)
		assert.Equal(t, RoleSystem, trimmed[0].Role)
		assert.Equal(t, "q2", trimmed[1].Content)
		assert.Equal(t, "a11", trimmed[20].Content)
		for _, m := range trimmed {
			assert.NotEqual(t, "q1", m.Content)
			assert.NotEqual(t, "a1", m.Content)
		}
	})

	t.Run("zero turns keeps only system", func(t *testing.T) {
		trimmed := buildHistory(2).Trim(0)
		assert.Equal(t, History{{Role: RoleSystem, Content: "sys"}}, trimmed)
	})

	t.Run("bound holds for any length", func(t *testing.T) {
		for turns := 0; turns < 30; turns++ {
			trimmed := buildHistory(turns).Trim(4)
			assert.LessOrEqual(t, len(trimmed), MaxLen(4))
			assert.Equal(t, RoleSystem, trimmed[0].Role)
		}
	})
}

func TestHistory_Clone(t *testing.T) {
	h := buildHistory(1)
	c := h.Clone()
	c[1].Content = "changed"

	assert.Equal(t, "q1", h[1].Content)
	assert.Nil(t, History(nil).Clone())
}

func TestHistory_Turns(t *testing.T) {
	assert.Equal(t, 0, History{}.Turns())
	assert.Equal(t, 4, buildHistory(4).Turns())
}
