package convstate

import (
	"testing"
	"time"

	"pos-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsNilWithoutState(t *testing.T) {
	s := New(0)
	assert.Nil(t, s.Get(10))
}

func TestSetOverwrites(t *testing.T) {
	s := New(0)

	s.Set(10, &State{Flow: FlowInventory, Step: StepInventoryItemName})
	s.Set(10, &State{Flow: FlowMenu, Step: StepMenuName})

	state := s.Get(10)
	require.NotNil(t, state)
	assert.Equal(t, FlowMenu, state.Flow)
	assert.Equal(t, StepMenuName, state.Step)
}

func TestClearRemovesState(t *testing.T) {
	s := New(0)

	s.Set(10, &State{Flow: FlowCart, Cart: models.Cart{}})
	s.Clear(10)

	assert.Nil(t, s.Get(10))
}

func TestStatesAreIndependentPerUser(t *testing.T) {
	s := New(0)

	s.Set(10, &State{Flow: FlowInventory})
	s.Set(20, &State{Flow: FlowMenu})
	s.Clear(10)

	assert.Nil(t, s.Get(10))
	require.NotNil(t, s.Get(20))
	assert.Equal(t, FlowMenu, s.Get(20).Flow)
}

func TestIdleExpiry(t *testing.T) {
	s := New(20 * time.Millisecond)

	s.Set(10, &State{Flow: FlowInventory})
	require.NotNil(t, s.Get(10))

	time.Sleep(40 * time.Millisecond)
	assert.Nil(t, s.Get(10), "state past the idle TTL counts as absent")
}

func TestSetRefreshesIdleClock(t *testing.T) {
	s := New(50 * time.Millisecond)

	s.Set(10, &State{Flow: FlowInventory})
	time.Sleep(30 * time.Millisecond)
	s.Set(10, &State{Flow: FlowInventory, Step: StepInventoryQuantity})
	time.Sleep(30 * time.Millisecond)

	assert.NotNil(t, s.Get(10), "recent Set should keep the state alive")
}

func TestAwaitsText(t *testing.T) {
	assert.True(t, StepInventoryItemName.AwaitsText())
	assert.True(t, StepMenuSizePrice.AwaitsText())
	assert.True(t, StepUserAwaitingID.AwaitsText())

	assert.False(t, StepNone.AwaitsText())
	assert.False(t, StepInventoryAddMore.AwaitsText())
	assert.False(t, StepMenuHasSizes.AwaitsText())
	assert.False(t, StepUserAwaitingConfirm.AwaitsText())
}
