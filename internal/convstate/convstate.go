// Package convstate holds each user's position in a multi-step dialogue:
// which flow they are in, which step awaits input, and the flow's scratch
// data. One slot per user, overwritten on every transition, cleared on
// completion or cancellation, and lost on restart.
package convstate

import (
	"sync"
	"time"

	"pos-bot/internal/models"
)

// Flow identifies a multi-step dialogue
type Flow int

const (
	FlowNone Flow = iota
	FlowInventory
	FlowMenu
	FlowCart
	FlowUserAuth
)

func (f Flow) String() string {
	switch f {
	case FlowInventory:
		return "inventory"
	case FlowMenu:
		return "menu"
	case FlowCart:
		return "cart"
	case FlowUserAuth:
		return "user_auth"
	default:
		return "none"
	}
}

// Step identifies the input a flow is waiting for
type Step int

const (
	StepNone Step = iota

	// Session-start / inventory flow
	StepInventoryItemName
	StepInventoryQuantity
	StepInventoryCostPrice
	StepInventoryAddMore

	// Menu-item entry flow
	StepMenuName
	StepMenuHasSizes
	StepMenuPrice
	StepMenuSize
	StepMenuSizePrice
	StepMenuAddMoreSizes

	// Menu-item edit sub-flows (single step each)
	StepMenuEditName
	StepMenuEditSize
	StepMenuEditPrice

	// User-authorization flow
	StepUserAwaitingID
	StepUserAwaitingConfirm
)

// AwaitsText reports whether the step consumes free-text input (as opposed
// to a button tap)
func (s Step) AwaitsText() bool {
	switch s {
	case StepInventoryItemName, StepInventoryQuantity, StepInventoryCostPrice,
		StepMenuName, StepMenuPrice, StepMenuSize, StepMenuSizePrice,
		StepMenuEditName, StepMenuEditSize, StepMenuEditPrice,
		StepUserAwaitingID:
		return true
	}
	return false
}

// InventoryEntry is one not-yet-persisted starting-inventory item
type InventoryEntry struct {
	ItemName  string
	Quantity  int
	CostPrice *float64
}

// InventoryDraft accumulates inventory entries until the session is
// created. The list survives a failed session creation so the operator
// can retry without re-entering everything.
type InventoryDraft struct {
	Entries []InventoryEntry
	Current InventoryEntry
}

// SizeDraft is one accumulated size/price pair during multi-size entry
type SizeDraft struct {
	Label string
	Price float64
}

// MenuDraft is a partially entered menu item
type MenuDraft struct {
	Name        string
	CurrentSize string
	Sizes       []SizeDraft
	EditItemID  int64
}

// PendingUser is an identity awaiting authorization confirmation
type PendingUser struct {
	TelegramID int64
	Username   *string
	FullName   *string
}

// State is one user's conversational position
type State struct {
	Flow Flow
	Step Step

	Inventory   *InventoryDraft
	Menu        *MenuDraft
	PendingUser *PendingUser

	// Cart state for the button-driven order flow
	Cart          models.Cart
	CartSessionID int64

	touched time.Time
}

// Store holds conversation state keyed by user identity
type Store struct {
	mu      sync.RWMutex
	states  map[int64]*State
	idleTTL time.Duration
}

// New creates a state store. idleTTL > 0 drops states untouched for that
// long; 0 disables expiry.
func New(idleTTL time.Duration) *Store {
	return &Store{
		states:  make(map[int64]*State),
		idleTTL: idleTTL,
	}
}

// Get returns the user's current state, or nil when no flow is active.
// Expired states count as absent.
func (s *Store) Get(userID int64) *State {
	s.mu.RLock()
	state, ok := s.states[userID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	if s.idleTTL > 0 && time.Since(state.touched) > s.idleTTL {
		s.Clear(userID)
		return nil
	}
	return state
}

// Set overwrites the user's state
func (s *Store) Set(userID int64, state *State) {
	state.touched = time.Now()
	s.mu.Lock()
	s.states[userID] = state
	s.mu.Unlock()
}

// Clear removes the user's state
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	delete(s.states, userID)
	s.mu.Unlock()
}
