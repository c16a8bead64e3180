package dedup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmitThenDuplicate(t *testing.T) {
	a := NewAdmitter(DefaultCapacity)

	assert.Equal(t, Accepted, a.Admit("cb-1", 10))
	a.Release(10)

	// Same delivery ID is a duplicate no matter who is busy
	assert.Equal(t, Duplicate, a.Admit("cb-1", 10))
	assert.Equal(t, Duplicate, a.Admit("cb-1", 10))
}

func TestDuplicateWhileBusy(t *testing.T) {
	a := NewAdmitter(DefaultCapacity)

	assert.Equal(t, Accepted, a.Admit("cb-1", 10))

	// Busy flag still set, but a replay of the same delivery must report
	// Duplicate, not Busy
	assert.Equal(t, Duplicate, a.Admit("cb-1", 10))
}

func TestBusyUser(t *testing.T) {
	a := NewAdmitter(DefaultCapacity)

	assert.Equal(t, Accepted, a.Admit("cb-1", 10))
	assert.Equal(t, Busy, a.Admit("cb-2", 10))

	// Another user is unaffected
	assert.Equal(t, Accepted, a.Admit("cb-3", 20))

	a.Release(10)
	assert.Equal(t, Accepted, a.Admit("cb-4", 10))
}

func TestReleaseAfterPanicPath(t *testing.T) {
	a := NewAdmitter(DefaultCapacity)

	func() {
		defer a.Release(10)
		assert.Equal(t, Accepted, a.Admit("cb-1", 10))
		defer func() { _ = recover() }()
		panic("handler blew up")
	}()

	assert.Equal(t, Accepted, a.Admit("cb-2", 10))
}

func TestSeenSetEviction(t *testing.T) {
	a := NewAdmitter(3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, Accepted, a.Admit(fmt.Sprintf("cb-%d", i), int64(i)))
		a.Release(int64(i))
	}

	// Capacity reached: the next admit evicts the oldest entry
	assert.Equal(t, Accepted, a.Admit("cb-3", 3))
	a.Release(3)

	assert.Equal(t, Accepted, a.Admit("cb-0", 0), "oldest entry should have been evicted")
	a.Release(0)

	assert.Equal(t, Duplicate, a.Admit("cb-3", 3), "recent entries stay deduplicated")
}

func TestReleaseUnknownUserIsNoop(t *testing.T) {
	a := NewAdmitter(DefaultCapacity)
	a.Release(99)
	assert.Equal(t, Accepted, a.Admit("cb-1", 99))
}
