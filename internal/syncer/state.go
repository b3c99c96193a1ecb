package syncer

import (
	"sync"
	"time"
)

// stateEvent is the internal notification a SyncState sends its owner.
type stateEvent int

const (
	stateEventDiscordanceChange stateEvent = iota + 1
	stateEventEnterOutOfSync
	stateEventExitOutOfSync
)

// SyncState tracks integrity discordance and the pre-sync-save checkpoint.
// Repeated integrity-hash mismatches accumulate in the discordance counter;
// crossing maxDiscordance flips the state to out-of-sync, which is a
// recovery trigger, not an error.
type SyncState struct {
	mu sync.Mutex

	maxDiscordance  int
	discordance     int
	outOfSync       bool
	lastPreSyncSave time.Time

	// receiver is invoked synchronously on state transitions. Owned by the
	// manager; never shared between instances.
	receiver func(stateEvent)
}

// NewSyncState builds a state tracker. receiver may be nil.
func NewSyncState(maxDiscordance int, receiver func(stateEvent)) *SyncState {
	return &SyncState{maxDiscordance: maxDiscordance, receiver: receiver}
}

// SetIntegrityHashes feeds one client/server hash comparison into the
// discordance counter. A mismatch increments it; agreement resets it and
// exits out-of-sync if it was entered.
func (s *SyncState) SetIntegrityHashes(clientHash, serverHash string) {
	s.mu.Lock()

	matching := clientHash != "" && clientHash == serverHash
	var notifications []stateEvent

	if matching {
		s.discordance = 0
		if s.outOfSync {
			s.outOfSync = false
			notifications = append(notifications, stateEventExitOutOfSync)
		}
	} else {
		s.discordance++
		notifications = append(notifications, stateEventDiscordanceChange)
		if s.discordance >= s.maxDiscordance && !s.outOfSync {
			s.outOfSync = true
			notifications = append(notifications, stateEventEnterOutOfSync)
		}
	}

	receiver := s.receiver
	s.mu.Unlock()

	if receiver != nil {
		for _, event := range notifications {
			receiver(event)
		}
	}
}

// IsOutOfSync reports whether the discordance threshold has been crossed.
func (s *SyncState) IsOutOfSync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outOfSync
}

// Discordance returns the accumulated mismatch count.
func (s *SyncState) Discordance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discordance
}

// LastPreSyncSave returns the time of the last pre-sync-save checkpoint.
func (s *SyncState) LastPreSyncSave() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPreSyncSave
}

// SetLastPreSyncSave records a new checkpoint.
func (s *SyncState) SetLastPreSyncSave(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPreSyncSave = t
}

// Reset clears all tracked state, for sign-out.
func (s *SyncState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discordance = 0
	s.outOfSync = false
	s.lastPreSyncSave = time.Time{}
}
