package syncer

import "sync"

// SyncOpStatus tracks the progress and error condition of sync operations.
// Callers render retry UI from this value; the core never surfaces failures
// any other way.
type SyncOpStatus struct {
	mu sync.RWMutex

	inProgress bool

	completedUpload int
	totalUpload     int

	localDataCurrent int
	localDataTotal   int

	lastError error
}

// NewSyncOpStatus returns a zeroed status value.
func NewSyncOpStatus() *SyncOpStatus {
	return &SyncOpStatus{}
}

// SetDidBegin marks a sync operation as in flight.
func (s *SyncOpStatus) SetDidBegin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = true
}

// SetDidEnd marks the in-flight sync operation as finished.
func (s *SyncOpStatus) SetDidEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = false
	s.completedUpload = 0
	s.totalUpload = 0
}

// InProgress reports whether a sync operation is currently running.
func (s *SyncOpStatus) InProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inProgress
}

// SetUploadStatus records upload progress of the in-flight operation.
func (s *SyncOpStatus) SetUploadStatus(completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completedUpload = completed
	s.totalUpload = total
}

// UploadStatus returns the completed and total upload counts.
func (s *SyncOpStatus) UploadStatus() (completed, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.completedUpload, s.totalUpload
}

// SetLocalDataLoadStatus records database load progress.
func (s *SyncOpStatus) SetLocalDataLoadStatus(current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localDataCurrent = current
	s.localDataTotal = total
}

// LocalDataLoadStatus returns the database load progress.
func (s *SyncOpStatus) LocalDataLoadStatus() (current, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.localDataCurrent, s.localDataTotal
}

// SetError records the most recent sync failure.
func (s *SyncOpStatus) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
}

// ClearError clears the recorded failure after a successful round-trip.
func (s *SyncOpStatus) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = nil
}

// Error returns the most recent sync failure, or nil.
func (s *SyncOpStatus) Error() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Reset returns the status to its initial state.
func (s *SyncOpStatus) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = false
	s.completedUpload = 0
	s.totalUpload = 0
	s.localDataCurrent = 0
	s.localDataTotal = 0
	s.lastError = nil
}
