package syncer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/leaflock/leaflock/internal/deltas"
	"github.com/leaflock/leaflock/internal/logger"
	"github.com/leaflock/leaflock/models"
)

// Defaults for the orchestrator's tunables.
const (
	DefaultMaxDiscordance        = 5
	DefaultMajorChangeThreshold  = 15
	DefaultUploadBatchLimit      = 150
	DefaultDownloadPageLimit     = 150
	DefaultDatabaseLoadBatchSize = 100

	invalidSessionStatus = 401
)

// ErrDatabaseAlreadyLoaded is returned by LoadDatabasePayloads when the
// local database was already initialized.
var ErrDatabaseAlreadyLoaded = errors.New("syncer: local database already loaded")

// TimingStrategy governs what happens to a Sync call made while another
// sync is in flight or before the database has loaded.
type TimingStrategy int

const (
	// TimingStrategyResolveOnNext coalesces the caller onto the next sync
	// cycle that begins after this call; many callers share one round-trip.
	TimingStrategyResolveOnNext TimingStrategy = iota + 1

	// TimingStrategyForceSpawnNew guarantees the caller a dedicated
	// round-trip, executed after the current one completes. Spawned
	// requests drain one at a time.
	TimingStrategyForceSpawnNew
)

// SyncOptions parameterizes one Sync call.
type SyncOptions struct {
	// Strategy defaults to TimingStrategyResolveOnNext.
	Strategy TimingStrategy

	// CheckIntegrity asks the server to report its integrity hash so the
	// client can compare and feed the discordance counter.
	CheckIntegrity bool
}

type spawnRequest struct {
	opts SyncOptions
	done chan error
}

// Manager is the sync orchestrator: it gates concurrent sync requests,
// chooses the online or offline dispatch path, reconciles responses through
// the delta engine, persists and maps the results, and recovers from
// sustained integrity discordance.
//
// At most one sync operation is in flight at any time. Queues and flags are
// owned by the instance; separate managers never share scheduling state.
type Manager struct {
	encryption EncryptionService
	storage    StorageService
	items      ItemManager
	session    SessionService
	transport  TransportService
	registry   *deltas.StrategyRegistry
	log        *logger.Logger

	status *SyncOpStatus
	state  *SyncState

	majorChangeThreshold int
	uploadBatchLimit     int
	downloadPageLimit    int
	loadBatchSize        int
	loadPriority         []models.ContentType

	generateUUID func() string
	now          func() time.Time

	mu              sync.Mutex
	locked          bool
	databaseLoaded  bool
	syncInProgress  bool
	resolveQueue    []chan error
	spawnQueue      []spawnRequest
	observers       eventObservers
	needsMoreSync   bool
	itemsInvolved   int
	syncToken       string
	syncTokenLoaded bool
	cursorToken     string
	cursorLoaded    bool
}

// NewManager wires the orchestrator to its collaborators. The strategy
// registry starts with the built-in per-content-type policies; override per
// type via Registry().Register.
func NewManager(
	encryption EncryptionService,
	storage StorageService,
	items ItemManager,
	session SessionService,
	transport TransportService,
	log *logger.Logger,
) *Manager {
	m := &Manager{
		encryption:           encryption,
		storage:              storage,
		items:                items,
		session:              session,
		transport:            transport,
		registry:             deltas.NewStrategyRegistry(),
		log:                  log,
		status:               NewSyncOpStatus(),
		majorChangeThreshold: DefaultMajorChangeThreshold,
		uploadBatchLimit:     DefaultUploadBatchLimit,
		downloadPageLimit:    DefaultDownloadPageLimit,
		loadBatchSize:        DefaultDatabaseLoadBatchSize,
		generateUUID:         deltas.NewUUID,
		now:                  time.Now,
		// Content types appearing first are always mapped first during
		// database load.
		loadPriority: []models.ContentType{
			models.ContentTypeItemsKey,
			models.ContentTypeUserPreferences,
			models.ContentTypeComponent,
			models.ContentTypeTheme,
		},
	}
	m.state = NewSyncState(DefaultMaxDiscordance, m.handleStateEvent)
	return m
}

// Registry exposes the conflict-strategy registry for per-type overrides.
func (m *Manager) Registry() *deltas.StrategyRegistry {
	return m.registry
}

// Status exposes the observable progress/error state.
func (m *Manager) Status() *SyncOpStatus {
	return m.status
}

// IsOutOfSync reports whether the discordance threshold has been crossed.
func (m *Manager) IsOutOfSync() bool {
	return m.state.IsOutOfSync()
}

// SetBatchLimits overrides the upload batch size and the download page size.
// Non-positive values keep the current limit.
func (m *Manager) SetBatchLimits(upload, download int) {
	if upload > 0 {
		m.uploadBatchLimit = upload
	}
	if download > 0 {
		m.downloadPageLimit = download
	}
}

// AddEventObserver subscribes to lifecycle events. Delivery is synchronous,
// in registration order.
func (m *Manager) AddEventObserver(handler EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers.add(handler)
}

func (m *Manager) notifyEvent(event Event, data any) {
	m.mu.Lock()
	handlers := append([]EventHandler(nil), m.observers.handlers...)
	m.mu.Unlock()
	for _, handler := range handlers {
		handler(event, data)
	}
}

// LockSyncing suspends all sync activity. While locked, Sync calls are
// silent no-ops: not queued, not erroring.
func (m *Manager) LockSyncing() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked = true
}

// UnlockSyncing resumes sync activity.
func (m *Manager) UnlockSyncing() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked = false
}

// Sync runs one synchronization cycle, or coalesces the call per the timing
// strategy when a cycle is already in flight or the database has not loaded.
//
// Server and network failures never surface as a returned error; they are
// recorded on Status and emitted as events. The returned error is reserved
// for local failures (storage, encryption) and context expiry.
func (m *Manager) Sync(ctx context.Context, opts SyncOptions) error {
	m.mu.Lock()
	if m.locked {
		m.mu.Unlock()
		m.log.Debug().Msg("sync locked")
		return nil
	}
	m.mu.Unlock()

	// Pop the dirty set first: the counter reset is atomic with the pop, so
	// an edit landing after this point re-flags the item for the next
	// cycle, never this one.
	dirty := m.items.PopDirtyItems()

	// Persist-before-send: edits newer than the last checkpoint reach disk
	// before any network activity, so an interrupted process loses nothing.
	if err := m.preSyncSave(ctx, dirty); err != nil {
		m.reportFailure(fmt.Errorf("pre-sync save: %w", err))
		return err
	}

	strategy := opts.Strategy
	if strategy == 0 {
		strategy = TimingStrategyResolveOnNext
	}

	m.mu.Lock()
	if m.syncInProgress || !m.databaseLoaded {
		if m.syncInProgress {
			m.log.Debug().Msg("sync requested while sync in progress, coalescing")
		} else {
			m.log.Debug().Msg("sync requested before local database loaded, coalescing")
		}
		switch strategy {
		case TimingStrategyResolveOnNext:
			done := make(chan error, 1)
			m.resolveQueue = append(m.resolveQueue, done)
			m.mu.Unlock()
			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		case TimingStrategyForceSpawnNew:
			req := spawnRequest{opts: opts, done: make(chan error, 1)}
			m.spawnQueue = append(m.spawnQueue, req)
			m.mu.Unlock()
			select {
			case err := <-req.done:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		default:
			m.mu.Unlock()
			return fmt.Errorf("syncer: unhandled timing strategy %d", strategy)
		}
	}
	m.syncInProgress = true
	m.itemsInvolved = 0
	m.needsMoreSync = false
	// Resolve-on-next waiters queued before this cycle began resolve when
	// it ends; waiters arriving during the cycle wait for the next one.
	inTime := m.resolveQueue
	m.resolveQueue = nil
	m.mu.Unlock()

	runErr := m.performSync(ctx, opts, dirty)

	m.mu.Lock()
	m.syncInProgress = false
	continuation := m.needsMoreSync
	m.needsMoreSync = false
	involved := m.itemsInvolved
	var spawn *spawnRequest
	if len(m.spawnQueue) > 0 {
		next := m.spawnQueue[0]
		m.spawnQueue = m.spawnQueue[1:]
		spawn = &next
	}
	moreResolvers := len(m.resolveQueue) > 0
	m.mu.Unlock()

	if involved >= m.majorChangeThreshold {
		m.notifyEvent(EventMajorDataChange, involved)
	}
	m.notifyEvent(EventFullSyncCompleted, nil)

	for _, done := range inTime {
		done <- runErr
	}

	// A spawned request is itself another sync, so it also covers any
	// pending pagination or conflict continuation: the cursor token and
	// dirty duplicates are picked up by whichever cycle runs next.
	if spawn != nil {
		spawn.done <- m.Sync(ctx, spawn.opts)
	} else if moreResolvers || continuation {
		_ = m.Sync(ctx, SyncOptions{})
	}

	return runErr
}

// performSync encrypts the dirty batch and dispatches the online or offline
// operation. The caller owns the in-progress slot.
func (m *Manager) performSync(ctx context.Context, opts SyncOptions, dirty []models.Payload) error {
	began := m.now()
	payloads := make([]models.Payload, 0, len(dirty))
	for _, p := range dirty {
		payloads = append(payloads, p.WithLastSyncBegan(began))
	}

	online := m.session.Online()
	intent := IntentLocalStoragePreferEncrypted
	if online {
		intent = IntentSync
	}
	encrypted, err := m.encryption.EncryptPayloads(ctx, payloads, intent)
	if err != nil {
		m.reportFailure(fmt.Errorf("encrypt dirty payloads: %w", err))
		return err
	}

	m.status.SetDidBegin()
	defer m.status.SetDidEnd()

	if !online {
		m.log.Debug().Int("payloads", len(encrypted)).Msg("syncing offline")
		op := newOfflineSyncOperation(encrypted, m.handleOfflineResponse)
		return op.Run(ctx)
	}

	m.log.Debug().Int("payloads", len(encrypted)).Msg("syncing online")
	syncToken, err := m.getLastSyncToken(ctx)
	if err != nil {
		m.reportFailure(err)
		return err
	}
	cursorToken, err := m.getPaginationToken(ctx)
	if err != nil {
		m.reportFailure(err)
		return err
	}

	var op *AccountSyncOperation
	op = newAccountSyncOperation(
		m.transport,
		encrypted,
		opts.CheckIntegrity,
		syncToken,
		cursorToken,
		m.uploadBatchLimit,
		m.downloadPageLimit,
		func(ctx context.Context, response models.SyncResponse) error {
			return m.handleServerResponse(ctx, op, response)
		},
		func(completed, total int) {
			m.status.SetUploadStatus(completed, total)
		},
	)
	if err := op.Run(ctx); err != nil {
		m.reportFailure(err)
		return err
	}
	return nil
}

// handleServerResponse processes one online response: advance the persisted
// sync position, decrypt, resolve against local state, persist and map, and
// record whether another cycle is needed.
func (m *Manager) handleServerResponse(ctx context.Context, op *AccountSyncOperation, response models.SyncResponse) error {
	if response.HasError() {
		m.handleErrorServerResponse(response)
		return nil
	}

	if err := m.setLastSyncToken(ctx, response.SyncToken); err != nil {
		return err
	}
	if err := m.setPaginationToken(ctx, response.CursorToken); err != nil {
		return err
	}
	m.status.ClearError()

	retrieved, err := m.encryption.DecryptPayloads(ctx, response.RetrievedItems)
	if err != nil {
		return fmt.Errorf("decrypt retrieved payloads: %w", err)
	}
	conflicts, err := m.decryptConflicts(ctx, response.Conflicts)
	if err != nil {
		return err
	}

	resolver := newResponseResolver(
		retrieved,
		response.SavedItems,
		conflicts,
		op.PayloadsSavedOrSaving(),
		m.items.MasterCollection(),
		m.registry,
		m.generateUUID,
	)

	// Map before persist-dependent events; both strictly before any
	// continuation is scheduled.
	for _, collection := range resolver.Collections() {
		if collection.Size() == 0 {
			continue
		}
		if err := m.items.MapCollectionToLocalItems(ctx, collection); err != nil {
			return fmt.Errorf("map %s collection: %w", collection.Source(), err)
		}
		if err := m.persistPayloads(ctx, collection.All()); err != nil {
			return fmt.Errorf("persist %s collection: %w", collection.Source(), err)
		}
	}

	if response.CheckIntegrity {
		clientHash, err := m.encryption.ComputeIntegrityHash(m.items.MasterCollection().All())
		if err != nil {
			return fmt.Errorf("compute integrity hash: %w", err)
		}
		m.state.SetIntegrityHashes(clientHash, response.IntegrityHash)
	}

	m.mu.Lock()
	m.itemsInvolved += response.NumberOfItemsInvolved()
	if response.CursorToken != "" || resolver.NeedsMoreSync() {
		m.needsMoreSync = true
	}
	m.mu.Unlock()

	m.notifyEvent(EventSingleSyncCompleted, nil)
	return nil
}

func (m *Manager) handleErrorServerResponse(response models.SyncResponse) {
	err := fmt.Errorf("sync request failed with status %d: %s", response.Status, response.ErrorMessage)
	m.log.Warn().Int("status", response.Status).Str("error", response.ErrorMessage).Msg("sync error response")

	if response.Status == invalidSessionStatus {
		m.notifyEvent(EventInvalidSession, nil)
	}
	m.status.SetError(err)
	m.notifyEvent(EventSyncError, err)
}

// handleOfflineResponse persists the batch locally and maps it back as
// saved, completing the offline round-trip. The acknowledgement clears the
// dirty flag the same way a server save does; the item manager keeps it set
// if an edit landed while the batch was being written.
func (m *Manager) handleOfflineResponse(ctx context.Context, payloads []models.Payload) error {
	if len(payloads) == 0 {
		return nil
	}
	ended := m.now()
	acked := make([]models.Payload, 0, len(payloads))
	for _, p := range payloads {
		acked = append(acked, p.WithDirty(false).WithLastSyncEnded(ended))
	}
	if err := m.storage.SavePayloads(ctx, acked); err != nil {
		return fmt.Errorf("persist offline payloads: %w", err)
	}
	collection := models.NewCollection(models.SourceLocalSaved, acked...)
	if err := m.items.MapCollectionToLocalItems(ctx, collection); err != nil {
		return fmt.Errorf("map offline payloads: %w", err)
	}
	return nil
}

func (m *Manager) decryptConflicts(ctx context.Context, conflicts []models.SyncConflict) ([]models.SyncConflict, error) {
	out := make([]models.SyncConflict, 0, len(conflicts))
	for _, conflict := range conflicts {
		decrypted := conflict
		if conflict.ServerItem != nil {
			payloads, err := m.encryption.DecryptPayloads(ctx, []models.Payload{*conflict.ServerItem})
			if err != nil {
				return nil, fmt.Errorf("decrypt conflict server item: %w", err)
			}
			decrypted.ServerItem = &payloads[0]
		}
		if conflict.UnsavedItem != nil {
			payloads, err := m.encryption.DecryptPayloads(ctx, []models.Payload{*conflict.UnsavedItem})
			if err != nil {
				return nil, fmt.Errorf("decrypt conflict unsaved item: %w", err)
			}
			decrypted.UnsavedItem = &payloads[0]
		}
		out = append(out, decrypted)
	}
	return out, nil
}

// preSyncSave persists the dirty payloads edited since the last checkpoint,
// then advances the checkpoint.
func (m *Manager) preSyncSave(ctx context.Context, dirty []models.Payload) error {
	pending := dirty
	if last := m.state.LastPreSyncSave(); !last.IsZero() {
		pending = nil
		for _, p := range dirty {
			if p.DirtiedAt.After(last) {
				pending = append(pending, p)
			}
		}
	}
	m.state.SetLastPreSyncSave(m.now())

	if len(pending) == 0 {
		return nil
	}
	encrypted, err := m.encryption.EncryptPayloads(ctx, pending, IntentLocalStoragePreferEncrypted)
	if err != nil {
		return err
	}
	return m.storage.SavePayloads(ctx, encrypted)
}

// persistPayloads encrypts decrypted payloads for local storage and writes
// them through the storage contract.
func (m *Manager) persistPayloads(ctx context.Context, payloads []models.Payload) error {
	encrypted, err := m.encryption.EncryptPayloads(ctx, payloads, IntentLocalStoragePreferEncrypted)
	if err != nil {
		return err
	}
	return m.storage.SavePayloads(ctx, encrypted)
}

func (m *Manager) reportFailure(err error) {
	m.status.SetError(err)
	m.notifyEvent(EventSyncError, err)
}

// handleStateEvent reacts to discordance transitions: below the threshold a
// follow-up sync is scheduled; crossing it surfaces the out-of-sync events
// for the host to trigger recovery.
func (m *Manager) handleStateEvent(event stateEvent) {
	switch event {
	case stateEventDiscordanceChange:
		if m.state.Discordance() < DefaultMaxDiscordance {
			m.mu.Lock()
			m.needsMoreSync = true
			m.mu.Unlock()
		}
	case stateEventEnterOutOfSync:
		m.notifyEvent(EventEnterOutOfSync, nil)
	case stateEventExitOutOfSync:
		m.notifyEvent(EventExitOutOfSync, nil)
	}
}

// ResolveOutOfSync downloads the complete remote payload set, reconciles it
// against local master state through the out-of-sync delta, persists and
// maps the result, then runs one more sync with integrity checking forced
// on to confirm convergence.
func (m *Manager) ResolveOutOfSync(ctx context.Context) error {
	m.log.Info().Msg("resolving out-of-sync state")

	payloads, err := DownloadAllPayloads(ctx, m.transport, m.encryption, m.downloadPageLimit)
	if err != nil {
		m.reportFailure(err)
		return err
	}

	delta := deltas.NewOutOfSyncDelta(
		m.items.MasterCollection(),
		models.NewCollection(models.SourceRemoteRetrieved, payloads...),
	).WithUUIDGenerator(m.generateUUID)

	collection := delta.ResultingCollection()
	if err := m.items.MapCollectionToLocalItems(ctx, collection); err != nil {
		return fmt.Errorf("map out-of-sync collection: %w", err)
	}
	if err := m.persistPayloads(ctx, collection.All()); err != nil {
		return fmt.Errorf("persist out-of-sync collection: %w", err)
	}

	return m.Sync(ctx, SyncOptions{CheckIntegrity: true})
}

// GetDatabasePayloads reads all raw payloads from local storage.
func (m *Manager) GetDatabasePayloads(ctx context.Context) ([]models.Payload, error) {
	return m.storage.GetAllRawPayloads(ctx)
}

// LoadDatabasePayloads decrypts and maps the raw payload set in batches,
// priority content types first, emitting incremental-load events so an
// interface can update between batches. Sync calls made before this
// completes are coalesced, not executed.
func (m *Manager) LoadDatabasePayloads(ctx context.Context, raw []models.Payload) error {
	m.mu.Lock()
	if m.databaseLoaded {
		m.mu.Unlock()
		return ErrDatabaseAlreadyLoaded
	}
	m.mu.Unlock()

	payloads := sortPayloadsByRecentAndContentPriority(raw, m.loadPriority)
	total := len(payloads)

	for start := 0; start < total; start += m.loadBatchSize {
		batch := payloads[start:min(start+m.loadBatchSize, total)]
		decrypted, err := m.encryption.DecryptPayloads(ctx, batch)
		if err != nil {
			return fmt.Errorf("decrypt database batch: %w", err)
		}
		collection := models.NewCollection(models.SourceLocalRetrieved, decrypted...)
		if err := m.items.MapCollectionToLocalItems(ctx, collection); err != nil {
			return fmt.Errorf("map database batch: %w", err)
		}
		m.status.SetLocalDataLoadStatus(start+len(batch), total)
		m.notifyEvent(EventLocalDataIncrementalLoad, nil)
	}

	m.mu.Lock()
	m.databaseLoaded = true
	m.mu.Unlock()
	m.notifyEvent(EventLocalDataLoaded, nil)
	return nil
}

// MarkAllItemsDirty flags every live item as needing sync and persists the
// flagged set. With alternateUUIDs set (used when merging a local account
// into a remote one), every item is first moved to a new uuid so same-uuid
// server data cannot be overwritten; the moves force duplicates instead.
func (m *Manager) MarkAllItemsDirty(ctx context.Context, alternateUUIDs bool) error {
	if alternateUUIDs {
		snapshot := m.items.MasterCollection().All()
		for _, item := range snapshot {
			master := m.items.MasterCollection()
			current, ok := master.PayloadFor(item.UUID)
			if !ok {
				continue
			}
			results := deltas.PayloadsByAlternatingUUID(current, master, m.generateUUID)
			collection := models.NewCollection(models.SourceLocalDirtied, results...)
			if err := m.items.MapCollectionToLocalItems(ctx, collection); err != nil {
				return fmt.Errorf("alternate uuid for %s: %w", item.UUID, err)
			}
		}
	}

	now := m.now()
	items := m.items.MasterCollection().All()
	flagged := make([]models.Payload, 0, len(items))
	for _, item := range items {
		flagged = append(flagged, item.WithDirty(true).WithDirtiedAt(now))
	}
	if len(flagged) == 0 {
		return nil
	}
	collection := models.NewCollection(models.SourceLocalDirtied, flagged...)
	if err := m.items.MapCollectionToLocalItems(ctx, collection); err != nil {
		return fmt.Errorf("map dirtied items: %w", err)
	}
	return m.persistPayloads(ctx, flagged)
}

// HandleSignOut resets sync state, drops queued requests, and clears the
// persisted sync position tokens together.
func (m *Manager) HandleSignOut(ctx context.Context) error {
	m.state.Reset()
	m.status.Reset()

	m.mu.Lock()
	resolvers := m.resolveQueue
	m.resolveQueue = nil
	spawns := m.spawnQueue
	m.spawnQueue = nil
	m.syncToken = ""
	m.syncTokenLoaded = true
	m.cursorToken = ""
	m.cursorLoaded = true
	m.mu.Unlock()

	for _, done := range resolvers {
		done <- nil
	}
	for _, req := range spawns {
		req.done <- nil
	}

	if err := m.storage.RemoveValue(ctx, StorageKeyLastSyncToken); err != nil {
		return err
	}
	return m.storage.RemoveValue(ctx, StorageKeyPaginationToken)
}

func (m *Manager) getLastSyncToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.syncTokenLoaded {
		token := m.syncToken
		m.mu.Unlock()
		return token, nil
	}
	m.mu.Unlock()

	token, err := m.storage.GetValue(ctx, StorageKeyLastSyncToken)
	if err != nil {
		return "", fmt.Errorf("read last sync token: %w", err)
	}
	m.mu.Lock()
	m.syncToken = token
	m.syncTokenLoaded = true
	m.mu.Unlock()
	return token, nil
}

func (m *Manager) getPaginationToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.cursorLoaded {
		token := m.cursorToken
		m.mu.Unlock()
		return token, nil
	}
	m.mu.Unlock()

	token, err := m.storage.GetValue(ctx, StorageKeyPaginationToken)
	if err != nil {
		return "", fmt.Errorf("read pagination token: %w", err)
	}
	m.mu.Lock()
	m.cursorToken = token
	m.cursorLoaded = true
	m.mu.Unlock()
	return token, nil
}

func (m *Manager) setLastSyncToken(ctx context.Context, token string) error {
	m.mu.Lock()
	m.syncToken = token
	m.syncTokenLoaded = true
	m.mu.Unlock()
	return m.storage.SetValue(ctx, StorageKeyLastSyncToken, token)
}

func (m *Manager) setPaginationToken(ctx context.Context, token string) error {
	m.mu.Lock()
	m.cursorToken = token
	m.cursorLoaded = true
	m.mu.Unlock()
	if token == "" {
		return m.storage.RemoveValue(ctx, StorageKeyPaginationToken)
	}
	return m.storage.SetValue(ctx, StorageKeyPaginationToken, token)
}

// sortPayloadsByRecentAndContentPriority orders payloads for database load:
// priority content types first (in priority order), then most recently
// updated first. The sort is stable with respect to equal keys.
func sortPayloadsByRecentAndContentPriority(payloads []models.Payload, priority []models.ContentType) []models.Payload {
	rank := make(map[models.ContentType]int, len(priority))
	for i, contentType := range priority {
		rank[contentType] = i
	}
	rankOf := func(p models.Payload) int {
		if r, ok := rank[p.ContentType]; ok {
			return r
		}
		return len(priority)
	}

	sorted := append([]models.Payload(nil), payloads...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := rankOf(sorted[i]), rankOf(sorted[j])
		if ri != rj {
			return ri < rj
		}
		return sorted[i].UpdatedAt.After(sorted[j].UpdatedAt)
	})
	return sorted
}
