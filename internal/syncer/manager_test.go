package syncer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/leaflock/leaflock/internal/items"
	"github.com/leaflock/leaflock/internal/logger"
	"github.com/leaflock/leaflock/internal/mock"
	"github.com/leaflock/leaflock/internal/syncer"
	"github.com/leaflock/leaflock/models"
)

// harness wires a manager to passthrough encryption, an in-memory storage
// stub, and a real item manager. Transport expectations are set per test.
type harness struct {
	manager   *syncer.Manager
	items     *items.Manager
	transport *mock.MockTransportService

	mu          sync.Mutex
	savedValues map[string]string
	savedBatch  [][]models.Payload
}

func newHarness(t *testing.T, ctrl *gomock.Controller, online bool) *harness {
	t.Helper()

	h := &harness{savedValues: map[string]string{}}

	enc := mock.NewMockEncryptionService(ctrl)
	enc.EXPECT().
		EncryptPayloads(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payloads []models.Payload, _ syncer.EncryptionIntent) ([]models.Payload, error) {
			return payloads, nil
		}).
		AnyTimes()
	enc.EXPECT().
		DecryptPayloads(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payloads []models.Payload) ([]models.Payload, error) {
			return payloads, nil
		}).
		AnyTimes()
	enc.EXPECT().
		ComputeIntegrityHash(gomock.Any()).
		Return("local-hash", nil).
		AnyTimes()

	storage := mock.NewMockStorageService(ctrl)
	storage.EXPECT().
		SavePayloads(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payloads []models.Payload) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.savedBatch = append(h.savedBatch, payloads)
			return nil
		}).
		AnyTimes()
	storage.EXPECT().
		GetValue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) (string, error) {
			h.mu.Lock()
			defer h.mu.Unlock()
			return h.savedValues[key], nil
		}).
		AnyTimes()
	storage.EXPECT().
		SetValue(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key, value string) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.savedValues[key] = value
			return nil
		}).
		AnyTimes()
	storage.EXPECT().
		RemoveValue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.savedValues, key)
			return nil
		}).
		AnyTimes()
	storage.EXPECT().GetAllRawPayloads(gomock.Any()).Return(nil, nil).AnyTimes()

	session := mock.NewMockSessionService(ctrl)
	session.EXPECT().Online().Return(online).AnyTimes()

	h.transport = mock.NewMockTransportService(ctrl)
	h.items = items.NewManager()
	h.manager = syncer.NewManager(enc, storage, h.items, session, h.transport, logger.Nop())

	require.NoError(t, h.manager.LoadDatabasePayloads(context.Background(), nil))
	return h
}

func (h *harness) storedValue(key string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.savedValues[key]
	return v, ok
}

func (h *harness) collectEvents() *eventRecorder {
	rec := &eventRecorder{}
	h.manager.AddEventObserver(rec.record)
	return rec
}

type eventRecorder struct {
	mu     sync.Mutex
	events []syncer.Event
}

func (r *eventRecorder) record(event syncer.Event, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) count(event syncer.Event) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func savedItemFor(p models.Payload, at time.Time) models.Payload {
	return models.Payload{
		UUID:        p.UUID,
		ContentType: p.ContentType,
		Content:     p.Content,
		UpdatedAt:   at,
	}
}

func TestSync_LockedIsSilentNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)

	h.items.CreateItem(models.ContentTypeNote, models.Content{Fields: map[string]any{"title": "a"}})
	h.manager.LockSyncing()

	// No transport expectation: any request would fail the controller.
	require.NoError(t, h.manager.Sync(context.Background(), syncer.SyncOptions{}))

	h.manager.UnlockSyncing()
	assert.Len(t, h.items.DirtyItems(), 1, "locked sync must not consume dirty state")
}

func TestSync_OfflineAcknowledgesLocally(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, false)
	rec := h.collectEvents()

	created := h.items.CreateItem(models.ContentTypeNote, models.Content{Fields: map[string]any{"title": "offline"}})

	require.NoError(t, h.manager.Sync(context.Background(), syncer.SyncOptions{}))

	live, ok := h.items.ItemFor(created.UUID)
	require.True(t, ok)
	assert.False(t, live.Dirty, "offline acknowledgement clears the dirty flag")
	assert.Equal(t, 1, rec.count(syncer.EventFullSyncCompleted))

	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(t, h.savedBatch, "the batch must be persisted")
}

func TestSync_OnlineRoundTripPersistsTokenAndClearsDirty(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)
	rec := h.collectEvents()

	created := h.items.CreateItem(models.ContentTypeNote, models.Content{Fields: map[string]any{"title": "online"}})
	savedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	h.transport.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
			require.Len(t, req.Items, 1)
			assert.Equal(t, created.UUID, req.Items[0].UUID)
			return models.SyncResponse{
				SavedItems: []models.Payload{savedItemFor(created, savedAt)},
				SyncToken:  "token-1",
			}, nil
		}).
		Times(1)

	require.NoError(t, h.manager.Sync(context.Background(), syncer.SyncOptions{}))

	live, ok := h.items.ItemFor(created.UUID)
	require.True(t, ok)
	assert.False(t, live.Dirty)
	assert.Equal(t, savedAt, live.UpdatedAt)

	token, _ := h.storedValue(syncer.StorageKeyLastSyncToken)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, 1, rec.count(syncer.EventSingleSyncCompleted))
	assert.Equal(t, 1, rec.count(syncer.EventFullSyncCompleted))
	assert.NoError(t, h.manager.Status().Error())
}

func TestSync_PaginationFollowsCursorAutomatically(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)

	first := h.transport.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
			assert.Empty(t, req.CursorToken)
			return models.SyncResponse{SyncToken: "t-1", CursorToken: "cursor-1"}, nil
		})
	h.transport.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		After(first).
		DoAndReturn(func(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
			assert.Equal(t, "cursor-1", req.CursorToken)
			assert.Equal(t, "t-1", req.SyncToken)
			return models.SyncResponse{SyncToken: "t-2"}, nil
		})

	require.NoError(t, h.manager.Sync(context.Background(), syncer.SyncOptions{}))

	_, hasCursor := h.storedValue(syncer.StorageKeyPaginationToken)
	assert.False(t, hasCursor, "cursor token is cleared once the walk completes")
	token, _ := h.storedValue(syncer.StorageKeyLastSyncToken)
	assert.Equal(t, "t-2", token)
}

func TestSync_ResolveOnNextWaitersShareOneRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	h.transport.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.SyncRequest) (models.SyncResponse, error) {
			mu.Lock()
			calls++
			blocking := calls == 1
			mu.Unlock()
			if blocking {
				close(entered)
				<-release
			}
			return models.SyncResponse{SyncToken: "t"}, nil
		}).
		Times(2)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = h.manager.Sync(context.Background(), syncer.SyncOptions{})
	}()
	<-entered

	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.manager.Sync(context.Background(), syncer.SyncOptions{Strategy: syncer.TimingStrategyResolveOnNext})
		}()
	}
	// Give the waiters time to enqueue before the in-flight cycle finishes.
	time.Sleep(250 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls, "three coalesced waiters share a single extra round-trip")
}

func TestSync_ForceSpawnNewGetsDedicatedRoundTrips(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	h.transport.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.SyncRequest) (models.SyncResponse, error) {
			mu.Lock()
			calls++
			blocking := calls == 1
			mu.Unlock()
			if blocking {
				close(entered)
				<-release
			}
			return models.SyncResponse{SyncToken: "t"}, nil
		}).
		Times(3)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = h.manager.Sync(context.Background(), syncer.SyncOptions{})
	}()
	<-entered

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.manager.Sync(context.Background(), syncer.SyncOptions{Strategy: syncer.TimingStrategyForceSpawnNew})
		}()
	}
	time.Sleep(250 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls, "each spawned request gets its own round-trip")
}

func TestSync_ServerErrorIsReportedNotReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)
	rec := h.collectEvents()

	h.transport.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		Return(models.SyncResponse{Status: 500, ErrorMessage: "database unavailable"}, nil).
		Times(1)

	require.NoError(t, h.manager.Sync(context.Background(), syncer.SyncOptions{}))

	require.Error(t, h.manager.Status().Error())
	assert.Equal(t, 1, rec.count(syncer.EventSyncError))
	assert.Equal(t, 0, rec.count(syncer.EventInvalidSession))

	_, hasToken := h.storedValue(syncer.StorageKeyLastSyncToken)
	assert.False(t, hasToken, "sync position must not advance on error")
}

func TestSync_InvalidSessionEmitsEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)
	rec := h.collectEvents()

	h.transport.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		Return(models.SyncResponse{Status: 401, ErrorMessage: "invalid session"}, nil).
		Times(1)

	require.NoError(t, h.manager.Sync(context.Background(), syncer.SyncOptions{}))

	assert.Equal(t, 1, rec.count(syncer.EventInvalidSession))
	assert.Equal(t, 1, rec.count(syncer.EventSyncError))
}

func TestSync_TransportFailureIsReportedNotReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)
	rec := h.collectEvents()

	h.transport.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		Return(models.SyncResponse{}, assert.AnError).
		Times(1)

	require.NoError(t, h.manager.Sync(context.Background(), syncer.SyncOptions{}))
	require.Error(t, h.manager.Status().Error())
	assert.Equal(t, 1, rec.count(syncer.EventSyncError))
}

func TestSync_SustainedDiscordanceEntersOutOfSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)
	rec := h.collectEvents()

	h.transport.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
			resp := models.SyncResponse{SyncToken: "t"}
			if req.ComputeIntegrity {
				resp.IntegrityHash = "remote-hash" // never matches local-hash
			}
			return resp, nil
		}).
		AnyTimes()

	for i := 0; i < syncer.DefaultMaxDiscordance; i++ {
		require.NoError(t, h.manager.Sync(context.Background(), syncer.SyncOptions{CheckIntegrity: true}))
	}

	assert.True(t, h.manager.IsOutOfSync())
	assert.Equal(t, 1, rec.count(syncer.EventEnterOutOfSync))
}

func TestResolveOutOfSync_MergesRemoteTruthAndRecovers(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)
	rec := h.collectEvents()

	// Live item whose content diverged from the server without being dirty.
	local := models.Payload{
		UUID:        "note-1",
		ContentType: models.ContentTypeNote,
		Content:     models.Content{Fields: map[string]any{"title": "local truth"}},
	}
	require.NoError(t, h.items.MapCollectionToLocalItems(context.Background(),
		models.NewCollection(models.SourceLocalRetrieved, local)))

	remote := models.Payload{
		UUID:        "note-1",
		ContentType: models.ContentTypeNote,
		Content:     models.Content{Fields: map[string]any{"title": "remote truth"}},
		UpdatedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	h.transport.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req models.SyncRequest) (models.SyncResponse, error) {
			if req.ComputeIntegrity {
				// The confirming sync agrees with the client again.
				return models.SyncResponse{SyncToken: "t", IntegrityHash: "local-hash"}, nil
			}
			// Stateless full download: one page, no cursor.
			return models.SyncResponse{RetrievedItems: []models.Payload{remote}}, nil
		}).
		AnyTimes()

	require.NoError(t, h.manager.ResolveOutOfSync(context.Background()))

	all := h.items.MasterCollection().All()
	require.Len(t, all, 2, "remote truth plus the preserved divergent local copy")

	live, ok := h.items.ItemFor("note-1")
	require.True(t, ok)
	assert.Equal(t, "remote truth", live.Content.Fields["title"])

	var duplicate *models.Payload
	for i := range all {
		if all[i].UUID != "note-1" {
			duplicate = &all[i]
		}
	}
	require.NotNil(t, duplicate)
	assert.Equal(t, "local truth", duplicate.Content.Fields["title"])
	assert.Empty(t, duplicate.Content.ConflictOf, "a preserved edit is not a rendered conflict")

	assert.False(t, h.manager.IsOutOfSync())
	assert.GreaterOrEqual(t, rec.count(syncer.EventFullSyncCompleted), 1)
}

func TestLoadDatabasePayloads_PriorityTypesMapFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)

	// The harness already loaded an empty database; a second load must be
	// rejected.
	assert.ErrorIs(t,
		h.manager.LoadDatabasePayloads(context.Background(), nil),
		syncer.ErrDatabaseAlreadyLoaded)
}

func TestLoadDatabasePayloads_OrderAndEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := freshUnloadedHarness(t, ctrl)
	rec := h.collectEvents()

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	raw := []models.Payload{
		{UUID: "n-old", ContentType: models.ContentTypeNote, UpdatedAt: older},
		{UUID: "n-new", ContentType: models.ContentTypeNote, UpdatedAt: newer},
		{UUID: "k-1", ContentType: models.ContentTypeItemsKey, UpdatedAt: older},
	}

	require.NoError(t, h.manager.LoadDatabasePayloads(context.Background(), raw))

	all := h.items.MasterCollection().All()
	require.Len(t, all, 3)
	assert.Equal(t, "k-1", all[0].UUID, "items keys load before everything else")
	assert.Equal(t, "n-new", all[1].UUID, "recent payloads map before older ones")
	assert.Equal(t, "n-old", all[2].UUID)

	assert.Equal(t, 1, rec.count(syncer.EventLocalDataLoaded))
	assert.GreaterOrEqual(t, rec.count(syncer.EventLocalDataIncrementalLoad), 1)
}

// freshUnloadedHarness builds a harness whose manager has not loaded the
// database yet.
func freshUnloadedHarness(t *testing.T, ctrl *gomock.Controller) *harness {
	t.Helper()

	h := &harness{savedValues: map[string]string{}}

	enc := mock.NewMockEncryptionService(ctrl)
	enc.EXPECT().
		DecryptPayloads(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payloads []models.Payload) ([]models.Payload, error) {
			return payloads, nil
		}).
		AnyTimes()
	enc.EXPECT().
		EncryptPayloads(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, payloads []models.Payload, _ syncer.EncryptionIntent) ([]models.Payload, error) {
			return payloads, nil
		}).
		AnyTimes()
	enc.EXPECT().ComputeIntegrityHash(gomock.Any()).Return("local-hash", nil).AnyTimes()

	storage := mock.NewMockStorageService(ctrl)
	storage.EXPECT().SavePayloads(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	storage.EXPECT().GetValue(gomock.Any(), gomock.Any()).Return("", nil).AnyTimes()
	storage.EXPECT().SetValue(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	storage.EXPECT().RemoveValue(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	storage.EXPECT().GetAllRawPayloads(gomock.Any()).Return(nil, nil).AnyTimes()

	session := mock.NewMockSessionService(ctrl)
	session.EXPECT().Online().Return(true).AnyTimes()

	h.transport = mock.NewMockTransportService(ctrl)
	h.items = items.NewManager()
	h.manager = syncer.NewManager(enc, storage, h.items, session, h.transport, logger.Nop())
	return h
}

func TestMarkAllItemsDirty_FlagsEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)

	clean := models.Payload{UUID: "n-1", ContentType: models.ContentTypeNote,
		Content: models.Content{Fields: map[string]any{"title": "a"}}}
	require.NoError(t, h.items.MapCollectionToLocalItems(context.Background(),
		models.NewCollection(models.SourceLocalRetrieved, clean)))
	require.Empty(t, h.items.DirtyItems())

	require.NoError(t, h.manager.MarkAllItemsDirty(context.Background(), false))

	assert.Len(t, h.items.DirtyItems(), 1)
}

func TestMarkAllItemsDirty_AlternateUUIDsMoveIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)

	clean := models.Payload{UUID: "n-1", ContentType: models.ContentTypeNote,
		Content: models.Content{Fields: map[string]any{"title": "a"}}}
	require.NoError(t, h.items.MapCollectionToLocalItems(context.Background(),
		models.NewCollection(models.SourceLocalRetrieved, clean)))

	require.NoError(t, h.manager.MarkAllItemsDirty(context.Background(), true))

	all := h.items.MasterCollection().All()
	require.Len(t, all, 1, "the retired original is removed, only the moved copy stays")
	assert.NotEqual(t, "n-1", all[0].UUID)
	assert.True(t, all[0].Dirty)
	assert.Equal(t, "a", all[0].Content.Fields["title"])
}

func TestHandleSignOut_ClearsPositionAndState(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := newHarness(t, ctrl, true)

	h.transport.EXPECT().
		Sync(gomock.Any(), gomock.Any()).
		Return(models.SyncResponse{SyncToken: "t-1"}, nil).
		Times(1)
	require.NoError(t, h.manager.Sync(context.Background(), syncer.SyncOptions{}))
	_, hasToken := h.storedValue(syncer.StorageKeyLastSyncToken)
	require.True(t, hasToken)

	require.NoError(t, h.manager.HandleSignOut(context.Background()))

	_, hasToken = h.storedValue(syncer.StorageKeyLastSyncToken)
	assert.False(t, hasToken)
	assert.False(t, h.manager.IsOutOfSync())
	assert.NoError(t, h.manager.Status().Error())
}
