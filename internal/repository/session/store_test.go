package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/docsense/internal/domain"
	"github.com/kailas-cloud/docsense/internal/domain/category"
	"github.com/kailas-cloud/docsense/internal/domain/document"
)

func mustDoc(t *testing.T, id, owner string, uploadedAt time.Time) document.Document {
	t.Helper()
	d, err := document.New(id, owner, "f.txt", "content of "+id, category.General, 0.5, uploadedAt)
	require.NoError(t, err)
	return d
}

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	store := New()

	doc := mustDoc(t, "a1b2c3d4", "15551234567", time.Now())
	require.NoError(t, store.Put(ctx, doc))

	got, err := store.Get(ctx, "15551234567", "a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, doc.RawText(), got.RawText())
}

func TestGetUnknown(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.Get(ctx, "15551234567", "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	require.NoError(t, store.Put(ctx, mustDoc(t, "a1b2c3d4", "15551234567", time.Now())))
	_, err = store.Get(ctx, "15551234567", "missing")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Put(ctx, mustDoc(t, "a1b2c3d4", "15551234567", time.Now())))
	err := store.Put(ctx, mustDoc(t, "a1b2c3d4", "15551234567", time.Now()))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSessionIsolation(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Put(ctx, mustDoc(t, "a1b2c3d4", "15551234567", time.Now())))

	docs, err := store.List(ctx, "15557654321")
	require.NoError(t, err)
	assert.Empty(t, docs, "one user's upload visible in another user's session")
}

func TestListOrderedByUploadTime(t *testing.T) {
	ctx := context.Background()
	store := New()
	base := time.Now()

	require.NoError(t, store.Put(ctx, mustDoc(t, "ccc", "15551234567", base.Add(2*time.Second))))
	require.NoError(t, store.Put(ctx, mustDoc(t, "aaa", "15551234567", base)))
	require.NoError(t, store.Put(ctx, mustDoc(t, "bbb", "15551234567", base.Add(time.Second))))

	docs, err := store.List(ctx, "15551234567")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "aaa", docs[0].ID())
	assert.Equal(t, "bbb", docs[1].ID())
	assert.Equal(t, "ccc", docs[2].ID())
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Put(ctx, mustDoc(t, "a1b2c3d4", "15551234567", time.Now())))
	require.NoError(t, store.Clear(ctx, "15551234567"))

	docs, err := store.List(ctx, "15551234567")
	require.NoError(t, err)
	assert.Empty(t, docs)

	// Clearing again is a no-op.
	require.NoError(t, store.Clear(ctx, "15551234567"))
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	store := New()

	doc := mustDoc(t, "a1b2c3d4", "15551234567", time.Now())
	require.NoError(t, store.Put(ctx, doc))

	reclassified := doc.WithClassification(category.Code, 0.9)
	require.NoError(t, store.Replace(ctx, reclassified))

	got, err := store.Get(ctx, "15551234567", "a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, category.Code, got.Category())

	missing := mustDoc(t, "nope", "15551234567", time.Now())
	assert.ErrorIs(t, store.Replace(ctx, missing), domain.ErrDocumentNotFound)
}

func TestEvictOldest(t *testing.T) {
	ctx := context.Background()
	store := New().WithLimit(2, EvictOldest{})
	base := time.Now()

	require.NoError(t, store.Put(ctx, mustDoc(t, "aaa", "15551234567", base)))
	require.NoError(t, store.Put(ctx, mustDoc(t, "bbb", "15551234567", base.Add(time.Second))))
	require.NoError(t, store.Put(ctx, mustDoc(t, "ccc", "15551234567", base.Add(2*time.Second))))

	docs, err := store.List(ctx, "15551234567")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "bbb", docs[0].ID())
	assert.Equal(t, "ccc", docs[1].ID())
}

func TestRejectNew(t *testing.T) {
	ctx := context.Background()
	store := New().WithLimit(1, RejectNew{})

	require.NoError(t, store.Put(ctx, mustDoc(t, "aaa", "15551234567", time.Now())))
	err := store.Put(ctx, mustDoc(t, "bbb", "15551234567", time.Now()))
	assert.ErrorIs(t, err, domain.ErrSessionFull)
}

func TestConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	store := New()

	const users = 8
	const docsPerUser = 25

	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		wg.Add(1)
		go func(u int) {
			defer wg.Done()
			owner := fmt.Sprintf("1555000%04d", u)
			for i := 0; i < docsPerUser; i++ {
				id := fmt.Sprintf("doc%04d", i)
				if err := store.Put(ctx, mustDocConcurrent(owner, id)); err != nil {
					t.Errorf("Put(%s, %s) error = %v", owner, id, err)
					return
				}
				if _, err := store.Get(ctx, owner, id); err != nil {
					t.Errorf("Get(%s, %s) error = %v", owner, id, err)
					return
				}
			}
		}(u)
	}
	wg.Wait()

	for u := 0; u < users; u++ {
		owner := fmt.Sprintf("1555000%04d", u)
		docs, err := store.List(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, docs, docsPerUser)
	}
}

func mustDocConcurrent(owner, id string) document.Document {
	d, err := document.New(id, owner, "", "text", category.General, 0.5, time.Now())
	if err != nil {
		panic(err)
	}
	return d
}

// gatedPolicy parks inside Victim until released, so a test can hold a
// partition's write lock open mid-upload.
type gatedPolicy struct {
	entered chan struct{}
	release chan struct{}
}

func (g gatedPolicy) Victim(docs []document.Document) string {
	close(g.entered)
	<-g.release
	if len(docs) == 0 {
		return ""
	}
	return docs[0].ID()
}

func TestClearWaitsForInFlightUpload(t *testing.T) {
	ctx := context.Background()
	const owner = "15551234567"

	entered := make(chan struct{})
	release := make(chan struct{})
	store := New().WithLimit(1, gatedPolicy{entered: entered, release: release})

	require.NoError(t, store.Put(ctx, mustDoc(t, "aaaa1111", owner, time.Now())))

	second := mustDoc(t, "bbbb2222", owner, time.Now())
	putDone := make(chan error, 1)
	go func() {
		putDone <- store.Put(ctx, second)
	}()
	<-entered

	clearDone := make(chan error, 1)
	go func() {
		clearDone <- store.Clear(ctx, owner)
	}()

	select {
	case <-clearDone:
		t.Fatal("Clear returned while an upload held the partition")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-putDone)
	require.NoError(t, <-clearDone)

	// Upload drained before the clear, so the session ends empty.
	docs, err := store.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestPutAfterClearLandsInFreshPartition(t *testing.T) {
	ctx := context.Background()
	const owner = "15551234567"
	store := New()

	require.NoError(t, store.Put(ctx, mustDoc(t, "aaaa1111", owner, time.Now())))
	require.NoError(t, store.Clear(ctx, owner))
	require.NoError(t, store.Put(ctx, mustDoc(t, "cccc3333", owner, time.Now())))

	docs, err := store.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "cccc3333", docs[0].ID())
}
