package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/services"
)

// setupLeadStore creates an in-memory lead store for testing.
func setupLeadStore(t *testing.T) *LeadStore {
	t.Helper()
	store, err := NewLeadStore()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func testLead(id, name string) domain.Lead {
	l := domain.NewLead(id)
	l.Set(domain.FieldName, name)
	l.Set(domain.FieldPhone, "555-"+id)
	return l
}

func TestNewStore_AppliesMigrations(t *testing.T) {
	store, err := NewStore()
	require.NoError(t, err)
	defer store.Close()

	version, err := store.Version()
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_PrivateDatabases(t *testing.T) {
	a := setupLeadStore(t)
	b := setupLeadStore(t)
	ctx := context.Background()

	require.NoError(t, a.Append(ctx, []domain.Lead{testLead("1", "A")}))

	n, err := b.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLeadStore_AppendAndSnapshot(t *testing.T) {
	store := setupLeadStore(t)
	ctx := context.Background()

	first := testLead("1", "Joe's Diner")
	first.Set(domain.Field("opening_hours"), "7am")
	require.NoError(t, store.Append(ctx, []domain.Lead{first, testLead("2", "Ace")}))
	require.NoError(t, store.Append(ctx, []domain.Lead{testLead("3", "Blue Fin")}))

	leads, err := store.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Joe's Diner", "Ace", "Blue Fin"}, domain.LeadNames(leads))
	assert.Equal(t, first, leads[0])

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestLeadStore_AppendEmpty(t *testing.T) {
	store := setupLeadStore(t)

	require.NoError(t, store.Append(context.Background(), nil))

	n, err := store.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLeadStore_AppendIsAtomic(t *testing.T) {
	store := setupLeadStore(t)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, []domain.Lead{testLead("1", "A")}))

	// The duplicate ID fails the second insert, so the whole batch rolls back.
	err := store.Append(ctx, []domain.Lead{testLead("2", "B"), testLead("1", "C")})
	require.Error(t, err)

	leads, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, domain.LeadNames(leads))
}

func TestLeadStore_Reset(t *testing.T) {
	store := setupLeadStore(t)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, []domain.Lead{testLead("1", "A"), testLead("2", "B")}))

	require.NoError(t, store.Reset(ctx))

	leads, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, leads)

	// Insertion order restarts after a reset.
	require.NoError(t, store.Append(ctx, []domain.Lead{testLead("3", "C")}))
	leads, err = store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, domain.LeadNames(leads))
}

func TestLeadStore_DerivedIDFieldRoundTrip(t *testing.T) {
	store := setupLeadStore(t)
	ctx := context.Background()

	table := services.ParseLeadTable("| ID | Name |\n|---|---|\n| 42 | Joe's Diner |")
	require.Len(t, table.Leads, 1)
	require.NoError(t, store.Append(ctx, table.Leads))

	leads, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, table.Leads[0].ID, leads[0].ID)
	assert.Equal(t, map[domain.Field]string{"id": "42", domain.FieldName: "Joe's Diner"}, leads[0].Fields)
}

func TestLeadStore_Concurrency(t *testing.T) {
	store := setupLeadStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			batch := []domain.Lead{
				testLead(fmt.Sprintf("%d-a", i), "a"),
				testLead(fmt.Sprintf("%d-b", i), "b"),
			}
			assert.NoError(t, store.Append(ctx, batch))
		}(i)
		go func() {
			defer wg.Done()
			leads, err := store.Snapshot(ctx)
			assert.NoError(t, err)
			assert.Zero(t, len(leads)%2)
		}()
	}
	wg.Wait()

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestLeadStore_ClosedStoreErrors(t *testing.T) {
	store, err := NewLeadStore()
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Snapshot(context.Background())
	assert.Error(t, err)
}

func TestNewLeadStoreFactory(t *testing.T) {
	factory := NewLeadStoreFactory()

	store, err := factory()
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
