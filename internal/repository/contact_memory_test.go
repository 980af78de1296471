package repository

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/Payphone-Digital/addressbook/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContact(first string) model.Contact {
	return model.Contact{
		FirstName: first,
		LastName:  "Doe",
		Email:     first + "@example.com",
		Phone:     "0123456789",
		Address:   "1 Main St",
	}
}

func TestMemoryContactRepository_CRUD(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx := context.Background()

	added, err := repo.Add(ctx, sampleContact("jane"))
	require.NoError(t, err)
	assert.Equal(t, uint(1), added.ID)

	got, err := repo.GetByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, *got)

	updated := sampleContact("janet")
	ok, err := repo.Update(ctx, added.ID, updated)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = repo.GetByID(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "janet", got.FirstName)
	assert.Equal(t, added.ID, got.ID)

	ok, err = repo.Delete(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = repo.GetByID(ctx, added.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryContactRepository_MissingID(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := repo.Update(ctx, 42, sampleContact("x"))
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, 42)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryContactRepository_OrderAndIDsNotReused(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx := context.Background()

	a, _ := repo.Add(ctx, sampleContact("a"))
	b, _ := repo.Add(ctx, sampleContact("b"))
	_, _ = repo.Delete(ctx, b.ID)
	c, _ := repo.Add(ctx, sampleContact("c"))

	assert.Equal(t, uint(3), c.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, c.ID, all[1].ID)
}

func TestMemoryContactRepository_SnapshotIsCopy(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx := context.Background()
	_, _ = repo.Add(ctx, sampleContact("a"))

	all, _ := repo.GetAll(ctx)
	all[0].FirstName = "mutated"

	got, _ := repo.GetByID(ctx, 1)
	assert.Equal(t, "a", got.FirstName)
}

func TestMemoryContactRepository_ConcurrentAdds(t *testing.T) {
	repo := NewMemoryContactRepository()
	ctx := context.Background()
	const n = 200

	ids := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := repo.Add(ctx, sampleContact("c"))
			assert.NoError(t, err)
			ids[i] = int(c.ID)
		}(i)
	}
	wg.Wait()

	sort.Ints(ids)
	for i, id := range ids {
		assert.Equal(t, i+1, id)
	}
}
