package memory_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/abdidvp/hexagonal/internal/adapters/outbound/memory"
	"github.com/abdidvp/hexagonal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newUser(t *testing.T, email, name string) domain.User {
	t.Helper()
	e, err := domain.NewEmail(email)
	require.NoError(t, err)
	return domain.NewUser(e, name)
}

func TestRepository_SaveThenFindByID(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	u := newUser(t, "a@b.com", "Alice")

	require.NoError(t, repo.Save(ctx, u))
	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u, *got)
}

func TestRepository_FindByIDAbsent(t *testing.T) {
	got, err := memory.New().FindByID(context.Background(), domain.NewUserID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_SaveIsUpsert(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	u := newUser(t, "a@b.com", "Alice")
	require.NoError(t, repo.Save(ctx, u))

	u.UpdateName("Alicia")
	require.NoError(t, repo.Save(ctx, u))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Alicia", all[0].Name)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	u := newUser(t, "a@b.com", "Alice")
	require.NoError(t, repo.Save(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	got.Name = "Mallory"

	again, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Name)
}

func TestRepository_FindByEmail(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	u := newUser(t, "a@b.com", "Alice")
	require.NoError(t, repo.Save(ctx, u))

	got, err := repo.FindByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	other, _ := domain.NewEmail("x@y.com")
	missing, err := repo.FindByEmail(ctx, other)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_AllowsDuplicateEmailsWhenCalledDirectly(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	require.NoError(t, repo.Save(ctx, newUser(t, "a@b.com", "One")))
	require.NoError(t, repo.Save(ctx, newUser(t, "a@b.com", "Two")))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	u := newUser(t, "a@b.com", "Alice")
	require.NoError(t, repo.Save(ctx, u))

	for range 2 {
		require.NoError(t, repo.Delete(ctx, u.ID))
		got, err := repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestRepository_ConcurrentSaves(t *testing.T) {
	const n = 200
	ctx := context.Background()
	repo := memory.New()

	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			e, err := domain.NewEmail(fmt.Sprintf("user%d@example.com", i))
			if err != nil {
				return err
			}
			if err := repo.Save(ctx, domain.NewUser(e, "u")); err != nil {
				return err
			}
			_, err = repo.List(ctx)
			return err
		})
	}
	require.NoError(t, g.Wait())

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)

	seen := make(map[domain.UserID]bool, n)
	for _, u := range all {
		assert.False(t, seen[u.ID], "duplicate id %s", u.ID)
		seen[u.ID] = true
	}
}
