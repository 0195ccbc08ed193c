package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/review-harvester/internal/entity"
	"github.com/user/review-harvester/internal/repository"
)

func TestCatalogRepo_LoadMissing(t *testing.T) {
	repo := NewCatalogRepo(filepath.Join(t.TempDir(), "films.csv"))

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrCatalogNotFound)
}

func TestCatalogRepo_SaveAndLoadKeepsOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films.csv")
	repo := NewCatalogRepo(path)
	ctx := context.Background()

	films := []entity.Film{
		{ID: 30, Title: "Seven Samurai", Year: 1954, Image: "https://img/30.jpg", Pages: 4},
		{ID: 10, Title: "Heat, the \"director's cut\"", Year: 1995, Pages: 0},
		{ID: 20, Title: "Alien", Year: 1979, Image: "https://img/20.jpg", Pages: 1},
	}
	require.NoError(t, repo.Save(ctx, films))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ID,Title,Year,Image,Pages\n30,Seven Samurai,1954,https://img/30.jpg,4\n")

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, films, loaded)
}

func TestCatalogRepo_LoadRejectsCorruptRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films.csv")
	require.NoError(t, os.WriteFile(path, []byte("ID,Title,Year,Image,Pages\nabc,Alien,1979,,1\n"), 0o644))

	_, err := NewCatalogRepo(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCatalogRepo_LoadRejectsWrongHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films.csv")
	require.NoError(t, os.WriteFile(path, []byte("Id,Name,Year,Image,Pages\n"), 0o644))

	_, err := NewCatalogRepo(path).Load(context.Background())
	assert.Error(t, err)
}

func TestReviewSink_HeaderOnlyAtCreation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	ctx := context.Background()
	rating := 8
	comment := "Great film, really"

	sink, err := OpenReviewSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Append(ctx, 1, entity.Review{Rating: &rating, Comment: &comment}))
	require.NoError(t, sink.Close())

	sink, err = OpenReviewSink(path)
	require.NoError(t, err)
	require.NoError(t, sink.Append(ctx, 2, entity.Review{}))
	require.NoError(t, sink.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Review,Rating\n\"Great film, really\",8\n,\n", string(raw))
}

func TestReviewSink_RowsVisibleBeforeClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	comment := "Meh"

	sink, err := OpenReviewSink(path)
	require.NoError(t, err)
	defer sink.Close()
	require.NoError(t, sink.Append(context.Background(), 1, entity.Review{Comment: &comment}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Review,Rating\nMeh,\n", string(raw))
}

func TestCheckpointRepo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.txt")
	repo := NewCheckpointRepo(path)
	ctx := context.Background()

	_, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Save(ctx, 809297))
	require.NoError(t, repo.Save(ctx, 730528))

	id, ok, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 730528, id)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "730528\n", string(raw))
}

func TestCheckpointRepo_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.txt")
	require.NoError(t, os.WriteFile(path, []byte("not-an-id"), 0o644))

	_, _, err := NewCheckpointRepo(path).Load(context.Background())
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))
	_, ok, err := NewCheckpointRepo(path).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
