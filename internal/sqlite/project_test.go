package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/arranger/internal/domain/project"
	"github.com/rpggio/arranger/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestProjectRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := &project.Project{
		ID:            "p1",
		TenantID:      "tenant1",
		Name:          "Test Project",
		Description:   "A test project",
		ContainerType: "bbeditor",
		CreatedAt:     time.Now(),
	}
	require.NoError(t, repo.Create(ctx, "tenant1", proj))

	retrieved, err := repo.Get(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, proj.ID, retrieved.ID)
	require.Equal(t, "tenant1", retrieved.TenantID)
	require.Equal(t, proj.Name, retrieved.Name)
	require.Equal(t, proj.Description, retrieved.Description)
	require.Equal(t, "bbeditor", retrieved.ContainerType)
	require.Zero(t, retrieved.Revision)
	require.Nil(t, retrieved.SavedAt)

	err = repo.Create(ctx, "tenant1", proj)
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestProjectRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, "tenant1", "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	insertProject(t, db, "p1", "tenant1")
	_, err = repo.Get(ctx, "tenant2", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectRepository_GetDefault(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	_, err := repo.GetDefault(ctx, "tenant1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	insertProject(t, db, "first", "tenant1")
	time.Sleep(10 * time.Millisecond)
	insertProject(t, db, "second", "tenant1")

	proj, err := repo.GetDefault(ctx, "tenant1")
	require.NoError(t, err)
	require.Equal(t, "first", proj.ID)
}

func TestProjectRepository_List(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	insertProject(t, db, "p1", "tenant1")
	time.Sleep(10 * time.Millisecond)
	insertProject(t, db, "p2", "tenant1")
	insertProject(t, db, "p3", "tenant2")

	_, err := repo.SaveDocument(ctx, "tenant1", "p2", project.Document{Data: []byte("doc"), TrackCount: 3, LengthBars: 8}, 0)
	require.NoError(t, err)

	summaries, err := repo.List(ctx, "tenant1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, "p2", summaries[0].ID)
	require.Equal(t, 3, summaries[0].TrackCount)
	require.Equal(t, 8, summaries[0].LengthBars)
	require.Equal(t, int64(1), summaries[0].Revision)
	require.NotNil(t, summaries[0].SavedAt)
	require.Equal(t, "p1", summaries[1].ID)
	require.Nil(t, summaries[1].SavedAt)
}

func TestProjectRepository_SaveLoadDocument(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	insertProject(t, db, "p1", "tenant1")

	data, rev, err := repo.LoadDocument(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Nil(t, data)
	require.Zero(t, rev)

	rev, err = repo.SaveDocument(ctx, "tenant1", "p1", project.Document{Data: []byte("first")}, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), rev)

	rev, err = repo.SaveDocument(ctx, "tenant1", "p1", project.Document{Data: []byte("second")}, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), rev)

	data, rev, err = repo.LoadDocument(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, "second", string(data))
	require.Equal(t, int64(2), rev)
}

func TestProjectRepository_SaveDocumentConflict(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	insertProject(t, db, "p1", "tenant1")

	_, err := repo.SaveDocument(ctx, "tenant1", "p1", project.Document{Data: []byte("a")}, 0)
	require.NoError(t, err)

	// A second writer still holding revision 0 loses.
	_, err = repo.SaveDocument(ctx, "tenant1", "p1", project.Document{Data: []byte("b")}, 0)
	require.ErrorIs(t, err, repository.ErrConflict)

	data, rev, err := repo.LoadDocument(ctx, "tenant1", "p1")
	require.NoError(t, err)
	require.Equal(t, "a", string(data))
	require.Equal(t, int64(1), rev)

	_, err = repo.SaveDocument(ctx, "tenant1", "missing", project.Document{}, 0)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, _, err = repo.LoadDocument(ctx, "tenant2", "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
