package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmatrix/internal/models"
)

const attachmentTestSchema = `
CREATE TABLE tasks (
    id      UUID PRIMARY KEY,
    user_id UUID NOT NULL
);

CREATE TABLE attachments (
    id            UUID PRIMARY KEY,
    task_id       UUID NOT NULL REFERENCES tasks (id) ON DELETE CASCADE,
    file_type     TEXT NOT NULL,
    stored_name   TEXT NOT NULL UNIQUE,
    original_name TEXT NOT NULL,
    position      INTEGER NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    UNIQUE (task_id, position)
);
`

// newTestPool connects to the database named by TEST_DATABASE_URL and
// gives the test a throwaway schema to work in. Without the variable
// the test is skipped.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	schemaName := fmt.Sprintf("attachments_test_%d", time.Now().UnixNano())
	cfg.ConnConfig.RuntimeParams["search_path"] = schemaName

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "CREATE SCHEMA "+schemaName)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP SCHEMA "+schemaName+" CASCADE")
	})

	_, err = pool.Exec(ctx, attachmentTestSchema)
	require.NoError(t, err)
	return pool
}

type memFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
	next  int
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: make(map[string][]byte)}
}

func (m *memFileStore) Save(r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	name := fmt.Sprintf("file-%d", m.next)
	m.files[name] = data
	return name, nil
}

func (m *memFileStore) Remove(storedName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, storedName)
	return nil
}

func (m *memFileStore) Path(storedName string) string {
	return storedName
}

func TestAddAttachmentConcurrentPositions(t *testing.T) {
	pool := newTestPool(t)
	svc := NewAttachmentService(zerolog.Nop(), pool, newMemFileStore(), nil)

	ctx := context.Background()
	userID := uuid.NewString()
	taskID := uuid.NewString()
	_, err := pool.Exec(ctx, "INSERT INTO tasks (id, user_id) VALUES ($1, $2)", taskID, userID)
	require.NoError(t, err)

	const uploads = 8
	var wg sync.WaitGroup
	results := make([]*models.Attachment, uploads)
	errs := make([]error, uploads)
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.AddAttachment(ctx, AddAttachmentParams{
				UserID:       userID,
				TaskID:       taskID,
				FileType:     models.FileTypeDocument,
				OriginalName: fmt.Sprintf("doc-%d.pdf", i),
				Content:      strings.NewReader("content"),
			})
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool, uploads)
	for i := range results {
		require.NoError(t, errs[i])
		seen[results[i].Position] = true
	}
	for position := 0; position < uploads; position++ {
		assert.True(t, seen[position], "missing position %d", position)
	}
}

func TestAddAttachmentOwnership(t *testing.T) {
	pool := newTestPool(t)
	svc := NewAttachmentService(zerolog.Nop(), pool, newMemFileStore(), nil)

	ctx := context.Background()
	userID := uuid.NewString()
	taskID := uuid.NewString()
	_, err := pool.Exec(ctx, "INSERT INTO tasks (id, user_id) VALUES ($1, $2)", taskID, userID)
	require.NoError(t, err)

	_, err = svc.AddAttachment(ctx, AddAttachmentParams{
		UserID:       uuid.NewString(),
		TaskID:       taskID,
		FileType:     models.FileTypeImage,
		OriginalName: "photo.png",
		Content:      strings.NewReader("png"),
	})
	assert.ErrorIs(t, err, ErrNotTaskOwner)

	_, err = svc.AddAttachment(ctx, AddAttachmentParams{
		UserID:       userID,
		TaskID:       uuid.NewString(),
		FileType:     models.FileTypeImage,
		OriginalName: "photo.png",
		Content:      strings.NewReader("png"),
	})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
