package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthhq/dealdesk/internal/domain/model"
	"github.com/hearthhq/dealdesk/internal/domain/patch"
	apperrors "github.com/hearthhq/dealdesk/internal/errors"
)

// PgEntityStore implements the EntityStore port against PostgreSQL. Each CRM
// collection is a table of the same name with an (id, data jsonb) shape, so
// one store serves every routable entity kind.
//
// Collection names are interpolated into SQL and therefore restricted to the
// closed set derived from the entity routing table.
type PgEntityStore struct {
	DB     *sql.DB
	logger *slog.Logger

	collections map[string]struct{}
}

// NewPgEntityStore creates a store whose legal collections are exactly those
// the entity router can produce.
func NewPgEntityStore(db *sql.DB, logger *slog.Logger) *PgEntityStore {
	collections := make(map[string]struct{})
	for _, kind := range patch.Kinds() {
		h, err := patch.Resolve(kind)
		if err != nil {
			continue
		}
		collections[h.Collection] = struct{}{}
	}

	return &PgEntityStore{
		DB:          db,
		logger:      logger,
		collections: collections,
	}
}

func (s *PgEntityStore) table(collection string) (string, error) {
	if _, ok := s.collections[collection]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, collection)
	}
	return collection, nil
}

// Insert adds a record to the collection and returns the assigned id.
func (s *PgEntityStore) Insert(ctx context.Context, collection string, record json.RawMessage) (string, error) {
	table, err := s.table(collection)
	if err != nil {
		return "", err
	}
	if len(record) == 0 {
		return "", apperrors.Validation("record payload is required")
	}

	id := uuid.NewString()
	//nolint:gosec // table comes from the closed collection whitelist above
	query := fmt.Sprintf(`
		INSERT INTO %s (id, data, created_at, updated_at)
		VALUES ($1, $2::jsonb, now(), now())`, table)

	if _, err := s.DB.ExecContext(ctx, query, id, []byte(record)); err != nil {
		return "", apperrors.MapDBError(err)
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "entity inserted", "collection", collection, "id", id)
	}
	return id, nil
}

// Update applies a partial update keyed by id and returns the same id. The
// partial payload is merged over the stored document; absent fields keep their
// stored values.
func (s *PgEntityStore) Update(ctx context.Context, collection, id string, partial json.RawMessage) (string, error) {
	table, err := s.table(collection)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(id) == "" {
		return "", ErrEntityIDRequired
	}
	if len(partial) == 0 {
		return "", apperrors.Validation("partial update payload is required")
	}

	//nolint:gosec // table comes from the closed collection whitelist above
	query := fmt.Sprintf(`
		UPDATE %s
		SET data = data || $2::jsonb, updated_at = now()
		WHERE id = $1`, table)

	res, err := s.DB.ExecContext(ctx, query, id, []byte(partial))
	if err != nil {
		return "", apperrors.MapDBError(err)
	}
	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		return "", apperrors.NotFoundf("no %s entity with id %s", collection, id)
	}
	return id, nil
}

// Delete removes the entity keyed by id.
func (s *PgEntityStore) Delete(ctx context.Context, collection, id string) error {
	table, err := s.table(collection)
	if err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return ErrEntityIDRequired
	}

	//nolint:gosec // table comes from the closed collection whitelist above
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)

	res, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		return apperrors.NotFoundf("no %s entity with id %s", collection, id)
	}
	return nil
}

// GetByID fetches one entity document. Used by review surfaces that show a
// proposed operation's current ("before") state.
func (s *PgEntityStore) GetByID(ctx context.Context, collection, id string) (json.RawMessage, error) {
	table, err := s.table(collection)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, ErrEntityIDRequired
	}

	//nolint:gosec // table comes from the closed collection whitelist above
	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, table)

	var data []byte
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&data); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return data, nil
}

// CollectionFor resolves an entity kind to its collection identifier.
func CollectionFor(kind model.EntityKind) (string, error) {
	h, err := patch.Resolve(kind)
	if err != nil {
		return "", err
	}
	return h.Collection, nil
}
