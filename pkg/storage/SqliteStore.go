package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rfberaldo/sqlz"
)

type SqliteStoreConfig struct {
	DB        *sqlz.DB
	Namespace string
}

type SqliteStore struct {
	db        *sqlz.DB
	namespace string
}

type storedValue struct {
	Key       string `db:"storage_key"`
	Value     string `db:"storage_value"`
	UpdatedAt int64  `db:"updated_at"`
}

func NewSqliteStore(config SqliteStoreConfig) SqliteStore {
	return SqliteStore{
		db:        config.DB,
		namespace: config.Namespace,
	}
}

func (s SqliteStore) Get(key string) (string, error) {
	var (
		err error
	)

	result := storedValue{}

	sql := `
SELECT
   ls.storage_key
   , ls.storage_value
   , ls.updated_at
FROM local_storage AS ls
WHERE 1=1
   AND ls.namespace=?
   AND ls.storage_key=?
   `

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &result, sql, s.namespace, key); err != nil {
		if sqlz.IsNotFound(err) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("error querying for key '%s' in namespace '%s': %w", key, s.namespace, err)
	}

	return result.Value, nil
}

func (s SqliteStore) Set(key, value string) error {
	var (
		err error
	)

	sql := `
INSERT INTO local_storage (
   namespace
   , storage_key
   , storage_value
   , updated_at
) VALUES (?, ?, ?, ?)
ON CONFLICT (namespace, storage_key) DO UPDATE SET
   storage_value=excluded.storage_value
   , updated_at=excluded.updated_at
   `

	params := []any{
		s.namespace,
		key,
		value,
		time.Now().UnixNano(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return fmt.Errorf("error writing key '%s' in namespace '%s': %w", key, s.namespace, err)
	}

	return nil
}

func (s SqliteStore) Replace(key, value string) error {
	var (
		affected int64
	)

	sql := `
UPDATE local_storage SET
   storage_value=?
WHERE 1=1
   AND namespace=?
   AND storage_key=?
   `

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, value, s.namespace, key)

	if err != nil {
		return fmt.Errorf("error replacing key '%s' in namespace '%s': %w", key, s.namespace, err)
	}

	if affected, err = result.RowsAffected(); err != nil {
		return fmt.Errorf("error checking replaced key '%s' in namespace '%s': %w", key, s.namespace, err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s SqliteStore) Delete(key string) error {
	var (
		err error
	)

	sql := `
DELETE FROM local_storage
WHERE 1=1
   AND namespace=?
   AND storage_key=?
   `

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, s.namespace, key); err != nil {
		return fmt.Errorf("error deleting key '%s' in namespace '%s': %w", key, s.namespace, err)
	}

	return nil
}

func (s SqliteStore) Keys() ([]string, error) {
	var (
		err  error
		rows []storedValue
	)

	sql := `
SELECT
   ls.storage_key
   , '' AS storage_value
   , ls.updated_at
FROM local_storage AS ls
WHERE 1=1
   AND ls.namespace=?
ORDER BY ls.updated_at ASC
   `

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &rows, sql, s.namespace); err != nil {
		if sqlz.IsNotFound(err) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("error listing keys in namespace '%s': %w", s.namespace, err)
	}

	result := make([]string, 0, len(rows))

	for _, row := range rows {
		result = append(result, row.Key)
	}

	return result, nil
}
