package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// putDoc marshals v and executes an upsert query expecting (id, data) args.
func putDoc(db *sql.DB, query, id string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", id, err)
	}
	if _, err := db.Exec(query, id, string(data)); err != nil {
		return fmt.Errorf("upsert document %s: %w", id, err)
	}
	return nil
}

// getDoc executes a single-row query expecting an (id) arg and unmarshals the
// data column into dst. Returns false when no row matched.
func getDoc(db *sql.DB, query, id string, dst interface{}) (bool, error) {
	var data string
	err := db.QueryRow(query, id).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query document %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return false, fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	return true, nil
}

// listDocs executes a query returning data columns and unmarshals each row.
func listDocs[T any](db *sql.DB, query string) ([]T, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		var v T
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, fmt.Errorf("unmarshal document row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}
	return out, nil
}

// deleteDoc executes a delete query expecting an (id) arg and reports whether
// a row was removed.
func deleteDoc(db *sql.DB, query, id string) (bool, error) {
	res, err := db.Exec(query, id)
	if err != nil {
		return false, fmt.Errorf("delete document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for %s: %w", id, err)
	}
	return n > 0, nil
}
