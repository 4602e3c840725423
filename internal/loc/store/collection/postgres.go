package collection

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"locreg/internal/loc/models"
	"locreg/internal/sentinel"
	id "locreg/pkg/domain"
	txcontext "locreg/pkg/platform/tx"
)

// PostgresStore persists collection items in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

type fileRecord struct {
	Name        string  `json:"name"`
	ContentType string  `json:"content_type"`
	Size        uint32  `json:"size"`
	Hash        id.Hash `json:"hash"`
}

type termsRecord struct {
	TCType  string   `json:"tc_type"`
	TCLoc   id.LocID `json:"tc_loc"`
	Details string   `json:"details"`
}

func (s *PostgresStore) ItemExists(ctx context.Context, locID id.LocID, itemID id.CollectionItemID) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM collection_items WHERE loc_id = $1 AND item_id = $2)`,
		uuid.UUID(locID), itemID[:],
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check collection item: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) FindItem(ctx context.Context, locID id.LocID, itemID id.CollectionItemID) (*models.CollectionItem, error) {
	query := `
		SELECT description, token_type, token_id, restricted_delivery, files, terms_and_conditions
		FROM collection_items
		WHERE loc_id = $1 AND item_id = $2
	`
	var (
		item      models.CollectionItem
		tokenType sql.NullString
		tokenID   sql.NullString
		filesRaw  []byte
		termsRaw  []byte
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(locID), itemID[:]).Scan(
		&item.Description, &tokenType, &tokenID, &item.RestrictedDelivery, &filesRaw, &termsRaw,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find collection item: %w", err)
	}
	if tokenType.Valid {
		item.Token = &models.CollectionItemToken{TokenType: tokenType.String, TokenID: tokenID.String}
	}

	var files []fileRecord
	if err := json.Unmarshal(filesRaw, &files); err != nil {
		return nil, fmt.Errorf("unmarshal collection item files: %w", err)
	}
	item.Files = make([]models.CollectionItemFile, 0, len(files))
	for _, f := range files {
		item.Files = append(item.Files, models.CollectionItemFile(f))
	}

	var terms []termsRecord
	if err := json.Unmarshal(termsRaw, &terms); err != nil {
		return nil, fmt.Errorf("unmarshal collection item terms: %w", err)
	}
	item.TermsAndConditions = make([]models.TermsAndConditionsElement, 0, len(terms))
	for _, tc := range terms {
		item.TermsAndConditions = append(item.TermsAndConditions, models.TermsAndConditionsElement(tc))
	}
	return &item, nil
}

// InsertItem stores the item and bumps the counter in the caller's transaction.
func (s *PostgresStore) InsertItem(ctx context.Context, locID id.LocID, itemID id.CollectionItemID, item *models.CollectionItem) error {
	if item == nil {
		return fmt.Errorf("collection item is required")
	}
	files := make([]fileRecord, 0, len(item.Files))
	for _, f := range item.Files {
		files = append(files, fileRecord(f))
	}
	filesRaw, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("marshal collection item files: %w", err)
	}
	terms := make([]termsRecord, 0, len(item.TermsAndConditions))
	for _, tc := range item.TermsAndConditions {
		terms = append(terms, termsRecord(tc))
	}
	termsRaw, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("marshal collection item terms: %w", err)
	}

	var tokenType, tokenID sql.NullString
	if item.Token != nil {
		tokenType = sql.NullString{String: item.Token.TokenType, Valid: true}
		tokenID = sql.NullString{String: item.Token.TokenID, Valid: true}
	}

	ex := s.execer(ctx)
	_, err = ex.ExecContext(ctx, `
		INSERT INTO collection_items (
			loc_id, item_id, description, token_type, token_id, restricted_delivery, files, terms_and_conditions
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		uuid.UUID(locID), itemID[:], item.Description, tokenType, tokenID, item.RestrictedDelivery, filesRaw, termsRaw,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("collection item %s: %w", itemID, sentinel.ErrDuplicateKey)
		}
		return fmt.Errorf("insert collection item: %w", err)
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO collection_sizes (loc_id, size) VALUES ($1, 1)
		ON CONFLICT (loc_id) DO UPDATE SET size = collection_sizes.size + 1
	`, uuid.UUID(locID))
	if err != nil {
		return fmt.Errorf("increment collection size: %w", err)
	}
	return nil
}

func (s *PostgresStore) Size(ctx context.Context, locID id.LocID) (uint32, error) {
	var size int64
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT size FROM collection_sizes WHERE loc_id = $1`, uuid.UUID(locID)).Scan(&size)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("read collection size: %w", err)
	}
	return uint32(size), nil // #nosec G115
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
