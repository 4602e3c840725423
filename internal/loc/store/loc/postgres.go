package loc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"locreg/internal/loc/models"
	"locreg/internal/sentinel"
	id "locreg/pkg/domain"
	txcontext "locreg/pkg/platform/tx"
)

// PostgresStore persists LOCs in PostgreSQL. Writes join the transaction
// carried by ctx when one is present.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const (
	requesterNone    = "none"
	requesterAccount = "account"
	requesterLoc     = "loc"
)

func (s *PostgresStore) FindByID(ctx context.Context, locID id.LocID) (*models.LegalOfficerCase, error) {
	query := `
		SELECT owner, requester_kind, requester_account, requester_loc, loc_type, closed,
			void, void_replacer, replacer_of,
			collection_last_block, collection_max_size, collection_can_upload, seal
		FROM locs
		WHERE id = $1
	`
	ex := s.execer(ctx)
	loc, err := scanLoc(ex.QueryRowContext(ctx, query, uuid.UUID(locID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find loc by id: %w", err)
	}
	if err := s.loadSequences(ctx, ex, locID, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *PostgresStore) Exists(ctx context.Context, locID id.LocID) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM locs WHERE id = $1)`, uuid.UUID(locID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check loc existence: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Insert(ctx context.Context, locID id.LocID, loc *models.LegalOfficerCase) error {
	if loc == nil {
		return fmt.Errorf("loc is required")
	}
	row, err := toLocRow(loc)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO locs (
			id, owner, requester_kind, requester_account, requester_loc, loc_type, closed,
			void, void_replacer, replacer_of,
			collection_last_block, collection_max_size, collection_can_upload, seal
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	ex := s.execer(ctx)
	_, err = ex.ExecContext(ctx, query,
		uuid.UUID(locID), row.owner, row.requesterKind, row.requesterAccount, row.requesterLoc,
		row.locType, row.closed, row.void, row.voidReplacer, row.replacerOf,
		row.lastBlock, row.maxSize, row.canUpload, row.seal,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("loc %s: %w", locID, sentinel.ErrDuplicateKey)
		}
		return fmt.Errorf("insert loc: %w", err)
	}
	return s.appendSequences(ctx, ex, locID, loc)
}

// Update rewrites the scalar columns and appends sequence elements not yet
// stored. Metadata, files and links are append-only.
func (s *PostgresStore) Update(ctx context.Context, locID id.LocID, loc *models.LegalOfficerCase) error {
	if loc == nil {
		return fmt.Errorf("loc is required")
	}
	row, err := toLocRow(loc)
	if err != nil {
		return err
	}
	query := `
		UPDATE locs
		SET closed = $2, void = $3, void_replacer = $4, replacer_of = $5, seal = $6
		WHERE id = $1
	`
	ex := s.execer(ctx)
	res, err := ex.ExecContext(ctx, query,
		uuid.UUID(locID), row.closed, row.void, row.voidReplacer, row.replacerOf, row.seal,
	)
	if err != nil {
		return fmt.Errorf("update loc: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update loc rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return s.appendSequences(ctx, ex, locID, loc)
}

func (s *PostgresStore) LinkAccount(ctx context.Context, account id.AccountID, locID id.LocID) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO account_locs (account, loc_id) VALUES ($1, $2)`,
		string(account), uuid.UUID(locID),
	)
	if err != nil {
		return fmt.Errorf("link account loc: %w", err)
	}
	return nil
}

func (s *PostgresStore) LinkIdentityLoc(ctx context.Context, identityLoc id.LocID, locID id.LocID) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO identity_loc_locs (identity_loc_id, loc_id) VALUES ($1, $2)`,
		uuid.UUID(identityLoc), uuid.UUID(locID),
	)
	if err != nil {
		return fmt.Errorf("link identity loc: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByAccount(ctx context.Context, account id.AccountID) ([]id.LocID, error) {
	return s.listIDs(ctx, `SELECT loc_id FROM account_locs WHERE account = $1 ORDER BY seq`, string(account))
}

func (s *PostgresStore) ListByIdentityLoc(ctx context.Context, identityLoc id.LocID) ([]id.LocID, error) {
	return s.listIDs(ctx, `SELECT loc_id FROM identity_loc_locs WHERE identity_loc_id = $1 ORDER BY seq`, uuid.UUID(identityLoc))
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM locs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count locs: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) listIDs(ctx context.Context, query string, arg any) ([]id.LocID, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list loc ids: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	ids := []id.LocID{}
	for rows.Next() {
		var raw uuid.UUID
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan loc id: %w", err)
		}
		ids = append(ids, id.LocID(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loc ids: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) loadSequences(ctx context.Context, ex dbExecutor, locID id.LocID, loc *models.LegalOfficerCase) error {
	key := uuid.UUID(locID)

	rows, err := ex.QueryContext(ctx, `SELECT name, value, submitter FROM loc_metadata WHERE loc_id = $1 ORDER BY position`, key)
	if err != nil {
		return fmt.Errorf("load loc metadata: %w", err)
	}
	for rows.Next() {
		var item models.MetadataItem
		var submitter string
		if err := rows.Scan(&item.Name, &item.Value, &submitter); err != nil {
			rows.Close() //nolint:errcheck // scan failure already reported
			return fmt.Errorf("scan loc metadata: %w", err)
		}
		item.Submitter = id.AccountID(submitter)
		loc.Metadata = append(loc.Metadata, item)
	}
	if err := closeRows(rows, "loc metadata"); err != nil {
		return err
	}

	rows, err = ex.QueryContext(ctx, `SELECT hash, nature, submitter FROM loc_files WHERE loc_id = $1 ORDER BY position`, key)
	if err != nil {
		return fmt.Errorf("load loc files: %w", err)
	}
	for rows.Next() {
		var file models.File
		var hash []byte
		var submitter string
		if err := rows.Scan(&hash, &file.Nature, &submitter); err != nil {
			rows.Close() //nolint:errcheck // scan failure already reported
			return fmt.Errorf("scan loc file: %w", err)
		}
		copy(file.Hash[:], hash)
		file.Submitter = id.AccountID(submitter)
		loc.Files = append(loc.Files, file)
	}
	if err := closeRows(rows, "loc files"); err != nil {
		return err
	}

	rows, err = ex.QueryContext(ctx, `SELECT target, nature FROM loc_links WHERE loc_id = $1 ORDER BY position`, key)
	if err != nil {
		return fmt.Errorf("load loc links: %w", err)
	}
	for rows.Next() {
		var link models.LocLink
		var target uuid.UUID
		if err := rows.Scan(&target, &link.Nature); err != nil {
			rows.Close() //nolint:errcheck // scan failure already reported
			return fmt.Errorf("scan loc link: %w", err)
		}
		link.Target = id.LocID(target)
		loc.Links = append(loc.Links, link)
	}
	return closeRows(rows, "loc links")
}

// appendSequences inserts the elements past the stored length of each sequence.
// A position that is already stored keeps its row.
func (s *PostgresStore) appendSequences(ctx context.Context, ex dbExecutor, locID id.LocID, loc *models.LegalOfficerCase) error {
	key := uuid.UUID(locID)

	stored, err := storedLength(ctx, ex, "loc_metadata", key)
	if err != nil {
		return err
	}
	for i := stored; i < len(loc.Metadata); i++ {
		item := loc.Metadata[i]
		if _, err := ex.ExecContext(ctx,
			`INSERT INTO loc_metadata (loc_id, position, name, value, submitter) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (loc_id, position) DO NOTHING`,
			key, i, item.Name, item.Value, string(item.Submitter),
		); err != nil {
			return fmt.Errorf("insert loc metadata: %w", err)
		}
	}

	stored, err = storedLength(ctx, ex, "loc_files", key)
	if err != nil {
		return err
	}
	for i := stored; i < len(loc.Files); i++ {
		file := loc.Files[i]
		if _, err := ex.ExecContext(ctx,
			`INSERT INTO loc_files (loc_id, position, hash, nature, submitter) VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (loc_id, position) DO NOTHING`,
			key, i, file.Hash[:], file.Nature, string(file.Submitter),
		); err != nil {
			return fmt.Errorf("insert loc file: %w", err)
		}
	}

	stored, err = storedLength(ctx, ex, "loc_links", key)
	if err != nil {
		return err
	}
	for i := stored; i < len(loc.Links); i++ {
		link := loc.Links[i]
		if _, err := ex.ExecContext(ctx,
			`INSERT INTO loc_links (loc_id, position, target, nature) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (loc_id, position) DO NOTHING`,
			key, i, uuid.UUID(link.Target), link.Nature,
		); err != nil {
			return fmt.Errorf("insert loc link: %w", err)
		}
	}
	return nil
}

// storedLength counts rows of a sequence table. table is never user input.
func storedLength(ctx context.Context, ex dbExecutor, table string, key uuid.UUID) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM ` + table + ` WHERE loc_id = $1` // #nosec G202
	if err := ex.QueryRowContext(ctx, query, key).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func closeRows(rows *sql.Rows, what string) error {
	if err := rows.Err(); err != nil {
		rows.Close() //nolint:errcheck // iteration error takes precedence
		return fmt.Errorf("iterate %s: %w", what, err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("close %s rows: %w", what, err)
	}
	return nil
}

type locRow struct {
	owner            string
	requesterKind    string
	requesterAccount sql.NullString
	requesterLoc     uuid.NullUUID
	locType          string
	closed           bool
	void             bool
	voidReplacer     uuid.NullUUID
	replacerOf       uuid.NullUUID
	lastBlock        sql.NullInt64
	maxSize          sql.NullInt64
	canUpload        bool
	seal             []byte
}

func toLocRow(loc *models.LegalOfficerCase) (locRow, error) {
	row := locRow{
		owner:     string(loc.Owner),
		locType:   string(loc.LocType),
		closed:    loc.Closed,
		void:      loc.IsVoid(),
		canUpload: loc.CollectionCanUpload,
	}
	switch r := loc.Requester.(type) {
	case models.NoRequester:
		row.requesterKind = requesterNone
	case models.AccountRequester:
		row.requesterKind = requesterAccount
		row.requesterAccount = sql.NullString{String: string(r.Account), Valid: true}
	case models.LocRequester:
		row.requesterKind = requesterLoc
		row.requesterLoc = uuid.NullUUID{UUID: uuid.UUID(r.Loc), Valid: true}
	default:
		return locRow{}, fmt.Errorf("unsupported requester %T", r)
	}
	if loc.VoidInfo != nil && loc.VoidInfo.Replacer != nil {
		row.voidReplacer = uuid.NullUUID{UUID: uuid.UUID(*loc.VoidInfo.Replacer), Valid: true}
	}
	if loc.ReplacerOf != nil {
		row.replacerOf = uuid.NullUUID{UUID: uuid.UUID(*loc.ReplacerOf), Valid: true}
	}
	if loc.CollectionLastBlockSubmission != nil {
		row.lastBlock = sql.NullInt64{Int64: int64(*loc.CollectionLastBlockSubmission), Valid: true} // #nosec G115
	}
	if loc.CollectionMaxSize != nil {
		row.maxSize = sql.NullInt64{Int64: int64(*loc.CollectionMaxSize), Valid: true}
	}
	if loc.Seal != nil {
		row.seal = loc.Seal[:]
	}
	return row, nil
}

type locScanner interface {
	Scan(dest ...any) error
}

func scanLoc(row locScanner) (*models.LegalOfficerCase, error) {
	var r locRow
	if err := row.Scan(
		&r.owner, &r.requesterKind, &r.requesterAccount, &r.requesterLoc, &r.locType, &r.closed,
		&r.void, &r.voidReplacer, &r.replacerOf,
		&r.lastBlock, &r.maxSize, &r.canUpload, &r.seal,
	); err != nil {
		return nil, err
	}

	var requester models.Requester
	switch r.requesterKind {
	case requesterNone:
		requester = models.NoRequester{}
	case requesterAccount:
		requester = models.AccountRequester{Account: id.AccountID(r.requesterAccount.String)}
	case requesterLoc:
		requester = models.LocRequester{Loc: id.LocID(r.requesterLoc.UUID)}
	default:
		return nil, fmt.Errorf("unknown requester kind %q", r.requesterKind)
	}

	loc := models.NewOpenLoc(id.AccountID(r.owner), requester, models.LocType(r.locType))
	loc.Closed = r.closed
	loc.CollectionCanUpload = r.canUpload
	if r.void {
		loc.VoidInfo = &models.VoidInfo{}
		if r.voidReplacer.Valid {
			replacer := id.LocID(r.voidReplacer.UUID)
			loc.VoidInfo.Replacer = &replacer
		}
	}
	if r.replacerOf.Valid {
		replaced := id.LocID(r.replacerOf.UUID)
		loc.ReplacerOf = &replaced
	}
	if r.lastBlock.Valid {
		block := id.BlockNumber(r.lastBlock.Int64) // #nosec G115
		loc.CollectionLastBlockSubmission = &block
	}
	if r.maxSize.Valid {
		size := uint32(r.maxSize.Int64) // #nosec G115
		loc.CollectionMaxSize = &size
	}
	if len(r.seal) > 0 {
		var seal id.Hash
		copy(seal[:], r.seal)
		loc.Seal = &seal
	}
	return loc, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
