package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rationcart/backend/internal/domain"
)

// SQLiteStore persists ration lists, the price cache, comparison results and
// cart sessions. It backs all four repository interfaces in internal/domain.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and ensures the
// schema exists
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS ration_lists (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        title TEXT NOT NULL,
        image_url TEXT,
        raw_ocr_text TEXT,
        extracted_items TEXT,
        status TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS price_cache (
        item_name TEXT NOT NULL,
        platform TEXT NOT NULL,
        product_name TEXT NOT NULL,
        price REAL NOT NULL,
        pack_size TEXT,
        product_url TEXT,
        last_updated DATETIME NOT NULL,
        PRIMARY KEY (item_name, platform)
    );

    CREATE TABLE IF NOT EXISTS price_comparisons (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        list_id TEXT NOT NULL,
        item_name TEXT NOT NULL,
        quantity TEXT,
        jiomart_price REAL,
        jiomart_product_name TEXT,
        jiomart_url TEXT,
        bigbasket_price REAL,
        bigbasket_product_name TEXT,
        bigbasket_url TEXT,
        recommended_platform TEXT NOT NULL,
        savings REAL NOT NULL,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS cart_sessions (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        list_id TEXT NOT NULL,
        platform TEXT NOT NULL,
        items TEXT NOT NULL,
        status TEXT NOT NULL,
        automation_log TEXT,
        created_at DATETIME NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_lists_user ON ration_lists(user_id, created_at);
    CREATE INDEX IF NOT EXISTS idx_comparisons_list ON price_comparisons(list_id);
    CREATE INDEX IF NOT EXISTS idx_cache_updated ON price_cache(last_updated);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Create inserts a new ration list
func (s *SQLiteStore) Create(ctx context.Context, list *domain.RationList) error {
	items, err := json.Marshal(list.ExtractedItems)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO ration_lists (id, user_id, title, image_url, raw_ocr_text, extracted_items, status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		list.ID, list.UserID, list.Title, list.ImageURL, list.RawOCRText,
		string(items), string(list.Status), list.CreatedAt, list.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}

	return nil
}

// GetByID fetches one list scoped to the user
func (s *SQLiteStore) GetByID(ctx context.Context, userID, listID string) (*domain.RationList, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, user_id, title, COALESCE(image_url, ''), COALESCE(raw_ocr_text, ''),
               COALESCE(extracted_items, '[]'), status, created_at, updated_at
        FROM ration_lists WHERE id = ? AND user_id = ?`, listID, userID)

	return scanList(row)
}

// ListByUser returns all lists for a user, newest first
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string) ([]*domain.RationList, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, user_id, title, COALESCE(image_url, ''), COALESCE(raw_ocr_text, ''),
               COALESCE(extracted_items, '[]'), status, created_at, updated_at
        FROM ration_lists WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer rows.Close()

	var lists []*domain.RationList
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}

	return lists, rows.Err()
}

// UpdateStatus moves a list through the OCR pipeline states
func (s *SQLiteStore) UpdateStatus(ctx context.Context, userID, listID string, status domain.ListStatus) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE ration_lists SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		string(status), time.Now(), listID, userID)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

// SaveOCRResult stores the raw OCR text and extracted items and marks the
// list completed
func (s *SQLiteStore) SaveOCRResult(ctx context.Context, userID, listID, rawText string, items []domain.ExtractedItem) error {
	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
        UPDATE ration_lists
        SET raw_ocr_text = ?, extracted_items = ?, status = ?, updated_at = ?
        WHERE id = ? AND user_id = ?`,
		rawText, string(encoded), string(domain.ListStatusCompleted), time.Now(), listID, userID)
	if err != nil {
		return fmt.Errorf("failed to save OCR result: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

// GetFresh returns the cached listing for (item, platform) if it is younger
// than maxAge, else ErrCacheMiss
func (s *SQLiteStore) GetFresh(ctx context.Context, itemName string, platform domain.Platform, maxAge time.Duration) (*domain.CachedListing, error) {
	cutoff := time.Now().Add(-maxAge)

	var listing domain.CachedListing
	var platformStr string
	err := s.db.QueryRowContext(ctx, `
        SELECT item_name, platform, product_name, price, COALESCE(pack_size, ''),
               COALESCE(product_url, ''), last_updated
        FROM price_cache
        WHERE item_name = ? AND platform = ? AND last_updated >= ?`,
		itemName, string(platform), cutoff).Scan(
		&listing.ItemName, &platformStr, &listing.ProductName, &listing.Price,
		&listing.PackSize, &listing.URL, &listing.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read price cache: %w", err)
	}

	listing.Platform = domain.Platform(platformStr)
	return &listing, nil
}

// Put upserts a price-cache row; last write wins
func (s *SQLiteStore) Put(ctx context.Context, listing *domain.CachedListing) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO price_cache (item_name, platform, product_name, price, pack_size, product_url, last_updated)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (item_name, platform) DO UPDATE SET
            product_name = excluded.product_name,
            price = excluded.price,
            pack_size = excluded.pack_size,
            product_url = excluded.product_url,
            last_updated = excluded.last_updated`,
		listing.ItemName, string(listing.Platform), listing.ProductName,
		listing.Price, listing.PackSize, listing.URL, listing.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to upsert price cache: %w", err)
	}

	return nil
}

// SaveAll stores the arbitrated comparison rows for a list in one transaction
func (s *SQLiteStore) SaveAll(ctx context.Context, listID string, results []domain.PriceComparisonResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, r := range results {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO price_comparisons (
                list_id, item_name, quantity,
                jiomart_price, jiomart_product_name, jiomart_url,
                bigbasket_price, bigbasket_product_name, bigbasket_url,
                recommended_platform, savings, created_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			listID, r.ItemName, r.Quantity,
			nullablePrice(r.PerPlatform[domain.PlatformJioMart]),
			r.ProductNames[domain.PlatformJioMart],
			r.URLs[domain.PlatformJioMart],
			nullablePrice(r.PerPlatform[domain.PlatformBigBasket]),
			r.ProductNames[domain.PlatformBigBasket],
			r.URLs[domain.PlatformBigBasket],
			string(r.RecommendedPlatform), r.Savings, now)
		if err != nil {
			return fmt.Errorf("failed to insert comparison: %w", err)
		}
	}

	return tx.Commit()
}

// ListByList returns the stored comparisons for a list, newest first
func (s *SQLiteStore) ListByList(ctx context.Context, listID string) ([]domain.PriceComparisonResult, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT item_name, COALESCE(quantity, ''),
               jiomart_price, COALESCE(jiomart_product_name, ''), COALESCE(jiomart_url, ''),
               bigbasket_price, COALESCE(bigbasket_product_name, ''), COALESCE(bigbasket_url, ''),
               recommended_platform, savings
        FROM price_comparisons WHERE list_id = ? ORDER BY created_at DESC, id DESC`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparisons: %w", err)
	}
	defer rows.Close()

	var results []domain.PriceComparisonResult
	for rows.Next() {
		var r domain.PriceComparisonResult
		var jioPrice, bbPrice sql.NullFloat64
		var jioName, jioURL, bbName, bbURL, recommended string

		if err := rows.Scan(&r.ItemName, &r.Quantity,
			&jioPrice, &jioName, &jioURL,
			&bbPrice, &bbName, &bbURL,
			&recommended, &r.Savings); err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}

		r.PerPlatform = map[domain.Platform]*float64{
			domain.PlatformJioMart:   nullToPtr(jioPrice),
			domain.PlatformBigBasket: nullToPtr(bbPrice),
		}
		r.ProductNames = map[domain.Platform]string{
			domain.PlatformJioMart:   jioName,
			domain.PlatformBigBasket: bbName,
		}
		r.URLs = map[domain.Platform]string{
			domain.PlatformJioMart:   jioURL,
			domain.PlatformBigBasket: bbURL,
		}
		r.RecommendedPlatform = domain.Platform(recommended)

		results = append(results, r)
	}

	return results, rows.Err()
}

// CreateSession inserts a new cart session
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.CartSession) error {
	items, err := json.Marshal(session.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO cart_sessions (id, user_id, list_id, platform, items, status, automation_log, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.UserID, session.ListID, string(session.Platform),
		string(items), string(session.Status), session.AutomationLog, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cart session: %w", err)
	}

	return nil
}

// UpdateSession stores the automation outcome
func (s *SQLiteStore) UpdateSession(ctx context.Context, session *domain.CartSession) error {
	_, err := s.db.ExecContext(ctx, `
        UPDATE cart_sessions SET status = ?, automation_log = ? WHERE id = ?`,
		string(session.Status), session.AutomationLog, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update cart session: %w", err)
	}

	return nil
}

// GetSession fetches a cart session scoped to the user
func (s *SQLiteStore) GetSession(ctx context.Context, userID, sessionID string) (*domain.CartSession, error) {
	var session domain.CartSession
	var platform, status, items string

	err := s.db.QueryRowContext(ctx, `
        SELECT id, user_id, list_id, platform, items, status, COALESCE(automation_log, ''), created_at
        FROM cart_sessions WHERE id = ? AND user_id = ?`, sessionID, userID).Scan(
		&session.ID, &session.UserID, &session.ListID, &platform,
		&items, &status, &session.AutomationLog, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrListNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart session: %w", err)
	}

	session.Platform = domain.Platform(platform)
	session.Status = domain.CartSessionStatus(status)
	if err := json.Unmarshal([]byte(items), &session.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}

	return &session, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanList(row scannable) (*domain.RationList, error) {
	var list domain.RationList
	var status, items string

	err := row.Scan(&list.ID, &list.UserID, &list.Title, &list.ImageURL,
		&list.RawOCRText, &items, &status, &list.CreatedAt, &list.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrListNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan list: %w", err)
	}

	list.Status = domain.ListStatus(status)
	if err := json.Unmarshal([]byte(items), &list.ExtractedItems); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}

	return &list, nil
}

func nullablePrice(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullToPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
