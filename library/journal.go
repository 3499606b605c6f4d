package library

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN opens a private in-memory SQLite database.
const MemoryDSN = "file::memory:?_foreign_keys=1"

// Journal mirrors catalog items and created loans into SQLite so the menu can
// search and report on them with SQL. It is a read model: the Catalog,
// Directory and Ledger stay authoritative. Reads and writes are scoped to the
// session opened by OpenJournal, so a shared file DSN never mixes runs.
type Journal struct {
	db      *sql.DB
	session int64

	addItemStmt *sql.Stmt
	addLoanStmt *sql.Stmt
}

// JournalItem is a catalog row as stored in the journal.
type JournalItem struct {
	ID     int64
	Kind   string
	Title  string
	Author string
	Year   int
}

// PenaltyLine aggregates one patron's loans.
type PenaltyLine struct {
	Email   string
	Loans   int
	Posted  float64
	Accrued float64
}

// OpenJournal opens the journal at dsn, defaulting to MemoryDSN, and applies
// the schema.
func OpenJournal(dsn string) (*Journal, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = MemoryDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	j := &Journal{db: db}
	if err := j.openSession(); err != nil {
		db.Close()
		return nil, err
	}
	if err := j.prepareStatements(); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

// Close releases prepared statements and closes the DB.
func (j *Journal) Close() error {
	if j.addItemStmt != nil {
		j.addItemStmt.Close()
	}
	if j.addLoanStmt != nil {
		j.addLoanStmt.Close()
	}
	return j.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

// migrations are applied in order; each step runs once per database.
// Version 2 scopes rows to the session that wrote them, since every process
// numbers its loans from 1 again.
var migrations = []struct {
	version int
	stmts   []string
}{
	{1, []string{
		`CREATE TABLE IF NOT EXISTS items (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            kind TEXT NOT NULL,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            year INTEGER NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_items_title ON items(title);`,
		`CREATE TABLE IF NOT EXISTS loans (
            id INTEGER PRIMARY KEY,
            kind TEXT NOT NULL,
            title TEXT NOT NULL,
            patron_email TEXT NOT NULL,
            borrow_date TEXT NOT NULL,
            return_date TEXT NOT NULL,
            penalty REAL NOT NULL,
            posted REAL NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_loans_patron ON loans(patron_email);`,
	}},
	{2, []string{
		`CREATE TABLE sessions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            opened_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`,
		`ALTER TABLE items ADD COLUMN session_id INTEGER NOT NULL DEFAULT 0;`,
		`CREATE INDEX idx_items_session ON items(session_id);`,
		`DROP INDEX idx_loans_patron;`,
		`ALTER TABLE loans RENAME TO loans_v1;`,
		`CREATE TABLE loans (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            session_id INTEGER NOT NULL,
            ledger_id INTEGER NOT NULL,
            kind TEXT NOT NULL,
            title TEXT NOT NULL,
            patron_email TEXT NOT NULL,
            borrow_date TEXT NOT NULL,
            return_date TEXT NOT NULL,
            penalty REAL NOT NULL,
            posted REAL NOT NULL,
            UNIQUE (session_id, ledger_id)
        );`,
		`INSERT INTO loans(session_id,ledger_id,kind,title,patron_email,borrow_date,return_date,penalty,posted)
            SELECT 0,id,kind,title,patron_email,borrow_date,return_date,penalty,posted FROM loans_v1;`,
		`DROP TABLE loans_v1;`,
		`CREATE INDEX idx_loans_patron ON loans(session_id, patron_email);`,
	}},
}

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		for _, stmt := range m.stmts {
			if _, err := tx.Exec(stmt); err != nil {
				tx.Rollback()
				return fmt.Errorf("apply migration %d: %w", m.version, err)
			}
		}
		if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// openSession starts the session every write of this journal belongs to.
func (j *Journal) openSession() error {
	res, err := j.db.Exec(`INSERT INTO sessions DEFAULT VALUES;`)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	j.session, err = res.LastInsertId()
	return err
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (j *Journal) prepareStatements() error {
	var err error
	if j.addItemStmt, err = j.db.Prepare(`INSERT INTO items(session_id,kind,title,author,year) VALUES(?,?,?,?,?)`); err != nil {
		return err
	}
	if j.addLoanStmt, err = j.db.Prepare(`INSERT INTO loans(session_id,ledger_id,kind,title,patron_email,borrow_date,return_date,penalty,posted) VALUES(?,?,?,?,?,?,?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// RecordItem stores a catalog item and returns its journal row id.
func (j *Journal) RecordItem(it Item) (int64, error) {
	res, err := j.addItemStmt.Exec(j.session, it.Kind.String(), it.Title, it.Author, it.Year)
	if err != nil {
		return 0, fmt.Errorf("record item %q: %w", it.Title, err)
	}
	return res.LastInsertId()
}

// ObserveLoan implements LoanObserver.
func (j *Journal) ObserveLoan(l *Loan, posted float64) error {
	_, err := j.addLoanStmt.Exec(j.session, l.ID, l.Kind().String(), l.Item.Title, l.PatronEmail,
		l.BorrowDate.Format(DateLayout), l.ReturnDate.Format(DateLayout), l.Penalty(), posted)
	if err != nil {
		return fmt.Errorf("record loan %d: %w", l.ID, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// SearchItems returns items whose title or author contains q, ignoring case,
// ordered by title.
func (j *Journal) SearchItems(q string) ([]*JournalItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []*JournalItem{}, nil
	}
	pattern := "%" + strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q) + "%"
	rows, err := j.db.Query(`
        SELECT id, kind, title, author, year
        FROM items
        WHERE session_id = ? AND (title LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\')
        ORDER BY title, id;`, j.session, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*JournalItem
	for rows.Next() {
		var it JournalItem
		if err := rows.Scan(&it.ID, &it.Kind, &it.Title, &it.Author, &it.Year); err != nil {
			return nil, err
		}
		results = append(results, &it)
	}
	return results, rows.Err()
}

// PenaltyReport sums loans per patron, ordered by email.
func (j *Journal) PenaltyReport() ([]*PenaltyLine, error) {
	rows, err := j.db.Query(`
        SELECT patron_email, COUNT(*), COALESCE(SUM(posted),0), COALESCE(SUM(penalty),0)
        FROM loans
        WHERE session_id = ?
        GROUP BY patron_email
        ORDER BY patron_email;`, j.session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*PenaltyLine
	for rows.Next() {
		var pl PenaltyLine
		if err := rows.Scan(&pl.Email, &pl.Loans, &pl.Posted, &pl.Accrued); err != nil {
			return nil, err
		}
		lines = append(lines, &pl)
	}
	return lines, rows.Err()
}

// LoanCount is the number of loans recorded in this session.
func (j *Journal) LoanCount() (int, error) {
	var n int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM loans WHERE session_id = ?`, j.session).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
