// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists paper metadata in a SQLite database keyed by
// paper ID.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

// authorSeparator joins the ordered author list into the single
// delimited column the research_papers schema uses.
const authorSeparator = ", "

// ErrNotFound indicates that no row exists for the requested paper ID.
var ErrNotFound = errors.New("paper not found")

// Store manages the research_papers SQLite database.
type Store struct {
	db *sql.DB
}

// New opens or creates the SQLite database at cfg.StoreLocation and
// creates the schema if it does not exist.
func New(cfg types.StorageConfig) (*Store, error) {
	if cfg.StoreLocation == "" {
		return nil, fmt.Errorf("store location not configured")
	}

	if dir := filepath.Dir(cfg.StoreLocation); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.StoreLocation+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS research_papers (
		paper_id TEXT PRIMARY KEY,
		title TEXT,
		authors TEXT,
		abstract TEXT,
		journal TEXT,
		doi TEXT,
		submission_date TEXT,
		pdf_file_path TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Upsert writes a metadata record, replacing any existing row that
// shares the paper ID. Replacement is whole-row: no field-level merge.
func (s *Store) Upsert(ctx context.Context, paper types.PaperMetadata) error {
	var doi any
	if paper.DOI != "" {
		doi = paper.DOI
	}

	dateStr := ""
	if !paper.SubmissionDate.IsZero() {
		dateStr = paper.SubmissionDate.Format("2006-01-02")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO research_papers
			(paper_id, title, authors, abstract, journal, doi, submission_date, pdf_file_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		paper.PaperID, paper.Title, strings.Join(paper.Authors, authorSeparator),
		paper.Abstract, paper.Journal, doi, dateStr, paper.PDFFilePath,
	)
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", paper.PaperID, err)
	}
	return nil
}

// Get returns the record for paperID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, paperID string) (types.PaperMetadata, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT paper_id, title, authors, abstract, journal, doi, submission_date, pdf_file_path
		 FROM research_papers WHERE paper_id = ?`, paperID)

	paper, err := scanPaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.PaperMetadata{}, fmt.Errorf("paper %s: %w", paperID, ErrNotFound)
	}
	if err != nil {
		return types.PaperMetadata{}, fmt.Errorf("reading paper %s: %w", paperID, err)
	}
	return paper, nil
}

// List returns all stored records ordered by paper ID.
func (s *Store) List(ctx context.Context) ([]types.PaperMetadata, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT paper_id, title, authors, abstract, journal, doi, submission_date, pdf_file_path
		 FROM research_papers ORDER BY paper_id`)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var papers []types.PaperMetadata
	for rows.Next() {
		paper, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		papers = append(papers, paper)
	}
	return papers, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPaper(row scanner) (types.PaperMetadata, error) {
	var (
		paper   types.PaperMetadata
		authors string
		doi     sql.NullString
		dateStr string
	)
	err := row.Scan(&paper.PaperID, &paper.Title, &authors, &paper.Abstract,
		&paper.Journal, &doi, &dateStr, &paper.PDFFilePath)
	if err != nil {
		return types.PaperMetadata{}, err
	}

	if authors != "" {
		paper.Authors = strings.Split(authors, authorSeparator)
	}
	paper.DOI = doi.String
	if dateStr != "" {
		if t, parseErr := time.Parse("2006-01-02", dateStr); parseErr == nil {
			paper.SubmissionDate = t
		}
	}
	return paper, nil
}
