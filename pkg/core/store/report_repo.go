package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"btr_valuation/pkg/core/report"
)

// ReportRepo handles the storage of generated reports.
type ReportRepo struct{}

// NewReportRepo creates a new repository instance.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{}
}

// Schema assumption:
// CREATE TABLE IF NOT EXISTS btr_reports (
//   id UUID PRIMARY KEY,
//   postcode TEXT,
//   address TEXT,
//   report_json JSONB,
//   updated_at TIMESTAMPTZ
// );

// Save persists a report, upserting on its ID. The whole report goes into a
// single JSONB column: reports are read back whole, never queried by field.
func (r *ReportRepo) Save(ctx context.Context, rep *report.Report) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO btr_reports (id, postcode, address, report_json, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			postcode = EXCLUDED.postcode,
			address = EXCLUDED.address,
			report_json = EXCLUDED.report_json,
			updated_at = EXCLUDED.updated_at;
	`

	_, err = pool.Exec(ctx, query, rep.ID, rep.Postcode, rep.Address, jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Load retrieves one report by ID.
func (r *ReportRepo) Load(ctx context.Context, id string) (*report.Report, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	err := pool.QueryRow(ctx, `SELECT report_json FROM btr_reports WHERE id = $1`, id).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no report found for id %s", id)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var rep report.Report
	if err := json.Unmarshal(jsonData, &rep); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &rep, nil
}

// ListByPostcode returns the most recent reports for a postcode, newest
// first.
func (r *ReportRepo) ListByPostcode(ctx context.Context, postcode string, limit int) ([]*report.Report, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := pool.Query(ctx,
		`SELECT report_json FROM btr_reports WHERE postcode = $1 ORDER BY updated_at DESC LIMIT $2`,
		postcode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*report.Report
	for rows.Next() {
		var jsonData []byte
		if err := rows.Scan(&jsonData); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		var rep report.Report
		if err := json.Unmarshal(jsonData, &rep); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		reports = append(reports, &rep)
	}
	return reports, rows.Err()
}
