package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"noonpick/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) GetOffice(ctx context.Context, code string) (domain.Office, error) {
	row := r.db.QueryRowContext(ctx, getOfficeSQL, code)

	var o domain.Office
	var addr sql.NullString
	if err := row.Scan(&o.Code, &o.Name, &addr, &o.Lat, &o.Lng, &o.IsDefault); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Office{}, domain.ErrOfficeNotFound
		}
		return domain.Office{}, fmt.Errorf("get office %s: %w", code, err)
	}
	if addr.Valid {
		o.Address = addr.String
	}
	return o, nil
}

func (r *Repo) ListOffices(ctx context.Context) ([]domain.Office, error) {
	rows, err := r.db.QueryContext(ctx, listOfficesSQL)
	if err != nil {
		return nil, fmt.Errorf("list offices: %w", err)
	}
	defer rows.Close()

	var out []domain.Office
	for rows.Next() {
		var o domain.Office
		var addr sql.NullString
		if err := rows.Scan(&o.Code, &o.Name, &addr, &o.Lat, &o.Lng, &o.IsDefault); err != nil {
			return nil, err
		}
		if addr.Valid {
			o.Address = addr.String
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) SeedOffices(ctx context.Context, offices []domain.Office) error {
	for _, o := range offices {
		if _, err := r.db.ExecContext(ctx, insertOfficeSQL,
			o.Code, o.Name, o.Address, o.Lat, o.Lng, o.IsDefault,
		); err != nil {
			return fmt.Errorf("seed office %s: %w", o.Code, err)
		}
	}
	return nil
}

func (r *Repo) RecordVisit(ctx context.Context, userID int64, placeKey, placeName string) error {
	_, err := r.db.ExecContext(ctx, insertVisitSQL, userID, placeKey, placeName)
	return err
}

func (r *Repo) LogEvent(ctx context.Context, userID, service, action, targetID string, meta map[string]any) error {
	var metaJSON any
	if meta != nil {
		b, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("marshal event meta: %w", err)
		}
		metaJSON = string(b)
	}
	_, err := r.db.ExecContext(ctx, insertEventSQL, userID, service, action, targetID, metaJSON)
	return err
}
