package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"advisor_scraper/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// Repo persists crawl output and serves the read API. It implements
// both domain.Sink and domain.BusinessRepository.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveBusinesses(ctx context.Context, bs []domain.Business) error {
	if len(bs) == 0 {
		return nil
	}
	values := make([]string, 0, len(bs))
	args := make([]any, 0, len(bs)*15) // 15 params per row
	for _, b := range bs {
		cats, _ := json.Marshal(b.Categories)
		var lat, lon any
		if b.Coords != nil {
			lat, lon = b.Coords.Lat, b.Coords.Lon
		}
		values = append(values, "(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)")
		args = append(args,
			b.ID,
			b.SourceURL,
			valStr(b.Name),
			valStr(b.City),
			valStr(b.FullAddress),
			valStr(b.Phone),
			b.PriceTag,
			string(cats),
			b.Stars,
			b.ReviewCount,
			lat,
			lon,
			valStr(b.ImageURL),
			b.IsClaimed,
			b.IsClosed,
		)
	}
	sqlStr := insertBusinessesPrefix + strings.Join(values, ",") + insertBusinessesOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) SaveReviews(ctx context.Context, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*8) // 8 params per row
	for _, rv := range rs {
		values = append(values, "(?,?,?,?,?,?,?,?)")
		args = append(args,
			rv.ReviewID,
			rv.BusinessID,
			valStr(rv.UserID),
			rv.Title,
			rv.Text,
			rv.Date,
			rv.Rating,
			rv.Votes,
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, url, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, url, reason)
	return err
}

func (r *Repo) GetBusiness(ctx context.Context, id string) (domain.Business, error) {
	row := r.db.QueryRowContext(ctx, getBusinessSQL, id)
	b, err := scanBusiness(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Business{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) ListBusinesses(ctx context.Context, q domain.BusinessQuery) ([]domain.Business, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	city := valStr(q.City)
	rows, err := r.db.QueryContext(ctx, listBusinessesSQL, city, city, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Business
	for rows.Next() {
		b, err := scanBusiness(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBusiness(scan func(...any) error) (domain.Business, error) {
	var b domain.Business
	var name, city, addr, phone, image sql.NullString
	var catsJSON []byte
	var lat, lon sql.NullFloat64

	if err := scan(
		&b.ID,
		&b.SourceURL,
		&name,
		&city,
		&addr,
		&phone,
		&b.PriceTag,
		&catsJSON,
		&b.Stars,
		&b.ReviewCount,
		&lat,
		&lon,
		&image,
		&b.IsClaimed,
		&b.IsClosed,
	); err != nil {
		return domain.Business{}, err
	}

	if name.Valid {
		s := name.String
		b.Name = &s
	}
	if city.Valid {
		s := city.String
		b.City = &s
	}
	if addr.Valid {
		s := addr.String
		b.FullAddress = &s
	}
	if phone.Valid {
		s := phone.String
		b.Phone = &s
	}
	if image.Valid {
		s := image.String
		b.ImageURL = &s
	}
	if lat.Valid && lon.Valid {
		b.Coords = &domain.Coords{Lat: lat.Float64, Lon: lon.Float64}
	}
	_ = json.Unmarshal(catsJSON, &b.Categories)
	return b, nil
}

func (r *Repo) ListReviews(ctx context.Context, businessID string, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var userID sql.NullString
		if err := rows.Scan(
			&rv.ReviewID,
			&rv.BusinessID,
			&userID,
			&rv.Title,
			&rv.Text,
			&rv.Date,
			&rv.Rating,
			&rv.Votes,
		); err != nil {
			return nil, err
		}
		if userID.Valid {
			s := userID.String
			rv.UserID = &s
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
