package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luminagems/gemstore/internal/domain"
	"github.com/pgvector/pgvector-go"
)

const gemstoneColumns = `id, serial_number, name, gem_type, color, cut, clarity, origin,
	weight_carats, price_cents, currency, in_stock, certification_lab, description,
	analysis, created_at, updated_at`

type GemstoneRepository struct {
	db dbtx
}

func NewGemstoneRepository(pool *pgxpool.Pool) *GemstoneRepository {
	return &GemstoneRepository{db: pool}
}

func NewGemstoneRepositoryWithTx(tx pgx.Tx) *GemstoneRepository {
	return &GemstoneRepository{db: tx}
}

func (r *GemstoneRepository) Create(ctx context.Context, g *domain.Gemstone) error {
	analysisJSON, err := marshalAnalysis(g.Analysis)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO gemstones (id, serial_number, name, gem_type, color, cut, clarity, origin,
		 weight_carats, price_cents, currency, in_stock, certification_lab, description, analysis, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		g.ID, g.SerialNumber, g.Name, string(g.GemType), g.Color, string(g.Cut), string(g.Clarity), g.Origin,
		g.WeightCarats, g.PriceCents, g.Currency, g.InStock, g.CertificationLab, g.Description,
		analysisJSON, g.CreatedAt, g.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrGemstoneAlreadyExists
	}
	return err
}

func (r *GemstoneRepository) GetByID(ctx context.Context, id string) (*domain.Gemstone, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+gemstoneColumns+` FROM gemstones WHERE id = $1`, id)
	return scanGemstone(row)
}

func (r *GemstoneRepository) GetBySerial(ctx context.Context, serial string) (*domain.Gemstone, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+gemstoneColumns+` FROM gemstones WHERE serial_number = $1`, serial)
	return scanGemstone(row)
}

func (r *GemstoneRepository) Update(ctx context.Context, g *domain.Gemstone) error {
	g.UpdatedAt = time.Now().UTC()
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE gemstones SET name = $1, color = $2, cut = $3, clarity = $4, origin = $5,
		 weight_carats = $6, price_cents = $7, currency = $8, in_stock = $9,
		 certification_lab = $10, description = $11, updated_at = $12
		 WHERE id = $13`,
		g.Name, g.Color, string(g.Cut), string(g.Clarity), g.Origin,
		g.WeightCarats, g.PriceCents, g.Currency, g.InStock,
		g.CertificationLab, g.Description, g.UpdatedAt, g.ID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrGemstoneNotFound
	}
	return nil
}

func (r *GemstoneRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM gemstones WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrGemstoneNotFound
	}
	return nil
}

func (r *GemstoneRepository) SetStock(ctx context.Context, id string, inStock bool) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE gemstones SET in_stock = $1, updated_at = $2 WHERE id = $3`,
		inStock, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrGemstoneNotFound
	}
	return nil
}

func (r *GemstoneRepository) UpdateAnalysis(ctx context.Context, id string, analysis *domain.GemAnalysis, embedding []float32) error {
	analysisJSON, err := marshalAnalysis(analysis)
	if err != nil {
		return err
	}

	var cmdTag pgconn.CommandTag
	if len(embedding) > 0 {
		cmdTag, err = r.db.Exec(ctx,
			`UPDATE gemstones SET analysis = $1, embedding = $2, updated_at = $3 WHERE id = $4`,
			analysisJSON, pgvector.NewVector(embedding), time.Now().UTC(), id,
		)
	} else {
		cmdTag, err = r.db.Exec(ctx,
			`UPDATE gemstones SET analysis = $1, updated_at = $2 WHERE id = $3`,
			analysisJSON, time.Now().UTC(), id,
		)
	}
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrGemstoneNotFound
	}
	return nil
}

// SimilarByEmbedding returns the stones nearest to id's analysis embedding
// by cosine distance. Stones without an embedding are excluded.
func (r *GemstoneRepository) SimilarByEmbedding(ctx context.Context, id string, limit int) ([]*domain.Gemstone, error) {
	rows, err := r.db.Query(ctx,
		`SELECT g.id, g.serial_number, g.name, g.gem_type, g.color, g.cut, g.clarity, g.origin,
		        g.weight_carats, g.price_cents, g.currency, g.in_stock, g.certification_lab, g.description,
		        g.analysis, g.created_at, g.updated_at
		 FROM gemstones g, (SELECT embedding FROM gemstones WHERE id = $1 AND embedding IS NOT NULL) ref
		 WHERE g.id <> $1 AND g.embedding IS NOT NULL
		 ORDER BY g.embedding <=> ref.embedding
		 LIMIT $2`,
		id, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGemstoneRows(rows)
}

func scanGemstone(row pgx.Row) (*domain.Gemstone, error) {
	var g domain.Gemstone
	var gemType, cut, clarity string
	var analysisJSON []byte
	err := row.Scan(&g.ID, &g.SerialNumber, &g.Name, &gemType, &g.Color, &cut, &clarity, &g.Origin,
		&g.WeightCarats, &g.PriceCents, &g.Currency, &g.InStock, &g.CertificationLab, &g.Description,
		&analysisJSON, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGemstoneNotFound
		}
		return nil, err
	}
	g.GemType = domain.GemType(gemType)
	g.Cut = domain.GemCut(cut)
	g.Clarity = domain.ClarityGrade(clarity)
	if len(analysisJSON) > 0 {
		var analysis domain.GemAnalysis
		if err := json.Unmarshal(analysisJSON, &analysis); err == nil {
			g.Analysis = &analysis
		}
	}
	return &g, nil
}

func scanGemstoneRows(rows pgx.Rows) ([]*domain.Gemstone, error) {
	var results []*domain.Gemstone
	for rows.Next() {
		g, err := scanGemstone(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, g)
	}
	return results, rows.Err()
}

func marshalAnalysis(analysis *domain.GemAnalysis) ([]byte, error) {
	if analysis == nil {
		return nil, nil
	}
	return json.Marshal(analysis)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
