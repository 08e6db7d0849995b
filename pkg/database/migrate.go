package database

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// seedCompetences is the initial skill catalog. Names are stored verbatim;
// the normalized form handles case/whitespace duplicates.
var seedCompetences = []struct {
	Name      string
	Category  string
	IsTopList bool
	SortOrder int
}{
	{"Go", "programming", true, 1},
	{"Python", "programming", true, 2},
	{"JavaScript", "programming", true, 3},
	{"TypeScript", "programming", false, 4},
	{"Java", "programming", false, 5},
	{"C#", "programming", false, 6},
	{"SQL", "data", true, 10},
	{"PostgreSQL", "data", false, 11},
	{"Redis", "data", false, 12},
	{"Docker", "infrastructure", true, 20},
	{"Kubernetes", "infrastructure", false, 21},
	{"AWS", "infrastructure", false, 22},
	{"Linux", "infrastructure", false, 23},
	{"React", "frontend", true, 30},
	{"Vue", "frontend", false, 31},
	{"HTML/CSS", "frontend", false, 32},
	{"Project Management", "soft-skills", false, 40},
	{"Communication", "soft-skills", false, 41},
	{"Agile", "soft-skills", false, 42},
}

// Migrate applies the schema and seeds the competence catalog. Safe to run
// on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	if err := seedCompetenceCatalog(ctx, pool); err != nil {
		return fmt.Errorf("seed competences: %w", err)
	}

	log.Println("Database schema up to date")
	return nil
}

// seedCompetenceCatalog inserts the initial catalog rows, keyed on the
// normalized name so re-runs and case variants are no-ops.
func seedCompetenceCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	query := `
		INSERT INTO competences (name, category, normalized_name, is_top_list, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (normalized_name) DO NOTHING`

	for _, c := range seedCompetences {
		normalized := strings.ToUpper(strings.TrimSpace(c.Name))
		if _, err := pool.Exec(ctx, query, c.Name, c.Category, normalized, c.IsTopList, c.SortOrder); err != nil {
			return err
		}
	}
	return nil
}
