package domain

import "context"

// CompetenceNameMaxLen bounds the verbatim competence name.
const CompetenceNameMaxLen = 100

// CategoryGeneral is the default category for uncategorized competences.
const CategoryGeneral = "general"

type Competence struct {
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required,max=100,no_emoji"`
	Category string `json:"category"`
	// Trimmed upper-cased form of Name; unique in the catalog.
	NormalizedName string `json:"-"`
	IsTopList      bool   `json:"is_top_list"`
	SortOrder      int    `json:"sort_order"`
}

type UserCompetence struct {
	UserID       string `json:"user_id"`
	CompetenceID int64  `json:"competence_id"`
}

// CompetenceMerge records one merge-by-normalized-name operation: the
// surviving master row and the duplicate ids folded into it.
type CompetenceMerge struct {
	MasterID     int64    `json:"master_id"`
	Name         string   `json:"name"`
	MergedIDs    []int64  `json:"merged_ids"`
	KeptTopList  bool     `json:"kept_top_list"`
	KeptCategory string   `json:"kept_category"`
}

type CompetenceRepository interface {
	List(ctx context.Context) ([]Competence, error)
	ListByUser(ctx context.Context, userID string) ([]Competence, error)
	// ReplaceUserSelection swaps the user's competence set; re-selecting an
	// already-selected competence is a no-op, never an error.
	ReplaceUserSelection(ctx context.Context, userID string, competenceIDs []int64) error
	// Deduplicate merges catalog rows whose normalized names collide:
	// dependents are repointed to the master row, then the duplicates are
	// deleted, all in one transaction.
	Deduplicate(ctx context.Context) ([]CompetenceMerge, error)
}

type CompetenceUsecase interface {
	Catalog(ctx context.Context) ([]Competence, error)
	ListMine(ctx context.Context) ([]Competence, error)
	ReplaceMine(ctx context.Context, competenceIDs []int64) error
}
