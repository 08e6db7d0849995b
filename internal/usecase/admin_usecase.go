package usecase

import (
	"bytes"
	"context"
	"fmt"

	"go-cvnetwork-backend/internal/domain"
	"go-cvnetwork-backend/pkg/audit"

	"github.com/xuri/excelize/v2"
)

type adminUsecase struct {
	userRepo       domain.UserRepository
	competenceRepo domain.CompetenceRepository
}

func NewAdminUsecase(userRepo domain.UserRepository, competenceRepo domain.CompetenceRepository) domain.AdminUsecase {
	return &adminUsecase{
		userRepo:       userRepo,
		competenceRepo: competenceRepo,
	}
}

// ExportUsersXLSX renders the full user directory as a spreadsheet for
// offline moderation work.
func (u *adminUsecase) ExportUsersXLSX(ctx context.Context) ([]byte, error) {
	users, err := u.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Users"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Email", "First Name", "Last Name", "City", "Postal Code", "Role", "Deactivated", "Private", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, user := range users {
		values := []interface{}{
			user.ID,
			user.Email,
			user.FirstName,
			user.LastName,
			user.City,
			user.PostalCode,
			user.Role,
			user.IsDeactivated,
			user.IsProfilePrivate,
			user.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DedupeCompetences collapses catalog rows whose normalized names collide
// and reports every merge performed.
func (u *adminUsecase) DedupeCompetences(ctx context.Context) ([]domain.CompetenceMerge, error) {
	actorID, _ := ctx.Value(domain.KeyUserID).(string)

	merges, err := u.competenceRepo.Deduplicate(ctx)
	if err != nil {
		return nil, err
	}

	for _, m := range merges {
		audit.Default().Log(audit.Event{
			Event:   audit.EventCompetenceMerge,
			ActorID: actorID,
			Details: map[string]interface{}{
				"master_id":  m.MasterID,
				"name":       m.Name,
				"merged_ids": fmt.Sprint(m.MergedIDs),
			},
		})
	}
	return merges, nil
}
