// file: internals/features/school/academic_years/service/academic_year_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	model "shuleni_backend/internals/features/school/academic_years/model"
	schoolModel "shuleni_backend/internals/features/school/schools/model"
	"shuleni_backend/internals/constants"
)

type AcademicYearService struct {
	DB *gorm.DB
}

func NewAcademicYearService(db *gorm.DB) *AcademicYearService {
	return &AcademicYearService{DB: db}
}

type TermInput struct {
	Term      string
	StartDate time.Time
	EndDate   time.Time
}

// resolveCurriculum applies the school configuration: a singular curriculum
// always wins; a school running both must get the value from the client.
func resolveCurriculum(school *schoolModel.SchoolModel, requested *string) (string, error) {
	effective := school.EffectiveCurriculum()
	if effective != constants.CurriculumBoth {
		return effective, nil
	}
	if requested == nil || *requested == "" {
		return "", fiber.NewError(fiber.StatusUnprocessableEntity,
			"This school runs both curricula; curriculum_type is required")
	}
	return *requested, nil
}

func loadSchool(tx *gorm.DB, schoolID uuid.UUID) (*schoolModel.SchoolModel, error) {
	var school schoolModel.SchoolModel
	if err := tx.First(&school, "school_id = ?", schoolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "School not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load school")
	}
	return &school, nil
}

// CreateTerm registers a single academic term.
func (s *AcademicYearService) CreateTerm(ctx context.Context, schoolID uuid.UUID, year string, in TermInput, requestedCurriculum *string) (*model.AcademicYearModel, error) {
	var term model.AcademicYearModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		school, err := loadSchool(tx, schoolID)
		if err != nil {
			return err
		}
		curriculum, err := resolveCurriculum(school, requestedCurriculum)
		if err != nil {
			return err
		}
		if in.EndDate.Before(in.StartDate) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "end_date must be on or after start_date")
		}

		var count int64
		if err := tx.Model(&model.AcademicYearModel{}).
			Where("academic_year_school_id = ? AND academic_year_year = ? AND academic_year_term = ? AND academic_year_curriculum_type = ?",
				schoolID, year, in.Term, curriculum).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing terms")
		}
		// same code as the bulk conflict path: a duplicate term is an
		// invariant violation, not a resource conflict
		if count > 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("%s %s already exists for the %s curriculum", year, in.Term, curriculum))
		}

		term = model.AcademicYearModel{
			AcademicYearSchoolID:       schoolID,
			AcademicYearYear:           year,
			AcademicYearTerm:           in.Term,
			AcademicYearStartDate:      in.StartDate,
			AcademicYearEndDate:        in.EndDate,
			AcademicYearCurriculumType: curriculum,
		}
		if err := tx.Create(&term).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create term")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &term, nil
}

// CreateBulkTerms registers a set of terms for one year. Conflicts are
// collected first and reported together; nothing is written when any
// requested term already exists.
func (s *AcademicYearService) CreateBulkTerms(ctx context.Context, schoolID uuid.UUID, year string, terms []TermInput, requestedCurriculum *string) ([]model.AcademicYearModel, error) {
	var created []model.AcademicYearModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		school, err := loadSchool(tx, schoolID)
		if err != nil {
			return err
		}
		curriculum, err := resolveCurriculum(school, requestedCurriculum)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			if seen[t.Term] {
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					fmt.Sprintf("%s appears more than once in the request", t.Term))
			}
			seen[t.Term] = true
			if t.EndDate.Before(t.StartDate) {
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					fmt.Sprintf("%s: end_date must be on or after start_date", t.Term))
			}
		}

		// conflict scan first, then write all
		var conflicting []string
		if err := tx.Model(&model.AcademicYearModel{}).
			Where("academic_year_school_id = ? AND academic_year_year = ? AND academic_year_curriculum_type = ?",
				schoolID, year, curriculum).
			Pluck("academic_year_term", &conflicting).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing terms")
		}
		existing := make(map[string]bool, len(conflicting))
		for _, t := range conflicting {
			existing[t] = true
		}
		var clashes []string
		for _, t := range terms {
			if existing[t.Term] {
				clashes = append(clashes, t.Term)
			}
		}
		if len(clashes) > 0 {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Terms already exist for %s: %s", year, strings.Join(clashes, ", ")))
		}

		for _, t := range terms {
			term := model.AcademicYearModel{
				AcademicYearSchoolID:       schoolID,
				AcademicYearYear:           year,
				AcademicYearTerm:           t.Term,
				AcademicYearStartDate:      t.StartDate,
				AcademicYearEndDate:        t.EndDate,
				AcademicYearCurriculumType: curriculum,
			}
			if err := tx.Create(&term).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to create term")
			}
			created = append(created, term)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SetActive flips the active term. Siblings are deactivated and the target
// activated inside one transaction, so readers never observe zero or two
// active terms after commit.
func (s *AcademicYearService) SetActive(ctx context.Context, schoolID, academicYearID uuid.UUID) (*model.AcademicYearModel, error) {
	var term model.AcademicYearModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&term, "academic_year_id = ?", academicYearID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Academic term not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load term")
		}
		if term.AcademicYearSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Academic term belongs to a different school")
		}

		if err := tx.Model(&model.AcademicYearModel{}).
			Where("academic_year_school_id = ? AND academic_year_is_active = ?", schoolID, true).
			Update("academic_year_is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to deactivate current term")
		}
		if err := tx.Model(&model.AcademicYearModel{}).
			Where("academic_year_id = ?", academicYearID).
			Update("academic_year_is_active", true).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to activate term")
		}
		term.AcademicYearIsActive = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &term, nil
}
