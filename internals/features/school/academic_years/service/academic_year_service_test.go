// file: internals/features/school/academic_years/service/academic_year_service_test.go
package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	model "shuleni_backend/internals/features/school/academic_years/model"
	schoolModel "shuleni_backend/internals/features/school/schools/model"
	database "shuleni_backend/internals/databases"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func seedSchool(t *testing.T, db *gorm.DB, primary string, secondary *string) schoolModel.SchoolModel {
	t.Helper()
	school := schoolModel.SchoolModel{
		SchoolName:                "Year Test School",
		SchoolPrimaryCurriculum:   primary,
		SchoolSecondaryCurriculum: secondary,
	}
	require.NoError(t, db.Create(&school).Error)
	return school
}

func termInput(term string, startMonth time.Month) TermInput {
	start := time.Date(2026, startMonth, 5, 0, 0, 0, 0, time.UTC)
	return TermInput{Term: term, StartDate: start, EndDate: start.AddDate(0, 3, 0)}
}

func yearCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %T: %v", err, err)
	return fe.Code
}

func TestCreateTermAutoResolvesCurriculum(t *testing.T) {
	db := newTestDB(t)
	svc := NewAcademicYearService(db)
	school := seedSchool(t, db, "CBC", nil)

	// client-supplied value is overridden by the school's single curriculum
	legacy := "8-4-4"
	term, err := svc.CreateTerm(context.Background(), school.SchoolID, "2026", termInput("Term 1", time.January), &legacy)
	require.NoError(t, err)
	assert.Equal(t, "CBC", term.AcademicYearCurriculumType)
	assert.False(t, term.AcademicYearIsActive)
}

func TestCreateTermBothCurriculaRequiresInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewAcademicYearService(db)
	secondary := "8-4-4"
	school := seedSchool(t, db, "CBC", &secondary)
	ctx := context.Background()

	_, err := svc.CreateTerm(ctx, school.SchoolID, "2026", termInput("Term 1", time.January), nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, yearCode(t, err))

	chosen := "8-4-4"
	term, err := svc.CreateTerm(ctx, school.SchoolID, "2026", termInput("Term 1", time.January), &chosen)
	require.NoError(t, err)
	assert.Equal(t, "8-4-4", term.AcademicYearCurriculumType)
}

func TestCreateTermDuplicateConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewAcademicYearService(db)
	school := seedSchool(t, db, "CBC", nil)
	ctx := context.Background()

	_, err := svc.CreateTerm(ctx, school.SchoolID, "2026", termInput("Term 1", time.January), nil)
	require.NoError(t, err)

	// duplicate gets the same code whether created singly or in bulk
	_, err = svc.CreateTerm(ctx, school.SchoolID, "2026", termInput("Term 1", time.January), nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, yearCode(t, err))
	assert.Contains(t, err.Error(), "Term 1")
}

func TestCreateBulkTerms(t *testing.T) {
	db := newTestDB(t)
	svc := NewAcademicYearService(db)
	school := seedSchool(t, db, "CBC", nil)
	ctx := context.Background()

	created, err := svc.CreateBulkTerms(ctx, school.SchoolID, "2026", []TermInput{
		termInput("Term 1", time.January),
		termInput("Term 2", time.May),
		termInput("Term 3", time.September),
	}, nil)
	require.NoError(t, err)
	assert.Len(t, created, 3)
}

func TestCreateBulkTermsReportsAllConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewAcademicYearService(db)
	school := seedSchool(t, db, "CBC", nil)
	ctx := context.Background()

	_, err := svc.CreateBulkTerms(ctx, school.SchoolID, "2026", []TermInput{
		termInput("Term 1", time.January),
		termInput("Term 2", time.May),
	}, nil)
	require.NoError(t, err)

	_, err = svc.CreateBulkTerms(ctx, school.SchoolID, "2026", []TermInput{
		termInput("Term 1", time.January),
		termInput("Term 2", time.May),
		termInput("Term 3", time.September),
	}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, yearCode(t, err))
	assert.Contains(t, err.Error(), "Term 1")
	assert.Contains(t, err.Error(), "Term 2")

	// nothing written: Term 3 must not exist
	var count int64
	db.Model(&model.AcademicYearModel{}).
		Where("academic_year_school_id = ? AND academic_year_term = ?", school.SchoolID, "Term 3").
		Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCreateBulkTermsRejectsDuplicateInRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewAcademicYearService(db)
	school := seedSchool(t, db, "CBC", nil)

	_, err := svc.CreateBulkTerms(context.Background(), school.SchoolID, "2026", []TermInput{
		termInput("Term 1", time.January),
		termInput("Term 1", time.May),
	}, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, yearCode(t, err))
}

func TestSetActiveSingleActiveTerm(t *testing.T) {
	db := newTestDB(t)
	svc := NewAcademicYearService(db)
	school := seedSchool(t, db, "CBC", nil)
	ctx := context.Background()

	created, err := svc.CreateBulkTerms(ctx, school.SchoolID, "2026", []TermInput{
		termInput("Term 1", time.January),
		termInput("Term 2", time.May),
	}, nil)
	require.NoError(t, err)

	_, err = svc.SetActive(ctx, school.SchoolID, created[0].AcademicYearID)
	require.NoError(t, err)
	_, err = svc.SetActive(ctx, school.SchoolID, created[1].AcademicYearID)
	require.NoError(t, err)

	var active []model.AcademicYearModel
	require.NoError(t, db.
		Where("academic_year_school_id = ? AND academic_year_is_active", school.SchoolID).
		Find(&active).Error)
	require.Len(t, active, 1)
	assert.Equal(t, created[1].AcademicYearID, active[0].AcademicYearID)
}

func TestSetActiveCrossSchool(t *testing.T) {
	db := newTestDB(t)
	svc := NewAcademicYearService(db)
	school := seedSchool(t, db, "CBC", nil)
	other := seedSchool(t, db, "CBC", nil)
	ctx := context.Background()

	term, err := svc.CreateTerm(ctx, school.SchoolID, "2026", termInput("Term 1", time.January), nil)
	require.NoError(t, err)

	_, err = svc.SetActive(ctx, other.SchoolID, term.AcademicYearID)
	assert.Equal(t, fiber.StatusForbidden, yearCode(t, err))
}
