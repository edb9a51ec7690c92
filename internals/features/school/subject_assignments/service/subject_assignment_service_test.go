// file: internals/features/school/subject_assignments/service/subject_assignment_service_test.go
package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	yearModel "shuleni_backend/internals/features/school/academic_years/model"
	classroomModel "shuleni_backend/internals/features/school/classrooms/model"
	schoolModel "shuleni_backend/internals/features/school/schools/model"
	subjectModel "shuleni_backend/internals/features/school/subjects/model"
	teacherModel "shuleni_backend/internals/features/school/teachers/model"
	userModel "shuleni_backend/internals/features/school/users/model"
	database "shuleni_backend/internals/databases"
)

type ledgerFixture struct {
	db        *gorm.DB
	svc       *SubjectAssignmentService
	school    schoolModel.SchoolModel
	teacher   teacherModel.TeacherModel
	subject   subjectModel.SubjectModel
	year      yearModel.AcademicYearModel
	classroom classroomModel.ClassroomModel
}

func newLedgerFixture(t *testing.T, hasStreams bool) *ledgerFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	f := &ledgerFixture{db: db, svc: NewSubjectAssignmentService(db)}

	f.school = schoolModel.SchoolModel{
		SchoolName:              "Ledger Test School",
		SchoolHasStreams:        hasStreams,
		SchoolPrimaryCurriculum: "CBC",
	}
	require.NoError(t, db.Create(&f.school).Error)

	user := userModel.UserModel{
		UserSchoolID:     f.school.SchoolID,
		UserEmail:        uuid.NewString() + "@test.sc.ke",
		UserPasswordHash: "x",
		UserFullName:     "Ledger Teacher",
		UserRole:         "teacher",
	}
	require.NoError(t, db.Create(&user).Error)
	f.teacher = teacherModel.TeacherModel{
		TeacherSchoolID:                 f.school.SchoolID,
		TeacherUserID:                   user.UserID,
		TeacherMaxClasses:               10,
		TeacherMaxSubjects:              5,
		TeacherMinWeeklyLessons:         12,
		TeacherMaxWeeklyLessons:         30,
		TeacherCurriculumSpecialization: "CBC",
	}
	require.NoError(t, db.Create(&f.teacher).Error)

	f.subject = subjectModel.SubjectModel{
		SubjectSchoolID:       f.school.SchoolID,
		SubjectName:           "Mathematics",
		SubjectCode:           "MAT",
		SubjectCurriculumType: "CBC",
		SubjectGradeLevel:     "Grade 7",
	}
	require.NoError(t, db.Create(&f.subject).Error)

	f.year = yearModel.AcademicYearModel{
		AcademicYearSchoolID:       f.school.SchoolID,
		AcademicYearYear:           "2026",
		AcademicYearTerm:           "Term 1",
		AcademicYearStartDate:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		AcademicYearEndDate:        time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
		AcademicYearCurriculumType: "CBC",
		AcademicYearIsActive:       true,
	}
	require.NoError(t, db.Create(&f.year).Error)

	f.classroom = classroomModel.ClassroomModel{
		ClassroomSchoolID:   f.school.SchoolID,
		ClassroomName:       "Grade 7 East",
		ClassroomGradeLevel: "Grade 7",
		ClassroomCapacity:   40,
	}
	require.NoError(t, db.Create(&f.classroom).Error)

	return f
}

func (f *ledgerFixture) input() CreateAssignmentInput {
	return CreateAssignmentInput{
		TeacherID:      f.teacher.TeacherID,
		SubjectID:      f.subject.SubjectID,
		AcademicYearID: f.year.AcademicYearID,
		ClassroomID:    &f.classroom.ClassroomID,
	}
}

func ledgerCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %T: %v", err, err)
	return fe.Code
}

func TestCreateAssignment(t *testing.T) {
	f := newLedgerFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.CreateAssignment(ctx, f.school.SchoolID, f.input())
	require.NoError(t, err)
	assert.Equal(t, 4, created.SubjectAssignmentWeeklyPeriods)
	assert.Equal(t, "main_teacher", created.SubjectAssignmentType)
	require.NotNil(t, created.SubjectAssignmentClassroomID)

	// same 4-tuple again conflicts
	_, err = f.svc.CreateAssignment(ctx, f.school.SchoolID, f.input())
	assert.Equal(t, fiber.StatusConflict, ledgerCode(t, err))
}

func TestCreateAssignmentTargetXOR(t *testing.T) {
	f := newLedgerFixture(t, false)
	ctx := context.Background()

	in := f.input()
	in.ClassroomID = nil
	_, err := f.svc.CreateAssignment(ctx, f.school.SchoolID, in)
	assert.Equal(t, fiber.StatusUnprocessableEntity, ledgerCode(t, err))

	streamID := uuid.New()
	in = f.input()
	in.StreamID = &streamID
	_, err = f.svc.CreateAssignment(ctx, f.school.SchoolID, in)
	assert.Equal(t, fiber.StatusUnprocessableEntity, ledgerCode(t, err))
}

func TestCreateAssignmentModeMismatch(t *testing.T) {
	f := newLedgerFixture(t, true)
	ctx := context.Background()

	// streamed school rejects a classroom target
	_, err := f.svc.CreateAssignment(ctx, f.school.SchoolID, f.input())
	assert.Equal(t, fiber.StatusUnprocessableEntity, ledgerCode(t, err))
}

func TestCreateAssignmentUnqualifiedCurriculum(t *testing.T) {
	f := newLedgerFixture(t, false)
	ctx := context.Background()

	legacy := subjectModel.SubjectModel{
		SubjectSchoolID:       f.school.SchoolID,
		SubjectName:           "History",
		SubjectCode:           "HIS",
		SubjectCurriculumType: "8-4-4",
		SubjectGradeLevel:     "Form 2",
	}
	require.NoError(t, f.db.Create(&legacy).Error)

	in := f.input()
	in.SubjectID = legacy.SubjectID
	_, err := f.svc.CreateAssignment(ctx, f.school.SchoolID, in)
	assert.Equal(t, fiber.StatusUnprocessableEntity, ledgerCode(t, err))
	assert.Contains(t, err.Error(), "specializes in CBC")
}

func TestCreateAssignmentQualifiedSubjectsSnapshot(t *testing.T) {
	f := newLedgerFixture(t, false)
	ctx := context.Background()

	// teacher qualified for MAT/PHY only
	require.NoError(t, f.db.Model(&teacherModel.TeacherModel{}).
		Where("teacher_id = ?", f.teacher.TeacherID).
		Update("teacher_qualified_subjects", datatypes.JSON(`["Mathematics","Physics"]`)).Error)

	_, err := f.svc.CreateAssignment(ctx, f.school.SchoolID, f.input())
	require.NoError(t, err)

	chemistry := subjectModel.SubjectModel{
		SubjectSchoolID:       f.school.SchoolID,
		SubjectName:           "Chemistry",
		SubjectCode:           "CHE",
		SubjectCurriculumType: "CBC",
		SubjectGradeLevel:     "Grade 7",
	}
	require.NoError(t, f.db.Create(&chemistry).Error)

	in := f.input()
	in.SubjectID = chemistry.SubjectID
	_, err = f.svc.CreateAssignment(ctx, f.school.SchoolID, in)
	assert.Equal(t, fiber.StatusUnprocessableEntity, ledgerCode(t, err))
	assert.Contains(t, err.Error(), "not qualified to teach Chemistry")
}

func TestCreateAssignmentCrossSchool(t *testing.T) {
	f := newLedgerFixture(t, false)
	ctx := context.Background()

	other := schoolModel.SchoolModel{
		SchoolName:              "Other School",
		SchoolPrimaryCurriculum: "CBC",
	}
	require.NoError(t, f.db.Create(&other).Error)
	foreign := subjectModel.SubjectModel{
		SubjectSchoolID:       other.SchoolID,
		SubjectName:           "Kiswahili",
		SubjectCode:           "KIS",
		SubjectCurriculumType: "CBC",
		SubjectGradeLevel:     "Grade 7",
	}
	require.NoError(t, f.db.Create(&foreign).Error)

	in := f.input()
	in.SubjectID = foreign.SubjectID
	_, err := f.svc.CreateAssignment(ctx, f.school.SchoolID, in)
	assert.Equal(t, fiber.StatusForbidden, ledgerCode(t, err))
}

func TestCreateAssignmentMaxSubjectsCap(t *testing.T) {
	f := newLedgerFixture(t, false)
	ctx := context.Background()

	require.NoError(t, f.db.Model(&teacherModel.TeacherModel{}).
		Where("teacher_id = ?", f.teacher.TeacherID).
		Update("teacher_max_subjects", 1).Error)

	_, err := f.svc.CreateAssignment(ctx, f.school.SchoolID, f.input())
	require.NoError(t, err)

	second := subjectModel.SubjectModel{
		SubjectSchoolID:       f.school.SchoolID,
		SubjectName:           "English",
		SubjectCode:           "ENG",
		SubjectCurriculumType: "CBC",
		SubjectGradeLevel:     "Grade 7",
	}
	require.NoError(t, f.db.Create(&second).Error)

	in := f.input()
	in.SubjectID = second.SubjectID
	_, err = f.svc.CreateAssignment(ctx, f.school.SchoolID, in)
	assert.Equal(t, fiber.StatusUnprocessableEntity, ledgerCode(t, err))
	assert.Contains(t, err.Error(), "maximum allowed (1)")
}

func TestWorkloadReport(t *testing.T) {
	f := newLedgerFixture(t, false)
	ctx := context.Background()

	in := f.input()
	in.WeeklyPeriods = 8
	_, err := f.svc.CreateAssignment(ctx, f.school.SchoolID, in)
	require.NoError(t, err)

	report, err := f.svc.Workload(ctx, f.school.SchoolID, f.teacher.TeacherID, f.year.AcademicYearID)
	require.NoError(t, err)
	assert.Equal(t, 8, report.TotalPeriods)
	assert.True(t, report.Underloaded)
	assert.False(t, report.Overloaded)
	assert.Len(t, report.Assignments, 1)

	english := subjectModel.SubjectModel{
		SubjectSchoolID:       f.school.SchoolID,
		SubjectName:           "English",
		SubjectCode:           "ENG",
		SubjectCurriculumType: "CBC",
		SubjectGradeLevel:     "Grade 7",
	}
	require.NoError(t, f.db.Create(&english).Error)
	in = f.input()
	in.SubjectID = english.SubjectID
	in.WeeklyPeriods = 10
	_, err = f.svc.CreateAssignment(ctx, f.school.SchoolID, in)
	require.NoError(t, err)

	report, err = f.svc.Workload(ctx, f.school.SchoolID, f.teacher.TeacherID, f.year.AcademicYearID)
	require.NoError(t, err)
	assert.Equal(t, 18, report.TotalPeriods)
	assert.False(t, report.Underloaded)
	assert.False(t, report.Overloaded)
}
