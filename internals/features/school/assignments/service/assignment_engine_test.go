// file: internals/features/school/assignments/service/assignment_engine_test.go
package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	assignmentModel "shuleni_backend/internals/features/school/assignments/model"
	classroomModel "shuleni_backend/internals/features/school/classrooms/model"
	schoolModel "shuleni_backend/internals/features/school/schools/model"
	teacherModel "shuleni_backend/internals/features/school/teachers/model"
	userModel "shuleni_backend/internals/features/school/users/model"
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

func seedSchool(t *testing.T, db *gorm.DB, hasStreams bool) schoolModel.SchoolModel {
	t.Helper()
	school := schoolModel.SchoolModel{
		SchoolName:              "Test School",
		SchoolHasStreams:        hasStreams,
		SchoolPrimaryCurriculum: "CBC",
	}
	require.NoError(t, db.Create(&school).Error)
	return school
}

func seedTeacher(t *testing.T, db *gorm.DB, schoolID uuid.UUID, maxClasses int) teacherModel.TeacherModel {
	t.Helper()
	user := userModel.UserModel{
		UserSchoolID:     schoolID,
		UserEmail:        uuid.NewString() + "@test.sc.ke",
		UserPasswordHash: "x",
		UserFullName:     "Test Teacher",
		UserRole:         "teacher",
	}
	require.NoError(t, db.Create(&user).Error)

	teacher := teacherModel.TeacherModel{
		TeacherSchoolID:                 schoolID,
		TeacherUserID:                   user.UserID,
		TeacherMaxClasses:               maxClasses,
		TeacherMaxSubjects:              5,
		TeacherMinWeeklyLessons:         12,
		TeacherMaxWeeklyLessons:         30,
		TeacherCurriculumSpecialization: "Both",
	}
	require.NoError(t, db.Create(&teacher).Error)
	return teacher
}

func seedClassroom(t *testing.T, db *gorm.DB, schoolID uuid.UUID, name string) classroomModel.ClassroomModel {
	t.Helper()
	classroom := classroomModel.ClassroomModel{
		ClassroomSchoolID:   schoolID,
		ClassroomName:       name,
		ClassroomGradeLevel: "Grade 7",
		ClassroomCapacity:   40,
	}
	require.NoError(t, db.Create(&classroom).Error)
	return classroom
}

func seedStream(t *testing.T, db *gorm.DB, schoolID, classID uuid.UUID, name string) classroomModel.StreamModel {
	t.Helper()
	stream := classroomModel.StreamModel{
		StreamSchoolID: schoolID,
		StreamClassID:  classID,
		StreamName:     name,
		StreamCapacity: 40,
	}
	require.NoError(t, db.Create(&stream).Error)
	return stream
}

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	fe, ok := err.(*fiber.Error)
	require.True(t, ok, "expected *fiber.Error, got %T: %v", err, err)
	return fe.Code
}

/* ===================== plain mode ===================== */

func TestAssignTeacherToClassroom(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7 East")

	link, err := engine.AssignTeacherToClassroom(ctx, school.SchoolID, teacher.TeacherID, classroom.ClassroomID, false)
	require.NoError(t, err)
	assert.Equal(t, classroom.ClassroomID, link.ClassroomTeacherClassroomID)
	assert.Equal(t, teacher.TeacherID, link.ClassroomTeacherTeacherID)
	assert.False(t, link.ClassroomTeacherIsClassTeacher)

	// identical re-assignment conflicts
	_, err = engine.AssignTeacherToClassroom(ctx, school.SchoolID, teacher.TeacherID, classroom.ClassroomID, false)
	assert.Equal(t, fiber.StatusConflict, fiberCode(t, err))

	// one row, not two
	var count int64
	db.Model(&assignmentModel.ClassroomTeacherModel{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAssignTeacherToClassroomWrongMode(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)

	school := seedSchool(t, db, true)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")

	_, err := engine.AssignTeacherToClassroom(context.Background(), school.SchoolID, teacher.TeacherID, classroom.ClassroomID, false)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
}

func TestAssignTeacherToClassroomCrossSchool(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	other := seedSchool(t, db, false)
	foreignTeacher := seedTeacher(t, db, other.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")

	_, err := engine.AssignTeacherToClassroom(ctx, school.SchoolID, foreignTeacher.TeacherID, classroom.ClassroomID, false)
	assert.Equal(t, fiber.StatusForbidden, fiberCode(t, err))

	// unknown teacher is a 404, not a 403
	_, err = engine.AssignTeacherToClassroom(ctx, school.SchoolID, uuid.New(), classroom.ClassroomID, false)
	assert.Equal(t, fiber.StatusNotFound, fiberCode(t, err))
}

func TestAssignTeacherToClassroomCapacity(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	teacher := seedTeacher(t, db, school.SchoolID, 2)

	for i := 0; i < 2; i++ {
		classroom := seedClassroom(t, db, school.SchoolID, fmt.Sprintf("Grade %d", i+1))
		_, err := engine.AssignTeacherToClassroom(ctx, school.SchoolID, teacher.TeacherID, classroom.ClassroomID, false)
		require.NoError(t, err)
	}

	extra := seedClassroom(t, db, school.SchoolID, "Grade 3")
	_, err := engine.AssignTeacherToClassroom(ctx, school.SchoolID, teacher.TeacherID, extra.ClassroomID, false)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
	assert.Contains(t, err.Error(), "already has 2 classes")
	assert.Contains(t, err.Error(), "(2)")
}

func TestPromoteExistingLinkDoesNotChargeCapacity(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	teacher := seedTeacher(t, db, school.SchoolID, 1)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")

	_, err := engine.AssignTeacherToClassroom(ctx, school.SchoolID, teacher.TeacherID, classroom.ClassroomID, false)
	require.NoError(t, err)

	// at capacity, but promoting the same link must still succeed
	link, err := engine.AssignTeacherToClassroom(ctx, school.SchoolID, teacher.TeacherID, classroom.ClassroomID, true)
	require.NoError(t, err)
	assert.True(t, link.ClassroomTeacherIsClassTeacher)

	var count int64
	db.Model(&assignmentModel.ClassroomTeacherModel{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestClassTeacherUniquePerTeacher(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	first := seedClassroom(t, db, school.SchoolID, "Grade 7 East")
	second := seedClassroom(t, db, school.SchoolID, "Grade 7 West")

	_, err := engine.AssignTeacherToClassroom(ctx, school.SchoolID, teacher.TeacherID, first.ClassroomID, true)
	require.NoError(t, err)

	_, err = engine.AssignTeacherToClassroom(ctx, school.SchoolID, teacher.TeacherID, second.ClassroomID, true)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
	assert.Contains(t, err.Error(), "Grade 7 East")
}

func TestAssignWithClassTeacherNeverDemotesIncumbent(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	incumbent := seedTeacher(t, db, school.SchoolID, 10)
	challenger := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 8")

	_, err := engine.AssignTeacherToClassroom(ctx, school.SchoolID, incumbent.TeacherID, classroom.ClassroomID, true)
	require.NoError(t, err)

	_, err = engine.AssignTeacherToClassroom(ctx, school.SchoolID, challenger.TeacherID, classroom.ClassroomID, true)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
	assert.Contains(t, err.Error(), "class-teacher endpoint")
}

func TestAssignClassTeacherReplacesIncumbent(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	incumbent := seedTeacher(t, db, school.SchoolID, 10)
	successor := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 8")

	_, err := engine.AssignClassTeacher(ctx, school.SchoolID, incumbent.TeacherID, classroom.ClassroomID)
	require.NoError(t, err)

	link, err := engine.AssignClassTeacher(ctx, school.SchoolID, successor.TeacherID, classroom.ClassroomID)
	require.NoError(t, err)
	assert.Equal(t, successor.TeacherID, link.ClassroomTeacherTeacherID)

	// exactly one class teacher; the incumbent stays linked, demoted
	var holders int64
	db.Model(&assignmentModel.ClassroomTeacherModel{}).
		Where("classroom_teacher_classroom_id = ? AND classroom_teacher_is_class_teacher", classroom.ClassroomID).
		Count(&holders)
	assert.EqualValues(t, 1, holders)

	var rows int64
	db.Model(&assignmentModel.ClassroomTeacherModel{}).
		Where("classroom_teacher_classroom_id = ?", classroom.ClassroomID).
		Count(&rows)
	assert.EqualValues(t, 2, rows)
}

func TestRemoveClassTeacherIdempotent(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 6")

	_, err := engine.AssignClassTeacher(ctx, school.SchoolID, teacher.TeacherID, classroom.ClassroomID)
	require.NoError(t, err)

	require.NoError(t, engine.RemoveClassTeacher(ctx, school.SchoolID, classroom.ClassroomID))
	require.NoError(t, engine.RemoveClassTeacher(ctx, school.SchoolID, classroom.ClassroomID))

	// membership row survives the demotion
	var link assignmentModel.ClassroomTeacherModel
	require.NoError(t, db.First(&link, "classroom_teacher_classroom_id = ?", classroom.ClassroomID).Error)
	assert.False(t, link.ClassroomTeacherIsClassTeacher)
}

/* ===================== bulk ===================== */

func TestBulkAssignSkipsExisting(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	a := seedClassroom(t, db, school.SchoolID, "A")
	b := seedClassroom(t, db, school.SchoolID, "B")

	_, err := engine.AssignTeacherToClassroom(ctx, school.SchoolID, teacher.TeacherID, a.ClassroomID, false)
	require.NoError(t, err)

	result, err := engine.AssignTeacherToManyClassrooms(ctx, school.SchoolID, teacher.TeacherID,
		[]uuid.UUID{a.ClassroomID, b.ClassroomID})
	require.NoError(t, err)
	assert.Len(t, result.Assigned, 1)
	assert.Equal(t, []uuid.UUID{a.ClassroomID}, result.AlreadyAssigned)
	assert.Empty(t, result.Skipped)
}

func TestBulkAssignReportsRepeatedRequestIDs(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	a := seedClassroom(t, db, school.SchoolID, "A")
	b := seedClassroom(t, db, school.SchoolID, "B")

	// a appears twice: linked once, the repeat reported as skipped
	result, err := engine.AssignTeacherToManyClassrooms(ctx, school.SchoolID, teacher.TeacherID,
		[]uuid.UUID{a.ClassroomID, b.ClassroomID, a.ClassroomID})
	require.NoError(t, err)
	assert.Len(t, result.Assigned, 2)
	assert.Empty(t, result.AlreadyAssigned)
	assert.Equal(t, []uuid.UUID{a.ClassroomID}, result.Skipped)

	var rows int64
	db.Model(&assignmentModel.ClassroomTeacherModel{}).
		Where("classroom_teacher_teacher_id = ?", teacher.TeacherID).Count(&rows)
	assert.EqualValues(t, 2, rows)
}

func TestBulkAssignSkippedIDsNotChargedAgainstCapacity(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	teacher := seedTeacher(t, db, school.SchoolID, 2)
	a := seedClassroom(t, db, school.SchoolID, "A")
	b := seedClassroom(t, db, school.SchoolID, "B")

	_, err := engine.AssignTeacherToClassroom(ctx, school.SchoolID, teacher.TeacherID, a.ClassroomID, false)
	require.NoError(t, err)

	// 1 slot left, 2 ids requested but one is already linked: must pass
	result, err := engine.AssignTeacherToManyClassrooms(ctx, school.SchoolID, teacher.TeacherID,
		[]uuid.UUID{a.ClassroomID, b.ClassroomID})
	require.NoError(t, err)
	assert.Len(t, result.Assigned, 1)
}

func TestBulkAssignCapacityRejectsWholeBatch(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	teacher := seedTeacher(t, db, school.SchoolID, 2)
	ids := make([]uuid.UUID, 0, 3)
	for _, name := range []string{"A", "B", "C"} {
		ids = append(ids, seedClassroom(t, db, school.SchoolID, name).ClassroomID)
	}

	_, err := engine.AssignTeacherToManyClassrooms(ctx, school.SchoolID, teacher.TeacherID, ids)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
	assert.Contains(t, err.Error(), "3 new classrooms")
	assert.Contains(t, err.Error(), "2 slots available")

	// no partial commit
	var count int64
	db.Model(&assignmentModel.ClassroomTeacherModel{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestBulkAssignRejectsUnknownClassroom(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, false)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	a := seedClassroom(t, db, school.SchoolID, "A")

	_, err := engine.AssignTeacherToManyClassrooms(ctx, school.SchoolID, teacher.TeacherID,
		[]uuid.UUID{a.ClassroomID, uuid.New()})
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))

	var count int64
	db.Model(&assignmentModel.ClassroomTeacherModel{}).Count(&count)
	assert.EqualValues(t, 0, count)
}
