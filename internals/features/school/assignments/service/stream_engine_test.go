// file: internals/features/school/assignments/service/stream_engine_test.go
package service

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	assignmentModel "shuleni_backend/internals/features/school/assignments/model"
	classroomModel "shuleni_backend/internals/features/school/classrooms/model"
	subjectAssignmentModel "shuleni_backend/internals/features/school/subject_assignments/model"
)

func TestAssignClassTeacherToStream(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, true)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")
	stream := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Grade 7 Blue")

	got, err := engine.AssignClassTeacherToStream(ctx, school.SchoolID, teacher.TeacherID, stream.StreamID)
	require.NoError(t, err)
	require.NotNil(t, got.StreamClassTeacherID)
	assert.Equal(t, teacher.TeacherID, *got.StreamClassTeacherID)

	// homeroom promotion creates the membership row too
	var membership assignmentModel.StreamTeacherModel
	require.NoError(t, db.First(&membership,
		"stream_teacher_stream_id = ? AND stream_teacher_teacher_id = ?", stream.StreamID, teacher.TeacherID).Error)
}

func TestAssignClassTeacherToStreamWrongMode(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)

	school := seedSchool(t, db, false)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")
	stream := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Blue")

	_, err := engine.AssignClassTeacherToStream(context.Background(), school.SchoolID, teacher.TeacherID, stream.StreamID)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
}

func TestStreamClassTeacherUniquePerTeacher(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, true)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")
	blue := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Grade 7 Blue")
	green := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Grade 7 Green")

	_, err := engine.AssignClassTeacherToStream(ctx, school.SchoolID, teacher.TeacherID, blue.StreamID)
	require.NoError(t, err)

	_, err = engine.AssignClassTeacherToStream(ctx, school.SchoolID, teacher.TeacherID, green.StreamID)
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
	assert.Contains(t, err.Error(), "Grade 7 Blue")
}

func TestStreamClassTeacherReplacesIncumbent(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, true)
	incumbent := seedTeacher(t, db, school.SchoolID, 10)
	successor := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")
	stream := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Blue")

	_, err := engine.AssignClassTeacherToStream(ctx, school.SchoolID, incumbent.TeacherID, stream.StreamID)
	require.NoError(t, err)

	got, err := engine.AssignClassTeacherToStream(ctx, school.SchoolID, successor.TeacherID, stream.StreamID)
	require.NoError(t, err)
	assert.Equal(t, successor.TeacherID, *got.StreamClassTeacherID)

	// the incumbent keeps their membership row
	var members int64
	db.Model(&assignmentModel.StreamTeacherModel{}).
		Where("stream_teacher_stream_id = ?", stream.StreamID).Count(&members)
	assert.EqualValues(t, 2, members)
}

func TestRemoveClassTeacherFromStreamKeepsMembership(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, true)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")
	stream := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Blue")

	_, err := engine.AssignClassTeacherToStream(ctx, school.SchoolID, teacher.TeacherID, stream.StreamID)
	require.NoError(t, err)

	require.NoError(t, engine.RemoveClassTeacherFromStream(ctx, school.SchoolID, stream.StreamID))
	require.NoError(t, engine.RemoveClassTeacherFromStream(ctx, school.SchoolID, stream.StreamID))

	var st classroomModel.StreamModel
	require.NoError(t, db.First(&st, "stream_id = ?", stream.StreamID).Error)
	assert.Nil(t, st.StreamClassTeacherID)

	var members int64
	db.Model(&assignmentModel.StreamTeacherModel{}).
		Where("stream_teacher_stream_id = ?", stream.StreamID).Count(&members)
	assert.EqualValues(t, 1, members)
}

func TestAssignTeachersToStreamSkipsExisting(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, true)
	first := seedTeacher(t, db, school.SchoolID, 10)
	second := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")
	stream := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Blue")

	_, err := engine.AssignTeachersToStream(ctx, school.SchoolID, stream.StreamID, []uuid.UUID{first.TeacherID})
	require.NoError(t, err)

	result, err := engine.AssignTeachersToStream(ctx, school.SchoolID, stream.StreamID,
		[]uuid.UUID{first.TeacherID, second.TeacherID, second.TeacherID})
	require.NoError(t, err)
	assert.Len(t, result.Assigned, 1)
	assert.Equal(t, []uuid.UUID{first.TeacherID}, result.AlreadyAssigned)
	assert.Equal(t, []uuid.UUID{second.TeacherID}, result.Skipped)
}

func TestAssignTeachersToStreamCapacityRejectsAll(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, true)
	roomy := seedTeacher(t, db, school.SchoolID, 10)
	full := seedTeacher(t, db, school.SchoolID, 1)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")
	blue := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Blue")
	green := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Green")

	_, err := engine.AssignTeachersToStream(ctx, school.SchoolID, blue.StreamID, []uuid.UUID{full.TeacherID})
	require.NoError(t, err)

	// one over-capacity teacher sinks the whole batch
	_, err = engine.AssignTeachersToStream(ctx, school.SchoolID, green.StreamID,
		[]uuid.UUID{roomy.TeacherID, full.TeacherID})
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))

	var members int64
	db.Model(&assignmentModel.StreamTeacherModel{}).
		Where("stream_teacher_stream_id = ?", green.StreamID).Count(&members)
	assert.EqualValues(t, 0, members)
}

func TestRemoveTeacherFromStreamClearsHomeroom(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, true)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")
	stream := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Blue")

	_, err := engine.AssignClassTeacherToStream(ctx, school.SchoolID, teacher.TeacherID, stream.StreamID)
	require.NoError(t, err)

	require.NoError(t, engine.RemoveTeacherFromStream(ctx, school.SchoolID, stream.StreamID, teacher.TeacherID))

	var st classroomModel.StreamModel
	require.NoError(t, db.First(&st, "stream_id = ?", stream.StreamID).Error)
	assert.Nil(t, st.StreamClassTeacherID)

	var members int64
	db.Model(&assignmentModel.StreamTeacherModel{}).
		Where("stream_teacher_stream_id = ?", stream.StreamID).Count(&members)
	assert.EqualValues(t, 0, members)
}

func TestCapacityCountsSpanBothRelations(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	// a school migrating modes keeps old classroom links; the cap sees both
	school := seedSchool(t, db, true)
	teacher := seedTeacher(t, db, school.SchoolID, 2)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")
	blue := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Blue")
	green := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Green")

	require.NoError(t, db.Create(&assignmentModel.ClassroomTeacherModel{
		ClassroomTeacherSchoolID:    school.SchoolID,
		ClassroomTeacherClassroomID: classroom.ClassroomID,
		ClassroomTeacherTeacherID:   teacher.TeacherID,
	}).Error)

	_, err := engine.AssignTeachersToStream(ctx, school.SchoolID, blue.StreamID, []uuid.UUID{teacher.TeacherID})
	require.NoError(t, err)

	_, err = engine.AssignTeachersToStream(ctx, school.SchoolID, green.StreamID, []uuid.UUID{teacher.TeacherID})
	assert.Equal(t, fiber.StatusUnprocessableEntity, fiberCode(t, err))
}

func TestCascadeTeacherRemoval(t *testing.T) {
	db := newTestDB(t)
	engine := NewAssignmentEngine(db)
	ctx := context.Background()

	school := seedSchool(t, db, true)
	teacher := seedTeacher(t, db, school.SchoolID, 10)
	classroom := seedClassroom(t, db, school.SchoolID, "Grade 7")
	stream := seedStream(t, db, school.SchoolID, classroom.ClassroomID, "Blue")

	_, err := engine.AssignClassTeacherToStream(ctx, school.SchoolID, teacher.TeacherID, stream.StreamID)
	require.NoError(t, err)
	require.NoError(t, db.Create(&assignmentModel.ClassroomTeacherModel{
		ClassroomTeacherSchoolID:    school.SchoolID,
		ClassroomTeacherClassroomID: classroom.ClassroomID,
		ClassroomTeacherTeacherID:   teacher.TeacherID,
	}).Error)
	require.NoError(t, db.Create(&subjectAssignmentModel.SubjectAssignmentModel{
		SubjectAssignmentSchoolID:       school.SchoolID,
		SubjectAssignmentTeacherID:      teacher.TeacherID,
		SubjectAssignmentSubjectID:      uuid.New(),
		SubjectAssignmentAcademicYearID: uuid.New(),
		SubjectAssignmentStreamID:       &stream.StreamID,
	}).Error)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return engine.CascadeTeacherRemoval(ctx, tx, teacher.TeacherID)
	}))

	var classroomLinks, streamLinks, ledgerRows int64
	db.Model(&assignmentModel.ClassroomTeacherModel{}).
		Where("classroom_teacher_teacher_id = ?", teacher.TeacherID).Count(&classroomLinks)
	db.Model(&assignmentModel.StreamTeacherModel{}).
		Where("stream_teacher_teacher_id = ?", teacher.TeacherID).Count(&streamLinks)
	db.Model(&subjectAssignmentModel.SubjectAssignmentModel{}).
		Where("subject_assignment_teacher_id = ?", teacher.TeacherID).Count(&ledgerRows)
	assert.EqualValues(t, 0, classroomLinks)
	assert.EqualValues(t, 0, streamLinks)
	assert.EqualValues(t, 0, ledgerRows)

	var st classroomModel.StreamModel
	require.NoError(t, db.First(&st, "stream_id = ?", stream.StreamID).Error)
	assert.Nil(t, st.StreamClassTeacherID)
}
