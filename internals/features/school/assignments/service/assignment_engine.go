// file: internals/features/school/assignments/service/assignment_engine.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	assignmentModel "shuleni_backend/internals/features/school/assignments/model"
	classroomModel "shuleni_backend/internals/features/school/classrooms/model"
	schoolModel "shuleni_backend/internals/features/school/schools/model"
	teacherModel "shuleni_backend/internals/features/school/teachers/model"
)

/*
=========================================================
  AssignmentEngine
  Owns classroom_teachers, stream_teachers and
  streams.stream_class_teacher_id. Every public method runs
  in a single transaction; the teacher row is locked FOR
  UPDATE so two concurrent requests cannot both observe
  "one slot free" or "not yet class teacher". The current
  load is always counted from the link tables at call time,
  never from a cached counter.
=========================================================
*/
type AssignmentEngine struct {
	DB *gorm.DB
}

func NewAssignmentEngine(db *gorm.DB) *AssignmentEngine {
	return &AssignmentEngine{DB: db}
}

// Skipped holds request ids dropped before validation (repeated entries in
// the request); AlreadyAssigned holds ids the teacher was already linked to.
type BulkAssignResult struct {
	Assigned        []assignmentModel.ClassroomTeacherModel
	AlreadyAssigned []uuid.UUID
	Skipped         []uuid.UUID
}

type StreamBulkAssignResult struct {
	Assigned        []assignmentModel.StreamTeacherModel
	AlreadyAssigned []uuid.UUID
	Skipped         []uuid.UUID
}

/* ===================== small helpers ===================== */

// lockForUpdate serializes per-teacher checks on Postgres. SQLite (tests)
// has no row locks; its writes serialize on the database lock instead.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// fetchSchool resolves the assignment mode for the call.
func fetchSchool(tx *gorm.DB, schoolID uuid.UUID) (*schoolModel.SchoolModel, error) {
	var school schoolModel.SchoolModel
	if err := tx.Where("school_id = ?", schoolID).First(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "School not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load school")
	}
	return &school, nil
}

// lockTeacher loads and row-locks the teacher, failing closed when the
// teacher belongs to a different school than the caller.
func lockTeacher(tx *gorm.DB, schoolID, teacherID uuid.UUID) (*teacherModel.TeacherModel, error) {
	var t teacherModel.TeacherModel
	if err := lockForUpdate(tx).Where("teacher_id = ?", teacherID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Teacher not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load teacher")
	}
	if t.TeacherSchoolID != schoolID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Teacher belongs to a different school")
	}
	return &t, nil
}

func fetchClassroom(tx *gorm.DB, schoolID, classroomID uuid.UUID) (*classroomModel.ClassroomModel, error) {
	var cr classroomModel.ClassroomModel
	if err := tx.Where("classroom_id = ?", classroomID).First(&cr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Classroom not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load classroom")
	}
	if cr.ClassroomSchoolID != schoolID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Classroom belongs to a different school")
	}
	return &cr, nil
}

func fetchStream(tx *gorm.DB, schoolID, streamID uuid.UUID) (*classroomModel.StreamModel, error) {
	var st classroomModel.StreamModel
	if err := tx.Where("stream_id = ?", streamID).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Stream not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load stream")
	}
	if st.StreamSchoolID != schoolID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Stream belongs to a different school")
	}
	return &st, nil
}

// currentLoad counts the teacher's links across both relations. Counted from
// the tables at call time inside the caller's transaction.
func currentLoad(tx *gorm.DB, teacherID uuid.UUID) (int64, error) {
	var classroomLinks, streamLinks int64
	if err := tx.Model(&assignmentModel.ClassroomTeacherModel{}).
		Where("classroom_teacher_teacher_id = ?", teacherID).
		Count(&classroomLinks).Error; err != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Failed to count classroom assignments")
	}
	if err := tx.Model(&assignmentModel.StreamTeacherModel{}).
		Where("stream_teacher_teacher_id = ?", teacherID).
		Count(&streamLinks).Error; err != nil {
		return 0, fiber.NewError(fiber.StatusInternalServerError, "Failed to count stream assignments")
	}
	return classroomLinks + streamLinks, nil
}

func capacityError(current int64, max int) error {
	return fiber.NewError(fiber.StatusUnprocessableEntity,
		fmt.Sprintf("Teacher already has %d classes; maximum allowed (%d)", current, max))
}

/* =========================================================
   Plain mode: classroom_teachers pivot
========================================================= */

// AssignTeacherToClassroom attaches a teacher to a classroom, optionally as
// its class teacher. Plain-mode schools only.
func (e *AssignmentEngine) AssignTeacherToClassroom(ctx context.Context, schoolID, teacherID, classroomID uuid.UUID, isClassTeacher bool) (*assignmentModel.ClassroomTeacherModel, error) {
	var link assignmentModel.ClassroomTeacherModel

	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		school, err := fetchSchool(tx, schoolID)
		if err != nil {
			return err
		}
		if school.SchoolHasStreams {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"This school uses streams; assign teachers to streams instead")
		}

		teacher, err := lockTeacher(tx, schoolID, teacherID)
		if err != nil {
			return err
		}
		if _, err := fetchClassroom(tx, schoolID, classroomID); err != nil {
			return err
		}

		var existing assignmentModel.ClassroomTeacherModel
		found := true
		if err := tx.Where("classroom_teacher_classroom_id = ? AND classroom_teacher_teacher_id = ?",
			classroomID, teacherID).First(&existing).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing assignment")
			}
			found = false
		}

		if found && existing.ClassroomTeacherIsClassTeacher == isClassTeacher {
			// fresh attach of an identical link
			return fiber.NewError(fiber.StatusConflict, "Teacher is already assigned to this classroom")
		}

		if isClassTeacher {
			if err := ensureNotClassTeacherElsewhere(tx, schoolID, teacherID, classroomID); err != nil {
				return err
			}
			// Invariant: one class teacher per classroom. The plain assign
			// endpoint never demotes an incumbent; use the class-teacher
			// endpoint for that.
			var holder int64
			if err := tx.Model(&assignmentModel.ClassroomTeacherModel{}).
				Where("classroom_teacher_classroom_id = ? AND classroom_teacher_is_class_teacher AND classroom_teacher_teacher_id <> ?",
					classroomID, teacherID).
				Count(&holder).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to check class teacher")
			}
			if holder > 0 {
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					"Classroom already has a class teacher; use the class-teacher endpoint to replace them")
			}
		}

		// Capacity only applies to a fresh attach; a promotion/demotion of an
		// existing link never changes the count.
		if !found {
			current, err := currentLoad(tx, teacherID)
			if err != nil {
				return err
			}
			if current+1 > int64(teacher.TeacherMaxClasses) {
				return capacityError(current, teacher.TeacherMaxClasses)
			}
			link = assignmentModel.ClassroomTeacherModel{
				ClassroomTeacherSchoolID:       schoolID,
				ClassroomTeacherClassroomID:    classroomID,
				ClassroomTeacherTeacherID:      teacherID,
				ClassroomTeacherIsClassTeacher: isClassTeacher,
			}
			if err := tx.Create(&link).Error; err != nil {
				if isUniqueViolation(err) {
					return fiber.NewError(fiber.StatusConflict, "Teacher is already assigned to this classroom")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to create assignment")
			}
			return nil
		}

		existing.ClassroomTeacherIsClassTeacher = isClassTeacher
		if err := tx.Save(&existing).Error; err != nil {
			if isUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Classroom already has a class teacher")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update assignment")
		}
		link = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ensureNotClassTeacherElsewhere enforces the school-wide rule: a teacher is
// class teacher of at most one classroom. The error names the holding
// classroom.
func ensureNotClassTeacherElsewhere(tx *gorm.DB, schoolID, teacherID, classroomID uuid.UUID) error {
	var holding struct {
		ClassroomName string
	}
	err := tx.Table("classroom_teachers ct").
		Select("c.classroom_name AS classroom_name").
		Joins("JOIN classrooms c ON c.classroom_id = ct.classroom_teacher_classroom_id").
		Where(`ct.classroom_teacher_teacher_id = ?
			AND ct.classroom_teacher_is_class_teacher
			AND ct.classroom_teacher_classroom_id <> ?
			AND ct.classroom_teacher_school_id = ?`,
			teacherID, classroomID, schoolID).
		Take(&holding).Error
	if err == nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity,
			fmt.Sprintf("Teacher is already the class teacher of %s", holding.ClassroomName))
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Failed to check class teacher duty")
}

// AssignClassTeacher promotes a teacher to class teacher of a classroom,
// demoting the incumbent in the same transaction. A reader never observes the
// classroom with zero or two class teachers.
func (e *AssignmentEngine) AssignClassTeacher(ctx context.Context, schoolID, teacherID, classroomID uuid.UUID) (*assignmentModel.ClassroomTeacherModel, error) {
	var link assignmentModel.ClassroomTeacherModel

	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		school, err := fetchSchool(tx, schoolID)
		if err != nil {
			return err
		}
		if school.SchoolHasStreams {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"This school uses streams; assign the class teacher on a stream instead")
		}

		teacher, err := lockTeacher(tx, schoolID, teacherID)
		if err != nil {
			return err
		}
		if _, err := fetchClassroom(tx, schoolID, classroomID); err != nil {
			return err
		}
		if err := ensureNotClassTeacherElsewhere(tx, schoolID, teacherID, classroomID); err != nil {
			return err
		}

		var existing assignmentModel.ClassroomTeacherModel
		found := true
		if err := tx.Where("classroom_teacher_classroom_id = ? AND classroom_teacher_teacher_id = ?",
			classroomID, teacherID).First(&existing).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing assignment")
			}
			found = false
		}

		if !found {
			current, err := currentLoad(tx, teacherID)
			if err != nil {
				return err
			}
			if current+1 > int64(teacher.TeacherMaxClasses) {
				return capacityError(current, teacher.TeacherMaxClasses)
			}
		}

		// demote the incumbent, then promote — one transaction
		if err := tx.Model(&assignmentModel.ClassroomTeacherModel{}).
			Where("classroom_teacher_classroom_id = ? AND classroom_teacher_is_class_teacher", classroomID).
			Update("classroom_teacher_is_class_teacher", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to demote current class teacher")
		}

		if found {
			existing.ClassroomTeacherIsClassTeacher = true
			if err := tx.Save(&existing).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to promote class teacher")
			}
			link = existing
			return nil
		}

		link = assignmentModel.ClassroomTeacherModel{
			ClassroomTeacherSchoolID:       schoolID,
			ClassroomTeacherClassroomID:    classroomID,
			ClassroomTeacherTeacherID:      teacherID,
			ClassroomTeacherIsClassTeacher: true,
		}
		if err := tx.Create(&link).Error; err != nil {
			if isUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Classroom already has a class teacher")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to promote class teacher")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// RemoveClassTeacher demotes whichever row currently holds class-teacher duty
// for the classroom. No-op when none does.
func (e *AssignmentEngine) RemoveClassTeacher(ctx context.Context, schoolID, classroomID uuid.UUID) error {
	return e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := fetchClassroom(tx, schoolID, classroomID); err != nil {
			return err
		}
		if err := tx.Model(&assignmentModel.ClassroomTeacherModel{}).
			Where("classroom_teacher_classroom_id = ? AND classroom_teacher_is_class_teacher", classroomID).
			Update("classroom_teacher_is_class_teacher", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to remove class teacher")
		}
		return nil
	})
}

// AssignTeacherToManyClassrooms links one teacher to many classrooms in one
// transaction. All ids are validated before the first write; classrooms the
// teacher already belongs to are skipped and never charged against capacity.
// The whole batch is rejected when the new links would exceed max_classes.
func (e *AssignmentEngine) AssignTeacherToManyClassrooms(ctx context.Context, schoolID, teacherID uuid.UUID, classroomIDs []uuid.UUID) (*BulkAssignResult, error) {
	result := &BulkAssignResult{
		Assigned:        []assignmentModel.ClassroomTeacherModel{},
		AlreadyAssigned: []uuid.UUID{},
		Skipped:         []uuid.UUID{},
	}

	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		school, err := fetchSchool(tx, schoolID)
		if err != nil {
			return err
		}
		if school.SchoolHasStreams {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"This school uses streams; assign teachers to streams instead")
		}

		teacher, err := lockTeacher(tx, schoolID, teacherID)
		if err != nil {
			return err
		}

		// dedupe while keeping request order; repeats are reported as skipped
		seen := make(map[uuid.UUID]bool, len(classroomIDs))
		ids := make([]uuid.UUID, 0, len(classroomIDs))
		for _, id := range classroomIDs {
			if seen[id] {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}

		// validate every classroom before any write
		var count int64
		if err := tx.Model(&classroomModel.ClassroomModel{}).
			Where("classroom_id IN ? AND classroom_school_id = ?", ids, schoolID).
			Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to validate classrooms")
		}
		if count != int64(len(ids)) {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"One or more classrooms do not exist or belong to a different school")
		}

		// split already-linked ids out BEFORE the capacity check so a skip
		// never causes an off-by-one rejection
		var existingIDs []uuid.UUID
		if err := tx.Model(&assignmentModel.ClassroomTeacherModel{}).
			Where("classroom_teacher_teacher_id = ? AND classroom_teacher_classroom_id IN ?", teacherID, ids).
			Pluck("classroom_teacher_classroom_id", &existingIDs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing assignments")
		}
		existingSet := make(map[uuid.UUID]bool, len(existingIDs))
		for _, id := range existingIDs {
			existingSet[id] = true
		}

		newIDs := make([]uuid.UUID, 0, len(ids))
		for _, id := range ids {
			if existingSet[id] {
				result.AlreadyAssigned = append(result.AlreadyAssigned, id)
			} else {
				newIDs = append(newIDs, id)
			}
		}

		current, err := currentLoad(tx, teacherID)
		if err != nil {
			return err
		}
		availableSlots := int64(teacher.TeacherMaxClasses) - current
		if int64(len(newIDs)) > availableSlots {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Requested %d new classrooms but only %d slots available (current %d, max %d)",
					len(newIDs), availableSlots, current, teacher.TeacherMaxClasses))
		}

		for _, id := range newIDs {
			link := assignmentModel.ClassroomTeacherModel{
				ClassroomTeacherSchoolID:    schoolID,
				ClassroomTeacherClassroomID: id,
				ClassroomTeacherTeacherID:   teacherID,
			}
			if err := tx.Create(&link).Error; err != nil {
				if isUniqueViolation(err) {
					return fiber.NewError(fiber.StatusConflict, "Teacher was concurrently assigned to a classroom in this batch")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to create assignment")
			}
			result.Assigned = append(result.Assigned, link)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
