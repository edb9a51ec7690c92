// file: internals/features/school/assignments/service/stream_engine.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	assignmentModel "shuleni_backend/internals/features/school/assignments/model"
	classroomModel "shuleni_backend/internals/features/school/classrooms/model"
	subjectAssignmentModel "shuleni_backend/internals/features/school/subject_assignments/model"
)

/*
=========================================================
  Stream-mode mirror of the classroom operations.
  Homeroom duty is the streams.stream_class_teacher_id
  column; membership rows live in stream_teachers so the
  capacity counter spans both relations.
=========================================================
*/

// AssignClassTeacherToStream makes the teacher the class teacher of a stream.
// The incumbent of the stream is replaced atomically; a teacher already
// holding duty on another stream is rejected, mirroring classroom mode.
func (e *AssignmentEngine) AssignClassTeacherToStream(ctx context.Context, schoolID, teacherID, streamID uuid.UUID) (*classroomModel.StreamModel, error) {
	var stream classroomModel.StreamModel

	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		school, err := fetchSchool(tx, schoolID)
		if err != nil {
			return err
		}
		if !school.SchoolHasStreams {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"This school does not use streams; assign the class teacher on a classroom instead")
		}

		teacher, err := lockTeacher(tx, schoolID, teacherID)
		if err != nil {
			return err
		}
		st, err := fetchStream(tx, schoolID, streamID)
		if err != nil {
			return err
		}

		// one stream per class teacher, school-wide
		var holding classroomModel.StreamModel
		herr := tx.Where("stream_class_teacher_id = ? AND stream_id <> ? AND stream_school_id = ?",
			teacherID, streamID, schoolID).First(&holding).Error
		if herr == nil {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Teacher is already the class teacher of stream %s", holding.StreamName))
		}
		if !errors.Is(herr, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check class teacher duty")
		}

		// membership row: created on promotion when missing, so the load
		// counter sees homeroom duty like any other stream link
		var membership assignmentModel.StreamTeacherModel
		found := true
		if err := tx.Where("stream_teacher_stream_id = ? AND stream_teacher_teacher_id = ?",
			streamID, teacherID).First(&membership).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to check stream membership")
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
			membership = assignmentModel.StreamTeacherModel{
				StreamTeacherSchoolID:  schoolID,
				StreamTeacherStreamID:  streamID,
				StreamTeacherTeacherID: teacherID,
			}
			if err := tx.Create(&membership).Error; err != nil {
				if !isUniqueViolation(err) {
					return fiber.NewError(fiber.StatusInternalServerError, "Failed to create stream membership")
				}
			}
		}

		if err := tx.Model(&classroomModel.StreamModel{}).
			Where("stream_id = ?", streamID).
			Update("stream_class_teacher_id", teacherID).Error; err != nil {
			if isUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict, "Teacher was concurrently made class teacher of another stream")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to set class teacher")
		}

		st.StreamClassTeacherID = &teacherID
		stream = *st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stream, nil
}

// RemoveClassTeacherFromStream clears homeroom duty on a stream; idempotent.
// The membership row stays — losing homeroom duty does not detach the teacher
// from the stream.
func (e *AssignmentEngine) RemoveClassTeacherFromStream(ctx context.Context, schoolID, streamID uuid.UUID) error {
	return e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := fetchStream(tx, schoolID, streamID); err != nil {
			return err
		}
		if err := tx.Model(&classroomModel.StreamModel{}).
			Where("stream_id = ?", streamID).
			Update("stream_class_teacher_id", nil).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to remove class teacher")
		}
		return nil
	})
}

// AssignTeachersToStream links many teachers to one stream. Every teacher is
// validated (same school, capacity) before the first write; teachers already
// in the stream are skipped and reported, any capacity violation rejects the
// whole batch.
func (e *AssignmentEngine) AssignTeachersToStream(ctx context.Context, schoolID, streamID uuid.UUID, teacherIDs []uuid.UUID) (*StreamBulkAssignResult, error) {
	result := &StreamBulkAssignResult{
		Assigned:        []assignmentModel.StreamTeacherModel{},
		AlreadyAssigned: []uuid.UUID{},
		Skipped:         []uuid.UUID{},
	}

	err := e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		school, err := fetchSchool(tx, schoolID)
		if err != nil {
			return err
		}
		if !school.SchoolHasStreams {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"This school does not use streams; assign teachers to classrooms instead")
		}
		if _, err := fetchStream(tx, schoolID, streamID); err != nil {
			return err
		}

		// repeats in the request are reported as skipped
		seen := make(map[uuid.UUID]bool, len(teacherIDs))
		ids := make([]uuid.UUID, 0, len(teacherIDs))
		for _, id := range teacherIDs {
			if seen[id] {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}

		var existingIDs []uuid.UUID
		if err := tx.Model(&assignmentModel.StreamTeacherModel{}).
			Where("stream_teacher_stream_id = ? AND stream_teacher_teacher_id IN ?", streamID, ids).
			Pluck("stream_teacher_teacher_id", &existingIDs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing memberships")
		}
		existingSet := make(map[uuid.UUID]bool, len(existingIDs))
		for _, id := range existingIDs {
			existingSet[id] = true
		}

		// validate all teachers up front; writes start only after the loop
		type pending struct {
			teacherID uuid.UUID
		}
		var toCreate []pending
		for _, id := range ids {
			if existingSet[id] {
				result.AlreadyAssigned = append(result.AlreadyAssigned, id)
				continue
			}
			teacher, err := lockTeacher(tx, schoolID, id)
			if err != nil {
				return err
			}
			current, err := currentLoad(tx, id)
			if err != nil {
				return err
			}
			if current+1 > int64(teacher.TeacherMaxClasses) {
				return fiber.NewError(fiber.StatusUnprocessableEntity,
					fmt.Sprintf("Teacher %s already has %d classes; maximum allowed (%d)",
						id, current, teacher.TeacherMaxClasses))
			}
			toCreate = append(toCreate, pending{teacherID: id})
		}

		for _, p := range toCreate {
			link := assignmentModel.StreamTeacherModel{
				StreamTeacherSchoolID:  schoolID,
				StreamTeacherStreamID:  streamID,
				StreamTeacherTeacherID: p.teacherID,
			}
			if err := tx.Create(&link).Error; err != nil {
				if isUniqueViolation(err) {
					return fiber.NewError(fiber.StatusConflict, "A teacher was concurrently assigned to this stream")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to create stream membership")
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

// RemoveTeacherFromStream detaches a teacher from a stream, clearing homeroom
// duty when they held it.
func (e *AssignmentEngine) RemoveTeacherFromStream(ctx context.Context, schoolID, streamID, teacherID uuid.UUID) error {
	return e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st, err := fetchStream(tx, schoolID, streamID)
		if err != nil {
			return err
		}
		if st.StreamClassTeacherID != nil && *st.StreamClassTeacherID == teacherID {
			if err := tx.Model(&classroomModel.StreamModel{}).
				Where("stream_id = ?", streamID).
				Update("stream_class_teacher_id", nil).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to clear class teacher")
			}
		}
		if err := tx.
			Where("stream_teacher_stream_id = ? AND stream_teacher_teacher_id = ?", streamID, teacherID).
			Delete(&assignmentModel.StreamTeacherModel{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to remove stream membership")
		}
		return nil
	})
}

// RemoveTeacherFromClassroom deletes the pivot row; the classroom simply
// loses the teacher (and its class teacher when they held duty).
func (e *AssignmentEngine) RemoveTeacherFromClassroom(ctx context.Context, schoolID, classroomID, teacherID uuid.UUID) error {
	return e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := fetchClassroom(tx, schoolID, classroomID); err != nil {
			return err
		}
		if err := tx.
			Where("classroom_teacher_classroom_id = ? AND classroom_teacher_teacher_id = ?", classroomID, teacherID).
			Delete(&assignmentModel.ClassroomTeacherModel{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to remove assignment")
		}
		return nil
	})
}

// CascadeTeacherRemoval deletes every link a teacher holds: classroom and
// stream memberships, homeroom duty, and subject-assignment ledger rows.
// Called when a teacher record is deleted.
func (e *AssignmentEngine) CascadeTeacherRemoval(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID) error {
	if err := tx.WithContext(ctx).
		Where("classroom_teacher_teacher_id = ?", teacherID).
		Delete(&assignmentModel.ClassroomTeacherModel{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).
		Where("stream_teacher_teacher_id = ?", teacherID).
		Delete(&assignmentModel.StreamTeacherModel{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).
		Where("subject_assignment_teacher_id = ?", teacherID).
		Delete(&subjectAssignmentModel.SubjectAssignmentModel{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Model(&classroomModel.StreamModel{}).
		Where("stream_class_teacher_id = ?", teacherID).
		Update("stream_class_teacher_id", nil).Error
}
