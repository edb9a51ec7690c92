// file: internals/features/school/subject_assignments/service/subject_assignment_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	yearModel "shuleni_backend/internals/features/school/academic_years/model"
	classroomModel "shuleni_backend/internals/features/school/classrooms/model"
	schoolModel "shuleni_backend/internals/features/school/schools/model"
	model "shuleni_backend/internals/features/school/subject_assignments/model"
	subjectModel "shuleni_backend/internals/features/school/subjects/model"
	teacherModel "shuleni_backend/internals/features/school/teachers/model"
	"shuleni_backend/internals/constants"
)

/*
=========================================================
  Subject assignment ledger: who teaches which subject
  where, per academic term. Separate from class-teacher
  (homeroom) duty, which the assignment engine owns.
=========================================================
*/

type SubjectAssignmentService struct {
	DB *gorm.DB
}

func NewSubjectAssignmentService(db *gorm.DB) *SubjectAssignmentService {
	return &SubjectAssignmentService{DB: db}
}

type CreateAssignmentInput struct {
	TeacherID      uuid.UUID
	SubjectID      uuid.UUID
	AcademicYearID uuid.UUID
	StreamID       *uuid.UUID
	ClassroomID    *uuid.UUID
	WeeklyPeriods  int
	AssignmentType string
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// CreateAssignment records a teaching duty. All four referenced entities must
// belong to the caller's school, the teacher must be qualified for the
// subject, and the (teacher, subject, year, target) tuple must be new.
func (s *SubjectAssignmentService) CreateAssignment(ctx context.Context, schoolID uuid.UUID, in CreateAssignmentInput) (*model.SubjectAssignmentModel, error) {
	var created model.SubjectAssignmentModel

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var school schoolModel.SchoolModel
		if err := tx.First(&school, "school_id = ?", schoolID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load school")
		}

		// exactly one target, matching the school's mode
		if (in.StreamID == nil) == (in.ClassroomID == nil) {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"Provide exactly one of stream_id or classroom_id")
		}
		if in.StreamID != nil && !school.SchoolHasStreams {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"This school does not use streams; target a classroom instead")
		}
		if in.ClassroomID != nil && school.SchoolHasStreams {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"This school uses streams; target a stream instead")
		}

		var teacher teacherModel.TeacherModel
		if err := tx.First(&teacher, "teacher_id = ?", in.TeacherID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Teacher not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load teacher")
		}
		if teacher.TeacherSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Teacher belongs to a different school")
		}

		var subject subjectModel.SubjectModel
		if err := tx.First(&subject, "subject_id = ?", in.SubjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Subject not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load subject")
		}
		if subject.SubjectSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Subject belongs to a different school")
		}

		var year yearModel.AcademicYearModel
		if err := tx.First(&year, "academic_year_id = ?", in.AcademicYearID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Academic term not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load academic term")
		}
		if year.AcademicYearSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Academic term belongs to a different school")
		}

		if in.StreamID != nil {
			var stream classroomModel.StreamModel
			if err := tx.First(&stream, "stream_id = ?", *in.StreamID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Stream not found")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to load stream")
			}
			if stream.StreamSchoolID != schoolID {
				return fiber.NewError(fiber.StatusForbidden, "Stream belongs to a different school")
			}
		} else {
			var classroom classroomModel.ClassroomModel
			if err := tx.First(&classroom, "classroom_id = ?", *in.ClassroomID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusNotFound, "Classroom not found")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to load classroom")
			}
			if classroom.ClassroomSchoolID != schoolID {
				return fiber.NewError(fiber.StatusForbidden, "Classroom belongs to a different school")
			}
		}

		// qualification: curriculum first, then the combination snapshot
		if !constants.CurriculumCovers(teacher.TeacherCurriculumSpecialization, subject.SubjectCurriculumType) {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Teacher specializes in %s and cannot teach a %s subject",
					teacher.TeacherCurriculumSpecialization, subject.SubjectCurriculumType))
		}
		if len(teacher.TeacherQualifiedSubjects) > 0 {
			var qualified []string
			if err := json.Unmarshal(teacher.TeacherQualifiedSubjects, &qualified); err == nil && len(qualified) > 0 {
				ok := false
				for _, name := range qualified {
					if name == subject.SubjectName {
						ok = true
						break
					}
				}
				if !ok {
					return fiber.NewError(fiber.StatusUnprocessableEntity,
						fmt.Sprintf("Teacher is not qualified to teach %s", subject.SubjectName))
				}
			}
		}

		// max_subjects caps distinct subjects carried per year
		var distinctSubjects int64
		if err := tx.Model(&model.SubjectAssignmentModel{}).
			Where("subject_assignment_teacher_id = ? AND subject_assignment_academic_year_id = ? AND subject_assignment_subject_id <> ?",
				in.TeacherID, in.AcademicYearID, in.SubjectID).
			Distinct("subject_assignment_subject_id").
			Count(&distinctSubjects).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to count subjects")
		}
		if distinctSubjects+1 > int64(teacher.TeacherMaxSubjects) {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("Teacher already carries %d subjects; maximum allowed (%d)",
					distinctSubjects, teacher.TeacherMaxSubjects))
		}

		dup := tx.Model(&model.SubjectAssignmentModel{}).
			Where("subject_assignment_teacher_id = ? AND subject_assignment_subject_id = ? AND subject_assignment_academic_year_id = ?",
				in.TeacherID, in.SubjectID, in.AcademicYearID)
		if in.StreamID != nil {
			dup = dup.Where("subject_assignment_stream_id = ?", *in.StreamID)
		} else {
			dup = dup.Where("subject_assignment_classroom_id = ?", *in.ClassroomID)
		}
		var count int64
		if err := dup.Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to check existing assignments")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict,
				"Teacher already teaches this subject in this class for this term")
		}

		created = model.SubjectAssignmentModel{
			SubjectAssignmentSchoolID:       schoolID,
			SubjectAssignmentTeacherID:      in.TeacherID,
			SubjectAssignmentSubjectID:      in.SubjectID,
			SubjectAssignmentAcademicYearID: in.AcademicYearID,
			SubjectAssignmentStreamID:       in.StreamID,
			SubjectAssignmentClassroomID:    in.ClassroomID,
			SubjectAssignmentWeeklyPeriods:  in.WeeklyPeriods,
			SubjectAssignmentType:           in.AssignmentType,
		}
		if created.SubjectAssignmentWeeklyPeriods <= 0 {
			created.SubjectAssignmentWeeklyPeriods = 4
		}
		if created.SubjectAssignmentType == "" {
			created.SubjectAssignmentType = model.AssignmentTypeMainTeacher
		}
		if err := tx.Create(&created).Error; err != nil {
			if isUniqueViolation(err) {
				return fiber.NewError(fiber.StatusConflict,
					"Teacher already teaches this subject in this class for this term")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create assignment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteAssignment removes a ledger row.
func (s *SubjectAssignmentService) DeleteAssignment(ctx context.Context, schoolID, assignmentID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("subject_assignment_id = ? AND subject_assignment_school_id = ?", assignmentID, schoolID).
		Delete(&model.SubjectAssignmentModel{})
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete assignment")
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Assignment not found")
	}
	return nil
}

// ListByTeacher returns the teacher's ledger rows for one academic term.
func (s *SubjectAssignmentService) ListByTeacher(ctx context.Context, schoolID, teacherID, academicYearID uuid.UUID) ([]model.SubjectAssignmentModel, error) {
	var rows []model.SubjectAssignmentModel
	if err := s.DB.WithContext(ctx).
		Where("subject_assignment_school_id = ? AND subject_assignment_teacher_id = ? AND subject_assignment_academic_year_id = ?",
			schoolID, teacherID, academicYearID).
		Order("subject_assignment_created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load assignments")
	}
	return rows, nil
}

type WorkloadReport struct {
	TotalPeriods     int
	MinWeeklyLessons int
	MaxWeeklyLessons int
	Underloaded      bool
	Overloaded       bool
	Assignments      []model.SubjectAssignmentModel
}

// Workload sums the weekly periods a teacher carries in one term and flags
// deviations from their configured band. Read-only; never blocks a write.
func (s *SubjectAssignmentService) Workload(ctx context.Context, schoolID, teacherID, academicYearID uuid.UUID) (*WorkloadReport, error) {
	var teacher teacherModel.TeacherModel
	if err := s.DB.WithContext(ctx).First(&teacher, "teacher_id = ?", teacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Teacher not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load teacher")
	}
	if teacher.TeacherSchoolID != schoolID {
		return nil, fiber.NewError(fiber.StatusForbidden, "Teacher belongs to a different school")
	}

	rows, err := s.ListByTeacher(ctx, schoolID, teacherID, academicYearID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, r := range rows {
		total += r.SubjectAssignmentWeeklyPeriods
	}
	return &WorkloadReport{
		TotalPeriods:     total,
		MinWeeklyLessons: teacher.TeacherMinWeeklyLessons,
		MaxWeeklyLessons: teacher.TeacherMaxWeeklyLessons,
		Underloaded:      total < teacher.TeacherMinWeeklyLessons,
		Overloaded:       total > teacher.TeacherMaxWeeklyLessons,
		Assignments:      rows,
	}, nil
}
