// file: internals/features/school/assignments/model/classroom_teacher_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
=========================================================
  MODEL: classroom_teachers
  Plain-mode pivot between classrooms and teachers.
  Invariants (engine + partial unique indexes):
  - one row per (classroom, teacher)
  - at most one is_class_teacher=true row per classroom
  - a teacher holds is_class_teacher=true in at most one
    classroom school-wide
  - rows per teacher never exceed teacher_max_classes
=========================================================
*/
type ClassroomTeacherModel struct {
	ClassroomTeacherID       uuid.UUID `gorm:"type:uuid;primaryKey;column:classroom_teacher_id" json:"classroom_teacher_id"`
	ClassroomTeacherSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:classroom_teacher_school_id" json:"classroom_teacher_school_id"`

	ClassroomTeacherClassroomID uuid.UUID `gorm:"type:uuid;not null;index;column:classroom_teacher_classroom_id" json:"classroom_teacher_classroom_id"`
	ClassroomTeacherTeacherID   uuid.UUID `gorm:"type:uuid;not null;index;column:classroom_teacher_teacher_id" json:"classroom_teacher_teacher_id"`

	ClassroomTeacherIsClassTeacher bool `gorm:"not null;default:false;column:classroom_teacher_is_class_teacher" json:"classroom_teacher_is_class_teacher"`

	ClassroomTeacherCreatedAt time.Time `gorm:"not null;autoCreateTime;column:classroom_teacher_created_at" json:"classroom_teacher_created_at"`
	ClassroomTeacherUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:classroom_teacher_updated_at" json:"classroom_teacher_updated_at"`
}

func (ClassroomTeacherModel) TableName() string { return "classroom_teachers" }

func (m *ClassroomTeacherModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassroomTeacherID == uuid.Nil {
		m.ClassroomTeacherID = uuid.New()
	}
	return nil
}
