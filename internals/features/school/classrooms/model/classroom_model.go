// file: internals/features/school/classrooms/model/classroom_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
=========================================================
  MODEL: classrooms
  In plain mode (school_has_streams=false) the classroom is
  the unit teachers are assigned to and capacity applies
  here. In stream mode it is only a grouping for streams.
=========================================================
*/
type ClassroomModel struct {
	ClassroomID       uuid.UUID `gorm:"type:uuid;primaryKey;column:classroom_id" json:"classroom_id"`
	ClassroomSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:classroom_school_id" json:"classroom_school_id"`

	ClassroomName       string `gorm:"type:text;not null;column:classroom_name" json:"classroom_name"`
	ClassroomGradeLevel string `gorm:"type:varchar(32);not null;column:classroom_grade_level" json:"classroom_grade_level"`
	ClassroomCapacity   int    `gorm:"not null;default:40;column:classroom_capacity" json:"classroom_capacity"`

	ClassroomCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:classroom_created_at" json:"classroom_created_at"`
	ClassroomUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:classroom_updated_at" json:"classroom_updated_at"`
	ClassroomDeletedAt gorm.DeletedAt `gorm:"column:classroom_deleted_at;index" json:"classroom_deleted_at,omitempty"`

	Streams []StreamModel `gorm:"foreignKey:StreamClassID;references:ClassroomID" json:"streams,omitempty"`
}

func (ClassroomModel) TableName() string { return "classrooms" }

func (m *ClassroomModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassroomID == uuid.Nil {
		m.ClassroomID = uuid.New()
	}
	return nil
}

/*
=========================================================
  MODEL: streams
  Subdivision of a classroom (e.g. "Grade 7 Blue").
  stream_class_teacher_id holds homeroom duty in stream
  mode; the engine keeps it unique per teacher school-wide.
=========================================================
*/
type StreamModel struct {
	StreamID       uuid.UUID `gorm:"type:uuid;primaryKey;column:stream_id" json:"stream_id"`
	StreamSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:stream_school_id" json:"stream_school_id"`
	StreamClassID  uuid.UUID `gorm:"type:uuid;not null;index;column:stream_class_id" json:"stream_class_id"`

	StreamName     string `gorm:"type:text;not null;column:stream_name" json:"stream_name"`
	StreamCapacity int    `gorm:"not null;default:40;column:stream_capacity" json:"stream_capacity"`

	StreamClassTeacherID *uuid.UUID `gorm:"type:uuid;column:stream_class_teacher_id" json:"stream_class_teacher_id,omitempty"`

	StreamCreatedAt time.Time      `gorm:"not null;autoCreateTime;column:stream_created_at" json:"stream_created_at"`
	StreamUpdatedAt time.Time      `gorm:"not null;autoUpdateTime;column:stream_updated_at" json:"stream_updated_at"`
	StreamDeletedAt gorm.DeletedAt `gorm:"column:stream_deleted_at;index" json:"stream_deleted_at,omitempty"`
}

func (StreamModel) TableName() string { return "streams" }

func (m *StreamModel) BeforeCreate(tx *gorm.DB) error {
	if m.StreamID == uuid.Nil {
		m.StreamID = uuid.New()
	}
	return nil
}
