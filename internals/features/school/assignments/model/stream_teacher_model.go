// file: internals/features/school/assignments/model/stream_teacher_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
=========================================================
  MODEL: stream_teachers
  Stream-mode mirror of classroom_teachers: membership of a
  teacher in a stream. Homeroom duty itself lives on
  streams.stream_class_teacher_id; promoting a class teacher
  also upserts a membership row here so capacity counting is
  uniform across both modes.
=========================================================
*/
type StreamTeacherModel struct {
	StreamTeacherID       uuid.UUID `gorm:"type:uuid;primaryKey;column:stream_teacher_id" json:"stream_teacher_id"`
	StreamTeacherSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:stream_teacher_school_id" json:"stream_teacher_school_id"`

	StreamTeacherStreamID  uuid.UUID `gorm:"type:uuid;not null;index;column:stream_teacher_stream_id" json:"stream_teacher_stream_id"`
	StreamTeacherTeacherID uuid.UUID `gorm:"type:uuid;not null;index;column:stream_teacher_teacher_id" json:"stream_teacher_teacher_id"`

	StreamTeacherCreatedAt time.Time `gorm:"not null;autoCreateTime;column:stream_teacher_created_at" json:"stream_teacher_created_at"`
	StreamTeacherUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:stream_teacher_updated_at" json:"stream_teacher_updated_at"`
}

func (StreamTeacherModel) TableName() string { return "stream_teachers" }

func (m *StreamTeacherModel) BeforeCreate(tx *gorm.DB) error {
	if m.StreamTeacherID == uuid.Nil {
		m.StreamTeacherID = uuid.New()
	}
	return nil
}
