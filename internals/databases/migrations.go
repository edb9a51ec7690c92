// file: internals/databases/migrations.go
package database

import (
	"log"

	"gorm.io/gorm"

	academicYearModel "shuleni_backend/internals/features/school/academic_years/model"
	assignmentModel "shuleni_backend/internals/features/school/assignments/model"
	classroomModel "shuleni_backend/internals/features/school/classrooms/model"
	schoolModel "shuleni_backend/internals/features/school/schools/model"
	subjectAssignmentModel "shuleni_backend/internals/features/school/subject_assignments/model"
	subjectModel "shuleni_backend/internals/features/school/subjects/model"
	teacherModel "shuleni_backend/internals/features/school/teachers/model"
	userModel "shuleni_backend/internals/features/school/users/model"
)

// Migrate syncs the schema at startup. Kept in one place so the invariant
// backstop indexes below never drift from the models.
func Migrate() {
	if err := RunMigrations(DB); err != nil {
		log.Fatalf("❌ migration failed: %v", err)
	}
	log.Println("✅ Schema migrated.")
}

// RunMigrations is shared with package tests (which run it against SQLite).
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&schoolModel.SchoolModel{},
		&userModel.UserModel{},
		&teacherModel.TeacherCombinationModel{},
		&teacherModel.TeacherModel{},
		&classroomModel.ClassroomModel{},
		&classroomModel.StreamModel{},
		&assignmentModel.ClassroomTeacherModel{},
		&assignmentModel.StreamTeacherModel{},
		&subjectModel.SubjectModel{},
		&academicYearModel.AcademicYearModel{},
		&subjectAssignmentModel.SubjectAssignmentModel{},
	); err != nil {
		return err
	}

	// Structural backstops for the assignment invariants. The engine checks
	// these inside its transactions too; the indexes close the remaining
	// race window under concurrent writers.
	stmts := []string{
		// one row per (classroom, teacher)
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_classroom_teachers_pair
		   ON classroom_teachers (classroom_teacher_classroom_id, classroom_teacher_teacher_id)`,
		// at most one class teacher per classroom
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_classroom_teachers_ct_per_classroom
		   ON classroom_teachers (classroom_teacher_classroom_id)
		   WHERE classroom_teacher_is_class_teacher`,
		// a teacher holds class-teacher duty in at most one classroom
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_classroom_teachers_ct_per_teacher
		   ON classroom_teachers (classroom_teacher_teacher_id)
		   WHERE classroom_teacher_is_class_teacher`,
		// one row per (stream, teacher)
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_stream_teachers_pair
		   ON stream_teachers (stream_teacher_stream_id, stream_teacher_teacher_id)`,
		// a teacher is class teacher of at most one stream
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_streams_class_teacher
		   ON streams (stream_class_teacher_id)
		   WHERE stream_class_teacher_id IS NOT NULL AND stream_deleted_at IS NULL`,
		// no duplicate (teacher, subject, year, stream) duty
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_subject_assignments_stream_tuple
		   ON subject_assignments (subject_assignment_teacher_id, subject_assignment_subject_id,
		       subject_assignment_academic_year_id, subject_assignment_stream_id)
		   WHERE subject_assignment_stream_id IS NOT NULL`,
		// no duplicate (teacher, subject, year, classroom) duty
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_subject_assignments_classroom_tuple
		   ON subject_assignments (subject_assignment_teacher_id, subject_assignment_subject_id,
		       subject_assignment_academic_year_id, subject_assignment_classroom_id)
		   WHERE subject_assignment_classroom_id IS NOT NULL`,
		// single active academic year per school
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_academic_years_active
		   ON academic_years (academic_year_school_id)
		   WHERE academic_year_is_active AND academic_year_deleted_at IS NULL`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
