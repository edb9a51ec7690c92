// file: internals/features/school/classrooms/controller/classroom_controller.go
package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "shuleni_backend/internals/features/school/classrooms/dto"
	model "shuleni_backend/internals/features/school/classrooms/model"
	schoolModel "shuleni_backend/internals/features/school/schools/model"
	helper "shuleni_backend/internals/helpers"
	helperAuth "shuleni_backend/internals/helpers/auth"
)

type ClassroomController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewClassroomController(db *gorm.DB, v *validator.Validate) *ClassroomController {
	if v == nil {
		v = validator.New()
	}
	return &ClassroomController{DB: db, Validator: v}
}

func fetchSchool(tx *gorm.DB, schoolID uuid.UUID) (*schoolModel.SchoolModel, error) {
	var school schoolModel.SchoolModel
	if err := tx.First(&school, "school_id = ?", schoolID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "School not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load school")
	}
	return &school, nil
}

/* ============================================
   POST /classrooms (admin)
   Streams in the payload are created in the
   same transaction; the batch is all-or-nothing.
============================================ */

func (ctl *ClassroomController) CreateClassroom(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "classroom management"); err != nil {
		return helper.FromFiberError(c, err)
	}

	var p dto.ClassroomCreateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}
	p.Normalize()

	classroom := p.ToModel(schoolID)
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		school, err := fetchSchool(tx, schoolID)
		if err != nil {
			return err
		}
		if len(p.Streams) > 0 && !school.SchoolHasStreams {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"This school does not use streams; create a plain classroom instead")
		}

		if err := tx.Create(&classroom).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create classroom")
		}
		for _, s := range p.Streams {
			stream := model.StreamModel{
				StreamSchoolID: schoolID,
				StreamClassID:  classroom.ClassroomID,
				StreamName:     s.Name,
				StreamCapacity: 40,
			}
			if s.Capacity != nil {
				stream.StreamCapacity = *s.Capacity
			}
			if err := tx.Create(&stream).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to create stream")
			}
			classroom.Streams = append(classroom.Streams, stream)
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Classroom created", dto.FromModel(classroom))
}

/* ============================================
   GET /classrooms, GET /classrooms/:id
============================================ */

func (ctl *ClassroomController) ListClassrooms(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.ClassroomModel{}).
		Where("classroom_school_id = ?", schoolID)
	if grade := c.Query("grade_level"); grade != "" {
		q = q.Where("classroom_grade_level = ?", grade)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count classrooms")
	}

	var classrooms []model.ClassroomModel
	if err := q.Preload("Streams").
		Order("classroom_created_at ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&classrooms).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load classrooms")
	}

	out := make([]dto.ClassroomResponseDTO, 0, len(classrooms))
	for _, cls := range classrooms {
		out = append(out, dto.FromModel(cls))
	}
	return helper.JsonOK(c, "Classrooms", fiber.Map{
		"items":      out,
		"pagination": helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
	})
}

func (ctl *ClassroomController) GetClassroom(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	classroomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classroom id")
	}

	var classroom model.ClassroomModel
	if err := ctl.DB.WithContext(c.UserContext()).Preload("Streams").
		First(&classroom, "classroom_id = ?", classroomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load classroom")
	}
	if classroom.ClassroomSchoolID != schoolID {
		return helper.JsonError(c, fiber.StatusForbidden, "Classroom belongs to a different school")
	}
	return helper.JsonOK(c, "Classroom", dto.FromModel(classroom))
}

/* ============================================
   PATCH /classrooms/:id, DELETE /classrooms/:id
============================================ */

func (ctl *ClassroomController) UpdateClassroom(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "classroom management"); err != nil {
		return helper.FromFiberError(c, err)
	}
	classroomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classroom id")
	}

	var p dto.ClassroomUpdateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	var classroom model.ClassroomModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&classroom, "classroom_id = ?", classroomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Classroom not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load classroom")
		}
		if classroom.ClassroomSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Classroom belongs to a different school")
		}
		if p.Name != nil {
			classroom.ClassroomName = *p.Name
		}
		if p.GradeLevel != nil {
			classroom.ClassroomGradeLevel = *p.GradeLevel
		}
		if p.Capacity != nil {
			classroom.ClassroomCapacity = *p.Capacity
		}
		if err := tx.Save(&classroom).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update classroom")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Classroom updated", dto.FromModel(classroom))
}

func (ctl *ClassroomController) DeleteClassroom(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "classroom management"); err != nil {
		return helper.FromFiberError(c, err)
	}
	classroomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classroom id")
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var classroom model.ClassroomModel
		if err := tx.First(&classroom, "classroom_id = ?", classroomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Classroom not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load classroom")
		}
		if classroom.ClassroomSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Classroom belongs to a different school")
		}
		// assignment links go with the classroom
		if err := tx.Exec("DELETE FROM classroom_teachers WHERE classroom_teacher_classroom_id = ?", classroomID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to remove classroom assignments")
		}
		if err := tx.Where("stream_class_id = ?", classroomID).Delete(&model.StreamModel{}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to remove streams")
		}
		if err := tx.Delete(&classroom).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete classroom")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Classroom deleted", nil)
}

/* ============================================
   Streams: POST /classrooms/:id/streams,
   PATCH /streams/:id, DELETE /streams/:id
============================================ */

func (ctl *ClassroomController) CreateStream(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "stream management"); err != nil {
		return helper.FromFiberError(c, err)
	}
	classroomID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid classroom id")
	}

	var p dto.StreamCreateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	var stream model.StreamModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		school, err := fetchSchool(tx, schoolID)
		if err != nil {
			return err
		}
		if !school.SchoolHasStreams {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"This school does not use streams")
		}

		var classroom model.ClassroomModel
		if err := tx.First(&classroom, "classroom_id = ?", classroomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Classroom not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load classroom")
		}
		if classroom.ClassroomSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Classroom belongs to a different school")
		}

		stream = model.StreamModel{
			StreamSchoolID: schoolID,
			StreamClassID:  classroomID,
			StreamName:     p.Name,
			StreamCapacity: 40,
		}
		if p.Capacity != nil {
			stream.StreamCapacity = *p.Capacity
		}
		if err := tx.Create(&stream).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to create stream")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonCreated(c, "Stream created", dto.FromStreamModel(stream))
}

func (ctl *ClassroomController) UpdateStream(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "stream management"); err != nil {
		return helper.FromFiberError(c, err)
	}
	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid stream id")
	}

	var p dto.StreamUpdateDTO
	if err := helper.BindAndValidate(c, ctl.Validator, &p); err != nil {
		return helper.FromFiberError(c, err)
	}

	var stream model.StreamModel
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&stream, "stream_id = ?", streamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Stream not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load stream")
		}
		if stream.StreamSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Stream belongs to a different school")
		}
		if p.Name != nil {
			stream.StreamName = *p.Name
		}
		if p.Capacity != nil {
			stream.StreamCapacity = *p.Capacity
		}
		if err := tx.Save(&stream).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update stream")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Stream updated", dto.FromStreamModel(stream))
}

func (ctl *ClassroomController) DeleteStream(c *fiber.Ctx) error {
	schoolID, err := helperAuth.GetSchoolID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := helperAuth.EnsureSchoolAdmin(c, "stream management"); err != nil {
		return helper.FromFiberError(c, err)
	}
	streamID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid stream id")
	}

	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var stream model.StreamModel
		if err := tx.First(&stream, "stream_id = ?", streamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Stream not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load stream")
		}
		if stream.StreamSchoolID != schoolID {
			return fiber.NewError(fiber.StatusForbidden, "Stream belongs to a different school")
		}
		if err := tx.Exec("DELETE FROM stream_teachers WHERE stream_teacher_stream_id = ?", streamID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to remove stream memberships")
		}
		if err := tx.Delete(&stream).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete stream")
		}
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Stream deleted", nil)
}
