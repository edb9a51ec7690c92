package constants

import "fmt"

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

// Role error message templates
const (
	ErrOnlyAdminsCanAccess   = "Only school admins may access %s."
	ErrOnlyTeachersCanAccess = "Only teachers or admins may access %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

// ==========================
// Grouped role slices
// ==========================
var (
	AllRoles      = []string{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}
	StaffRoles    = []string{RoleAdmin, RoleTeacher}
	AdminAndAbove = []string{RoleAdmin}
)
