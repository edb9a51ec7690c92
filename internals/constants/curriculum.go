// file: internals/constants/curriculum.go
package constants

// Curriculum systems a school may run, singly or both.
const (
	CurriculumCBC  = "CBC"
	Curriculum844  = "8-4-4"
	CurriculumBoth = "Both"
)

var Curricula = []string{CurriculumCBC, Curriculum844, CurriculumBoth}

// Senior-secondary CBC pathways
const (
	PathwaySTEM           = "STEM"
	PathwayArts           = "Arts"
	PathwaySocialSciences = "Social Sciences"
)

var Pathways = []string{PathwaySTEM, PathwayArts, PathwaySocialSciences}

// CurriculumCovers reports whether a teacher's specialization (or a school's
// configured curriculum) covers the given subject curriculum. "Both" covers
// everything; otherwise the values must match exactly.
func CurriculumCovers(specialization, subjectCurriculum string) bool {
	if specialization == CurriculumBoth {
		return true
	}
	return specialization == subjectCurriculum
}
