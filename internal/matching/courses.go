package matching

import "strings"

const (
	CourseComputerEngineering           = "Engenharia de Computação"
	CourseSoftwareEngineering           = "Engenharia de Software"
	CourseElectricalEngineering         = "Engenharia Elétrica"
	CourseTelecommunicationsEngineering = "Engenharia de Telecomunicações"
	CourseControlAutomationEngineering  = "Engenharia de Controle e Automação"
)

// relatedCourses grants partial course credit. It is deliberately not
// symmetric for Electrical Engineering's neighbours.
var relatedCourses = map[string][]string{
	CourseComputerEngineering:           {CourseSoftwareEngineering},
	CourseSoftwareEngineering:           {CourseComputerEngineering},
	CourseElectricalEngineering:         {CourseTelecommunicationsEngineering, CourseControlAutomationEngineering},
	CourseTelecommunicationsEngineering: {CourseElectricalEngineering},
	CourseControlAutomationEngineering:  {CourseElectricalEngineering},
}

var courseAliases = map[string]string{
	"computer engineering":               CourseComputerEngineering,
	"software engineering":               CourseSoftwareEngineering,
	"electrical engineering":             CourseElectricalEngineering,
	"telecommunications engineering":     CourseTelecommunicationsEngineering,
	"control & automation engineering":   CourseControlAutomationEngineering,
	"control and automation engineering": CourseControlAutomationEngineering,
}

// CanonicalCourse maps English aliases onto the Portuguese course names the
// listings use. Unknown names are returned trimmed.
func CanonicalCourse(name string) string {
	name = strings.TrimSpace(name)
	if canonical, ok := courseAliases[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

// RelatedCourses returns the courses that earn partial credit for course.
func RelatedCourses(course string) []string {
	related := relatedCourses[CanonicalCourse(course)]
	out := make([]string, len(related))
	copy(out, related)
	return out
}
