package credential

import (
	"math"
	"strconv"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

var letterPoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "D-": 0.7,
	"F": 0,
}

// percentBands maps a 0..100 percentage onto 4.0-scale points.
var percentBands = []struct {
	min    float64
	points float64
}{
	{93, 4.0}, {90, 3.7}, {87, 3.3}, {83, 3.0}, {80, 2.7},
	{77, 2.3}, {73, 2.0}, {70, 1.7}, {67, 1.3}, {60, 1.0},
}

// GradePoints converts a grade to 4.0-scale points. Letter grades use the
// standard US table, numbers up to 4 are taken as points, numbers from the
// lowest passing band up to 100 as percentages. Numbers in between belong to
// an unknown local scale (out of 5, out of 10, ...) and are not convertible.
func GradePoints(grade string) (float64, bool) {
	g := strings.ToUpper(strings.TrimSpace(grade))
	if g == "" {
		return 0, false
	}
	if p, ok := letterPoints[g]; ok {
		return p, true
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(g, "%"), 64)
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	if n <= 4 {
		return n, true
	}
	for _, band := range percentBands {
		if n >= band.min {
			return band.points, true
		}
	}
	return 0, false
}

// CalculateGPA returns the credit-weighted 4.0-scale GPA. The US grade wins
// over the received grade; courses without credits weigh 1. ok is false when
// no course carries a convertible grade.
func CalculateGPA(courses []domain.CourseRecord) (float64, bool) {
	var points, weight float64
	for _, c := range courses {
		p, ok := 0.0, false
		if c.USGrade != nil {
			p, ok = GradePoints(*c.USGrade)
		}
		if !ok {
			p, ok = GradePoints(c.GradeReceived)
		}
		if !ok {
			continue
		}
		credits := 1.0
		if c.Credits != nil && *c.Credits > 0 {
			credits = *c.Credits
		}
		points += p * credits
		weight += credits
	}
	if weight == 0 {
		return 0, false
	}
	return math.Round(points/weight*100) / 100, true
}
