package course

import (
	"bytes"
	_ "embed"
)

//go:embed seed/spanish.yaml
var seedYAML []byte

// SeedCourseID is the id of the built-in course.
const SeedCourseID = "course-1"

// Seed returns a fresh copy of the built-in "Spanish for Beginners" course.
func Seed() (*Course, error) {
	return DecodeYAML(bytes.NewReader(seedYAML))
}
