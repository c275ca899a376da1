// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package teaching reads the hand-maintained course history CSV that backs
// the teaching page. Rows with a bad shape are skipped with a notice, in
// line with the pipeline's record-level failure tolerance.
package teaching

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Category groups courses by subject for the teaching page filters.
type Category string

const (
	CategoryGenerativeAI    Category = "generative-ai"
	CategoryDeepLearning    Category = "deep-learning"
	CategoryVisualCognition Category = "visual-cognition"
	CategoryAutonomous      Category = "autonomous-robots"
	CategoryDirectedStudy   Category = "directed-study"
	CategoryOther           Category = "other"
)

// Course is one taught course offering.
type Course struct {
	Year     int
	Semester int
	Code     string
	Section  string
	Name     string
	Details  string
	Category Category
}

// LoadCSV reads the course history from path. The file must have a header
// row (year, semester, course_code, section, course_name, details); rows
// with a non-numeric year or semester are skipped with a notice to w.
func LoadCSV(path string, w io.Writer) ([]Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening course history: %w", err)
	}
	defer f.Close()
	return Parse(f, w)
}

// Parse decodes course rows from r.
func Parse(r io.Reader, w io.Writer) ([]Course, error) {
	reader := csv.NewReader(r)
	// Row shape is checked per record below so a single short or long row
	// is skipped instead of failing the whole file.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading course history header: %w", err)
	}
	if len(header) < 6 || strings.TrimSpace(header[0]) != "year" {
		return nil, fmt.Errorf("unexpected course history header %v", header)
	}

	var courses []Course
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading course history row %d: %w", line, err)
		}
		if len(row) != 6 {
			fmt.Fprintf(w, "skipping course row %d: %d fields, want 6\n", line, len(row))
			continue
		}

		year, yearErr := strconv.Atoi(strings.TrimSpace(row[0]))
		semester, semErr := strconv.Atoi(strings.TrimSpace(row[1]))
		if yearErr != nil || semErr != nil {
			fmt.Fprintf(w, "skipping course row %d: non-numeric year or semester\n", line)
			continue
		}

		course := Course{
			Year:     year,
			Semester: semester,
			Code:     strings.TrimSpace(row[2]),
			Section:  strings.TrimSpace(row[3]),
			Name:     strings.TrimSpace(row[4]),
			Details:  strings.TrimSpace(row[5]),
		}
		if course.Name == "" {
			fmt.Fprintf(w, "skipping course row %d: missing course name\n", line)
			continue
		}
		course.Category = categorize(course)
		courses = append(courses, course)
	}

	sort.SliceStable(courses, func(i, j int) bool {
		if courses[i].Year != courses[j].Year {
			return courses[i].Year > courses[j].Year
		}
		if courses[i].Semester != courses[j].Semester {
			return courses[i].Semester > courses[j].Semester
		}
		return courses[i].Code < courses[j].Code
	})
	return courses, nil
}

// categorize buckets a course by keywords in its name and details.
func categorize(c Course) Category {
	details := strings.ToLower(c.Details)
	name := strings.ToLower(c.Name)

	switch {
	case strings.Contains(details, "gpt"),
		strings.Contains(details, "generative"),
		strings.Contains(details, "transformer"):
		return CategoryGenerativeAI
	case strings.Contains(details, "deep learning"),
		strings.Contains(details, "neural"),
		strings.Contains(details, "cnn"):
		return CategoryDeepLearning
	case strings.Contains(details, "visual cognition"),
		strings.Contains(name, "visual cognition"):
		return CategoryVisualCognition
	case strings.Contains(details, "autonomous"),
		strings.Contains(details, "robot"),
		strings.Contains(details, "vehicle"):
		return CategoryAutonomous
	case strings.Contains(name, "directed study"):
		return CategoryDirectedStudy
	default:
		return CategoryOther
	}
}

// ByYear groups courses by year, newest year first.
func ByYear(courses []Course) (years []int, grouped map[int][]Course) {
	grouped = make(map[int][]Course)
	for _, c := range courses {
		if _, ok := grouped[c.Year]; !ok {
			years = append(years, c.Year)
		}
		grouped[c.Year] = append(grouped[c.Year], c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, grouped
}
