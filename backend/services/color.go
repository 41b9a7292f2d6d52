package services

import (
	"unicode/utf16"

	"studyhub/backend/models"
)

var courseColors = []models.CourseColor{
	{Name: "blue", BG: "bg-blue-500/10", Text: "text-blue-500", Border: "border-blue-500/20"},
	{Name: "green", BG: "bg-green-500/10", Text: "text-green-500", Border: "border-green-500/20"},
	{Name: "purple", BG: "bg-purple-500/10", Text: "text-purple-500", Border: "border-purple-500/20"},
	{Name: "orange", BG: "bg-orange-500/10", Text: "text-orange-500", Border: "border-orange-500/20"},
	{Name: "pink", BG: "bg-pink-500/10", Text: "text-pink-500", Border: "border-pink-500/20"},
	{Name: "cyan", BG: "bg-cyan-500/10", Text: "text-cyan-500", Border: "border-cyan-500/20"},
	{Name: "red", BG: "bg-red-500/10", Text: "text-red-500", Border: "border-red-500/20"},
	{Name: "yellow", BG: "bg-yellow-500/10", Text: "text-yellow-500", Border: "border-yellow-500/20"},
}

// CourseColor picks a stable palette entry for a course name.
// The hash matches the web client's so both sides agree on colours:
// h = c + ((h << 5) - h) over UTF-16 code units, with the shift done in int32.
func CourseColor(name string) models.CourseColor {
	var h int64
	for _, unit := range utf16.Encode([]rune(name)) {
		shifted := int32(h) << 5
		h = int64(unit) + int64(shifted) - h
	}
	if h < 0 {
		h = -h
	}
	return courseColors[h%int64(len(courseColors))]
}
