package utils

import "strconv"

// SectionAll selects every room regardless of floor section.
const SectionAll = "all"

// FloorSection maps a section id to its static room-number range.
// Membership is by the numeric form of the room number.
type FloorSection struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Low   int    `json:"low"`
	High  int    `json:"high"`
}

// FloorSections is the hotel's fixed floor/building layout.
var FloorSections = []FloorSection{
	{ID: "1f", Label: "1층", Low: 101, High: 105},
	{ID: "2f", Label: "2층", Low: 106, High: 112},
	{ID: "2b", Label: "2동", Low: 201, High: 204},
	{ID: "3b", Label: "3동", Low: 301, High: 304},
	{ID: "4b", Label: "4동", Low: 401, High: 403},
	{ID: "5b", Label: "5동", Low: 501, High: 503},
	{ID: "6b", Label: "6동", Low: 601, High: 602},
	{ID: "7b", Label: "7동", Low: 701, High: 702},
	{ID: "8b", Label: "8동", Low: 801, High: 802},
}

// InSection reports whether the room number falls inside the section's
// range. Unknown sections and non-numeric room numbers match nothing.
func InSection(sectionID, roomNumber string) bool {
	n, err := strconv.Atoi(roomNumber)
	if err != nil {
		return false
	}
	for _, s := range FloorSections {
		if s.ID == sectionID {
			return n >= s.Low && n <= s.High
		}
	}
	return false
}
