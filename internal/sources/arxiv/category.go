package arxiv

import "time"

// Categories is the fixed ordered list of subject categories the search
// rotates through. The rotation gives every category a recurring slot so a
// topicless digest still varies day to day.
var Categories = []string{
	"cs.AI",
	"cs.LG",
	"cs.CL",
	"cs.CV",
	"cs.RO",
	"cs.NE",
	"stat.ML",
}

// DailyCategory deterministically selects the category for a given date:
// the day of the year modulo the category count. The same date always yields
// the same category.
func DailyCategory(date time.Time) string {
	return Categories[date.YearDay()%len(Categories)]
}
