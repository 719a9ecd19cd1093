package domain

const CategoryAll = "All"

// Categories lists the feed categories in display order, without "All".
var Categories = []string{
	"Food",
	"Health and Fitness",
	"Travel",
	"Movie",
	"Education",
}

func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
