package skillgap

import "strings"

const maxLearningResources = 5

var learningResources = map[string][]string{
	"java":            {"Java basics on YouTube", "Free Java course on Coursera"},
	"python":          {"Python for beginners - YouTube", "Python.org tutorials"},
	"programming":     {"Introduction to Programming - Khan Academy", "Code.org"},
	"data analysis":   {"Excel basics", "Google Data Analytics Certificate"},
	"social media":    {"Facebook Blueprint", "Google Digital Garage"},
	"content writing": {"Content writing basics - YouTube", "Grammarly blog"},
	"basic computer":  {"Computer basics - YouTube", "Digital literacy courses"},
	"communication":   {"Communication skills - YouTube", "Public speaking tips"},
	"ms office":       {"Microsoft Office tutorials", "Excel basics on YouTube"},
}

// LearningResources suggests up to five resources for the missing skills, in
// the order the skills are given.
func LearningResources(missing []string) []string {
	suggestions := []string{}
	for _, skill := range missing {
		suggestions = append(suggestions, learningResources[strings.ToLower(skill)]...)
		if len(suggestions) >= maxLearningResources {
			return suggestions[:maxLearningResources]
		}
	}
	return suggestions
}
