// internal/workers/recommendation/browse-internships/models.go
package browseinternships

import "internship-recommender/internal/models"

type Input struct {
	Sector   string `json:"sector,omitempty"`
	Location string `json:"location,omitempty"`
	Page     int    `json:"page,omitempty"`
	PerPage  int    `json:"perPage,omitempty"`
}

type Output struct {
	Internships []Internship `json:"internships"`
	Pagination  Pagination   `json:"pagination"`
	Sectors     []string     `json:"sectors"`
	Locations   []string     `json:"locations"`
}

type Internship struct {
	ID             models.ID `json:"id"`
	Title          string    `json:"title"`
	Company        string    `json:"company"`
	Location       string    `json:"location"`
	Sector         string    `json:"sector"`
	SkillsRequired []string  `json:"skillsRequired"`
	Stipend        float64   `json:"stipend"`
	Duration       string    `json:"duration"`
	Remote         bool      `json:"remote"`
	Difficulty     string    `json:"difficulty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
