package models

// Profile is the assembled record handed to the template renderer.
type Profile struct {
	Name           string          `json:"name"`
	Title          string          `json:"title"`
	Summary        string          `json:"summary"`
	Contact        Contact         `json:"contact"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Projects       []Project       `json:"projects"`
	Skills         []SkillCategory `json:"skills"`
	Certifications []Certification `json:"certifications"`
}

type Contact struct {
	Email    string `json:"email"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
}

type Experience struct {
	Company  string `json:"company"`
	JobTitle string `json:"jobTitle"`
	Date     string `json:"date"`
	Location string `json:"location"`
}

type Education struct {
	School string `json:"school"`
	Date   string `json:"date"`
}

type Project struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Technologies string            `json:"technologies"`
	Stars        int               `json:"stars"`
	Date         string            `json:"date"`
	Links        map[string]string `json:"links"`
}

type SkillCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Certification is reserved; the assembler always emits an empty list.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}
