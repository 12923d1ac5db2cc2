package models

// GitHubData is what the repository-data collaborator returns for one user.
type GitHubData struct {
	Profile      GitHubProfile `json:"profile"`
	Repositories []Repository  `json:"repositories"`
}

type GitHubProfile struct {
	Login    string `json:"login"`
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Email    string `json:"email"`
	Location string `json:"location"`
	Blog     string `json:"blog"`
	HTMLURL  string `json:"html_url"`
}

type Repository struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stargazers_count"`
	Fork        bool     `json:"fork"`
	Size        int      `json:"size"`
	HTMLURL     string   `json:"html_url"`
	Homepage    string   `json:"homepage"`
	UpdatedAt   string   `json:"updated_at"`
	Readme      string   `json:"-"`
}
