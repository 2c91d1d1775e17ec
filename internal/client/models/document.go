package models

// Documentation is a generated README and its analysis.
type Documentation struct {
	ID               ID                `json:"id"`
	ProjectName      string            `json:"project_name"`
	Summary          string            `json:"summary"`
	FolderStructure  string            `json:"folder_structure"`
	TechStack        map[string]string `json:"tech_stack"`
	DetectedLanguage string            `json:"detected_language"`
	Framework        *string           `json:"framework"`
	APIEndpoints     []string          `json:"api_endpoints"`
	ReadmeContent    string            `json:"readme_content"`
	CreatedAt        Timestamp         `json:"created_at"`
}

// DocFilter pages GET /docs/.
type DocFilter struct {
	Skip  int
	Limit int
}

type GitHubUploadRequest struct {
	RepoURL string `json:"repo_url"`
}

// UploadResponse is returned by both upload endpoints.
type UploadResponse struct {
	Message     string `json:"message"`
	DocID       ID     `json:"doc_id"`
	ProjectName string `json:"project_name"`
}
