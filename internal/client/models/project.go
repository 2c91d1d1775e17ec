package models

type Project struct {
	ID                  ID                `json:"id"`
	ProjectName         string            `json:"project_name"`
	PrimaryLanguage     string            `json:"primary_language"`
	Framework           string            `json:"framework,omitempty"`
	FileCount           int               `json:"file_count"`
	CreatedAt           Timestamp         `json:"created_at"`
	TechStack           map[string]string `json:"tech_stack,omitempty"`
	ReadmeDownloadCount int               `json:"readme_download_count"`
	Summary             string            `json:"summary,omitempty"`
	ReadmeContent       string            `json:"readme_content,omitempty"`
	FolderStructure     string            `json:"folder_structure,omitempty"`
	APIEndpoints        []string          `json:"api_endpoints,omitempty"`
}

// Sort orders accepted by GET /projects/.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// ProjectFilter holds the optional query parameters of GET /projects/.
// Zero values are omitted from the query.
type ProjectFilter struct {
	Language string
	SortBy   string
	Search   string
	Skip     int
	Limit    int
}

// Dependencies is the breakdown returned by GET /projects/{id}/dependencies.
type Dependencies struct {
	FrontendFramework *string  `json:"frontend_framework"`
	BackendFramework  *string  `json:"backend_framework"`
	Database          *string  `json:"database"`
	PackageManager    *string  `json:"package_manager"`
	Libraries         []string `json:"libraries"`
	FrameworkDetected bool     `json:"framework_detected"`
	Frameworks        []string `json:"frameworks"`
}

// Health is the score returned by GET /projects/{id}/health.
type Health struct {
	Score  int      `json:"score"`
	Grade  string   `json:"grade"`
	Issues []string `json:"issues"`
}

type Insight struct {
	Type     string `json:"type"`
	Icon     string `json:"icon,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// InsightList is the envelope of GET /projects/{id}/insights.
type InsightList struct {
	Insights []Insight `json:"insights"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

// DownloadCount is returned by the download-tracking call.
type DownloadCount struct {
	DownloadCount int `json:"download_count"`
}
