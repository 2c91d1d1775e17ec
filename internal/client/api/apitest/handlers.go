package apitest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/docsmith/internal/client/models"
	"github.com/gorilla/mux"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request, _ string) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[req.Email]
	if acc == nil || acc.password != req.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{AccessToken: s.issueLocked(req.Email), TokenType: "bearer"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, _ string) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "email"}, "msg": "field required", "type": "value_error.missing"}},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accounts[req.Email] != nil {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	u := s.addUserLocked(req.Name, req.Email, req.Password)
	writeJSON(w, http.StatusOK, models.RegisterResponse{Message: "User registered successfully", UserID: u.ID})
}

func (s *Server) me(w http.ResponseWriter, _ *http.Request, email string) {
	s.mu.Lock()
	u := s.accounts[email].user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) uploadZip(w http.ResponseWriter, r *http.Request, email string) {
	name, _, ok := readUpload(w, r)
	if !ok {
		return
	}
	if !strings.HasSuffix(strings.ToLower(name), ".zip") {
		writeDetail(w, http.StatusBadRequest, "Only ZIP files are allowed")
		return
	}

	project := strings.TrimSuffix(name, path.Ext(name))
	s.mu.Lock()
	id := s.addProjectLocked(models.Project{ProjectName: project, PrimaryLanguage: "Python", FileCount: 1,
		ReadmeContent: "# " + project + "\n"})
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.UploadResponse{Message: "Documentation generated successfully", DocID: id, ProjectName: project})
}

func (s *Server) uploadGitHub(w http.ResponseWriter, r *http.Request, _ string) {
	var req models.GitHubUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	rest, ok := strings.CutPrefix(req.RepoURL, "https://github.com/")
	if !ok || strings.Count(strings.Trim(rest, "/"), "/") != 1 {
		writeDetail(w, http.StatusBadRequest, "Invalid GitHub URL")
		return
	}

	project := path.Base(strings.TrimSuffix(strings.Trim(rest, "/"), ".git"))
	s.mu.Lock()
	id := s.addProjectLocked(models.Project{ProjectName: project, PrimaryLanguage: "Go", FileCount: 1,
		ReadmeContent: "# " + project + "\n"})
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.UploadResponse{Message: "Repository cloned and documented", DocID: id, ProjectName: project})
}

// readUpload extracts the "file" part of a multipart request.
func readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"loc": []string{"body", "file"}, "msg": "field required", "type": "value_error.missing"}},
		})
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "unreadable upload")
		return "", nil, false
	}
	return hdr.Filename, data, true
}

func pageBounds(r *http.Request, n int) (int, int) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	if skip > n {
		skip = n
	}
	end := skip + limit
	if end > n {
		end = n
	}
	return skip, end
}

func (s *Server) listDocs(w http.ResponseWriter, r *http.Request, _ string) {
	s.mu.Lock()
	docs := append([]models.Documentation(nil), s.docs...)
	s.mu.Unlock()

	from, to := pageBounds(r, len(docs))
	writeJSON(w, http.StatusOK, docs[from:to])
}

func (s *Server) getDoc(w http.ResponseWriter, r *http.Request, _ string) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if string(d.ID) == id {
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Documentation not found")
}

func (s *Server) downloadDoc(w http.ResponseWriter, r *http.Request, _ string) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if string(d.ID) == id {
			w.Header().Set("Content-Type", "text/markdown")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.ProjectName+"_README.md"))
			_, _ = io.WriteString(w, d.ReadmeContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Documentation not found")
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request, _ string) {
	q := r.URL.Query()
	lang := q.Get("language")
	search := strings.ToLower(q.Get("search"))

	s.mu.Lock()
	var out []models.Project
	for _, p := range s.projects {
		if lang != "" && !strings.EqualFold(p.PrimaryLanguage, lang) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.ProjectName), search) {
			continue
		}
		out = append(out, p)
	}
	s.mu.Unlock()

	sortProjects(out, q.Get("sort_by"))
	from, to := pageBounds(r, len(out))
	writeJSON(w, http.StatusOK, append([]models.Project{}, out[from:to]...))
}

func (s *Server) myProjects(w http.ResponseWriter, _ *http.Request, _ string) {
	ps := s.Projects()
	sortProjects(ps, models.SortNewest)
	writeJSON(w, http.StatusOK, append([]models.Project{}, ps...))
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findProjectLocked(mux.Vars(r)["id"])
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Project not found")
		return
	}
	writeJSON(w, http.StatusOK, s.projects[i])
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request, _ string) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findProjectLocked(id)
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Project not found")
		return
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	for j, d := range s.docs {
		if string(d.ID) == id {
			s.docs = append(s.docs[:j], s.docs[j+1:]...)
			break
		}
	}
	writeJSON(w, http.StatusOK, models.DeleteResponse{Message: "Project deleted successfully"})
}

func (s *Server) trackDownload(w http.ResponseWriter, r *http.Request, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findProjectLocked(mux.Vars(r)["id"])
	if i < 0 {
		writeDetail(w, http.StatusNotFound, "Project not found")
		return
	}
	s.projects[i].ReadmeDownloadCount++
	writeJSON(w, http.StatusOK, models.DownloadCount{DownloadCount: s.projects[i].ReadmeDownloadCount})
}

func (s *Server) dependencies(w http.ResponseWriter, r *http.Request, _ string) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	d, ok := s.deps[id]
	known := s.findProjectLocked(string(id)) >= 0
	s.mu.Unlock()
	if !known {
		writeDetail(w, http.StatusNotFound, "Project not found")
		return
	}
	if !ok {
		d = models.Dependencies{Libraries: []string{}, Frameworks: []string{}}
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) projectHealth(w http.ResponseWriter, r *http.Request, _ string) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	h, ok := s.health[id]
	known := s.findProjectLocked(string(id)) >= 0
	s.mu.Unlock()
	if !known {
		writeDetail(w, http.StatusNotFound, "Project not found")
		return
	}
	if !ok {
		h = models.Health{Score: 100, Grade: "A", Issues: []string{}}
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) projectInsights(w http.ResponseWriter, r *http.Request, _ string) {
	id := models.ID(mux.Vars(r)["id"])
	s.mu.Lock()
	in := s.insights[id]
	known := s.findProjectLocked(string(id)) >= 0
	s.mu.Unlock()
	if !known {
		writeDetail(w, http.StatusNotFound, "Project not found")
		return
	}
	if in == nil {
		in = []models.Insight{}
	}
	writeJSON(w, http.StatusOK, models.InsightList{Insights: in})
}

func (s *Server) summarize(w http.ResponseWriter, r *http.Request, _ string) {
	name, data, ok := readUpload(w, r)
	if !ok {
		return
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf", ".docx", ".txt":
	default:
		writeDetail(w, http.StatusBadRequest, "Unsupported file type. Upload PDF, DOCX or TXT.")
		return
	}

	text := strings.TrimSpace(string(data))
	first, _, _ := strings.Cut(text, "\n")
	writeJSON(w, http.StatusOK, models.SummaryResult{
		Filename: name,
		Summary: models.Summary{
			ShortSummary:    first,
			DetailedSummary: text,
			KeyPoints:       []string{first},
			ActionItems:     []models.ActionItem{},
			Metadata: models.SummaryMetadata{
				ContentType: "general",
				WordCount:   len(strings.Fields(text)),
				Confidence:  0.9,
				ExtractedAt: time.Now().UTC().Format(time.RFC3339),
			},
		},
	})
}
