package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"codechat/config"
	"codechat/internal/analyzer"
	"codechat/internal/apperrors"
	"codechat/internal/archive"
	"codechat/internal/store"
)

type ProjectController struct {
	config   *config.Config
	projects store.ProjectRepository
}

type uploadResponse struct {
	ProjectID string             `json:"projectId"`
	Name      string             `json:"name"`
	Analysis  *analyzer.Analysis `json:"analysis"`
}

type projectResponse struct {
	ProjectID  string             `json:"projectId"`
	Name       string             `json:"name"`
	Analysis   *analyzer.Analysis `json:"analysis"`
	UploadedAt time.Time          `json:"uploadedAt"`
}

type fileContentResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func NewProjectController(cfg *config.Config, projects store.ProjectRepository) *ProjectController {
	return &ProjectController{
		config:   cfg,
		projects: projects,
	}
}

// Upload receives a zip archive, extracts it into a per-project directory,
// analyzes the tree and registers the Project. The archive is removed after
// extraction; no Project record is created when extraction fails.
func (pc *ProjectController) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("project")
	if err != nil {
		return respondError(c, pc.config, apperrors.Validation("No project file uploaded"))
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".zip") {
		return respondError(c, pc.config, apperrors.Validation("Only zip archives are supported"))
	}

	// Storage name is time plus a random suffix; the project id derives from it.
	storageName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
	zipPath := filepath.Join(pc.config.UploadDir, storageName+".zip")
	projectDir := filepath.Join(pc.config.UploadDir, storageName)

	if err := pc.saveUpload(fileHeader, zipPath); err != nil {
		return respondError(c, pc.config, err)
	}

	if err := archive.Extract(zipPath, projectDir); err != nil {
		os.Remove(zipPath)
		os.RemoveAll(projectDir)
		return respondError(c, pc.config, err)
	}

	projectAnalyzer := analyzer.New(projectDir)
	analysis, err := projectAnalyzer.Analyze()
	if err != nil {
		os.RemoveAll(projectDir)
		return respondError(c, pc.config, err)
	}

	project := &store.Project{
		ID:         storageName,
		Name:       strings.TrimSuffix(fileHeader.Filename, filepath.Ext(fileHeader.Filename)),
		Path:       projectDir,
		Analysis:   analysis,
		Analyzer:   projectAnalyzer,
		UploadedAt: time.Now(),
	}
	pc.projects.Put(project.ID, project)

	c.Logger().Infof("Project %s uploaded: %d files", project.ID, analysis.FileCount)

	return c.JSON(http.StatusOK, uploadResponse{
		ProjectID: project.ID,
		Name:      project.Name,
		Analysis:  analysis,
	})
}

func (pc *ProjectController) Get(c echo.Context) error {
	project, ok := pc.projects.Get(c.Param("id"))
	if !ok {
		return respondError(c, pc.config, apperrors.NotFound("Project not found"))
	}

	return c.JSON(http.StatusOK, projectResponse{
		ProjectID:  project.ID,
		Name:       project.Name,
		Analysis:   project.Analysis,
		UploadedAt: project.UploadedAt,
	})
}

// File serves the content of a single file inside the project root.
// Traversal outside the root reports the same 404 as a missing file.
func (pc *ProjectController) File(c echo.Context) error {
	project, ok := pc.projects.Get(c.Param("id"))
	if !ok {
		return respondError(c, pc.config, apperrors.NotFound("Project not found"))
	}

	relPath := c.QueryParam("path")
	content, err := project.Analyzer.FileContent(relPath)
	if err != nil {
		return respondError(c, pc.config, err)
	}

	return c.JSON(http.StatusOK, fileContentResponse{
		Path:    relPath,
		Content: content,
	})
}

// Delete removes the extracted directory from disk and the record from the
// store.
func (pc *ProjectController) Delete(c echo.Context) error {
	id := c.Param("id")
	project, ok := pc.projects.Get(id)
	if !ok {
		return respondError(c, pc.config, apperrors.NotFound("Project not found"))
	}

	if err := os.RemoveAll(project.Path); err != nil {
		return respondError(c, pc.config, apperrors.Filesystem("Failed to delete project directory", err))
	}
	pc.projects.Delete(id)

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Project deleted",
	})
}

// saveUpload writes the multipart file to the uploads directory.
func (pc *ProjectController) saveUpload(fileHeader *multipart.FileHeader, destPath string) error {
	src, err := fileHeader.Open()
	if err != nil {
		return apperrors.Filesystem("failed to read uploaded file", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return apperrors.Filesystem("failed to store uploaded file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return apperrors.Filesystem("failed to store uploaded file", err)
	}

	return nil
}
