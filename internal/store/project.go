// Package store holds the in-memory repositories for projects and
// conversations. Both are keyed maps whose lifecycle is tied to process
// uptime; nothing is persisted beyond the extracted directories on disk.
package store

import (
	"sync"
	"time"

	"codechat/internal/analyzer"
)

// Project is an uploaded, extracted codebase being analyzed and chatted
// about. Analysis is immutable after creation.
type Project struct {
	ID             string             `json:"projectId"`
	Name           string             `json:"name"`
	Path           string             `json:"-"`
	Analysis       *analyzer.Analysis `json:"analysis"`
	Analyzer       *analyzer.Analyzer `json:"-"`
	UploadedAt     time.Time          `json:"uploadedAt"`
	ConversationID string             `json:"conversationId,omitempty"`
}

// ProjectRepository is the storage contract for projects. The in-memory
// implementation below is the only one today; the interface keeps room for a
// persistent backend and lets tests inject isolated stores.
type ProjectRepository interface {
	Put(id string, project *Project)
	Get(id string) (*Project, bool)
	Delete(id string) bool
}

// MemoryProjectRepository is a map-backed ProjectRepository.
// Last writer wins on concurrent Put to the same key.
type MemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[string]*Project
}

// NewMemoryProjectRepository creates an empty project repository.
func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{
		projects: make(map[string]*Project),
	}
}

func (r *MemoryProjectRepository) Put(id string, project *Project) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[id] = project
}

func (r *MemoryProjectRepository) Get(id string) (*Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	project, ok := r.projects[id]
	return project, ok
}

// Delete removes the record and reports whether it existed. Removing the
// extracted directory is the caller's responsibility.
func (r *MemoryProjectRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.projects[id]
	delete(r.projects, id)
	return ok
}
