// Package editor holds the editing session that owns the working resume.
package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-studio/internal/types"
)

// Store persists resume documents
type Store interface {
	GetResume(ctx context.Context, id uuid.UUID) (*types.ResumeDocument, error)
	SaveResume(ctx context.Context, doc types.ResumeDocument) (uuid.UUID, error)
}

// Session owns one working ResumeDocument. Readers get copies, and a write
// replaces the whole document at once.
type Session struct {
	mu     sync.RWMutex
	doc    types.ResumeDocument
	store  Store
	logger *zap.Logger
}

// NewSession starts a session on doc. A nil store keeps the document in memory only.
func NewSession(doc types.ResumeDocument, store Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{doc: doc.Clone(), store: store, logger: logger}
}

// Open loads a stored resume into a new session
func Open(ctx context.Context, store Store, id uuid.UUID, logger *zap.Logger) (*Session, error) {
	doc, err := store.GetResume(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("resume %s not found", id)
	}
	return NewSession(*doc, store, logger), nil
}

// Resume returns a copy of the working document
func (s *Session) Resume() types.ResumeDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// SetResume replaces the working document. With a store the document is
// saved first and the in-memory copy changes only if the save succeeds.
func (s *Session) SetResume(ctx context.Context, doc types.ResumeDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ID == "" {
		doc.ID = s.doc.ID
	}
	if s.store != nil {
		id, err := s.store.SaveResume(ctx, doc)
		if err != nil {
			return fmt.Errorf("failed to persist resume: %w", err)
		}
		doc.ID = id.String()
		s.logger.Debug("resume saved", zap.String("resume_id", doc.ID))
	}
	s.doc = doc.Clone()
	return nil
}

// Update applies fn to a copy of the document and stores the result
func (s *Session) Update(ctx context.Context, fn func(doc *types.ResumeDocument)) error {
	doc := s.Resume()
	fn(&doc)
	return s.SetResume(ctx, doc)
}
