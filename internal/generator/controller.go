// Package generator runs the AI resume generation pipeline: job analysis,
// skill selection and selective generation, merged into the working resume.
package generator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-studio/internal/intake"
	"github.com/jonathan/resume-studio/internal/skills"
	"github.com/jonathan/resume-studio/internal/types"
)

// Analyzer calls the job analysis service
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalyzeJobRequest) (*types.JobAnalysisResult, error)
}

// ContentGenerator calls the resume generation service
type ContentGenerator interface {
	Generate(ctx context.Context, req types.GenerateResumeRequest) (*types.GeneratedContent, error)
}

// AIService is both halves of the AI backend
type AIService interface {
	Analyzer
	ContentGenerator
}

// Document is the editor-owned working resume
type Document interface {
	Resume() types.ResumeDocument
	SetResume(ctx context.Context, doc types.ResumeDocument) error
}

// Uploader turns an uploaded file into a resume document
type Uploader interface {
	Upload(ctx context.Context, file intake.File) (*types.ResumeDocument, error)
}

// DefaultTemplate is used for parsed resumes when the editor has none selected
const DefaultTemplate = "simple"

// Snapshot is a read-only copy of the controller state
type Snapshot struct {
	Stage          Stage                    `json:"stage"`
	JobDescription string                   `json:"jobDescription"`
	Analysis       *types.JobAnalysisResult `json:"analysis,omitempty"`
	SkillMatches   []types.SkillMatch       `json:"skillMatches"`
	SelectedSkills []string                 `json:"selectedSkills"`
	ErrorMessage   string                   `json:"errorMessage,omitempty"`
	UploadedResume *types.ResumeDocument    `json:"uploadedResume,omitempty"`
	Processing     bool                     `json:"processing"`
	Uploading      bool                     `json:"uploading"`
}

// Controller sequences one user's pipeline. It is safe for concurrent use:
// at most one analysis or generation call is in flight, tracked by a per-run
// token, and a result is applied only if its token is still current.
type Controller struct {
	ai       AIService
	doc      Document
	uploader Uploader
	logger   *zap.Logger

	mu             sync.Mutex
	stage          Stage
	jobDescription string
	analysis       *types.JobAnalysisResult
	matches        []types.SkillMatch
	selection      *skills.Selection
	errorMessage   string
	uploaded       *types.ResumeDocument
	runToken       string
	uploading      bool
}

// Option configures a Controller
type Option func(*Controller)

// WithUploader enables resume upload
func WithUploader(u Uploader) Option {
	return func(c *Controller) { c.uploader = u }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// NewController creates a controller in the input stage
func NewController(ai AIService, doc Document, opts ...Option) *Controller {
	c := &Controller{
		ai:        ai,
		doc:       doc,
		logger:    zap.NewNop(),
		stage:     StageInput,
		selection: skills.NewSelection(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stage returns the active stage
func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Stage:          c.stage,
		JobDescription: c.jobDescription,
		SkillMatches:   append([]types.SkillMatch{}, c.matches...),
		SelectedSkills: c.selection.Names(),
		ErrorMessage:   c.errorMessage,
		Processing:     c.runToken != "",
		Uploading:      c.uploading,
	}
	if c.analysis != nil {
		a := c.analysis.Clone()
		snap.Analysis = &a
	}
	if c.uploaded != nil {
		u := c.uploaded.Clone()
		snap.UploadedResume = &u
	}
	return snap
}

// SetJobDescription stores the job description text. Only allowed in the input stage.
func (c *Controller) SetJobDescription(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageInput {
		return ErrInvalidTransition
	}
	c.jobDescription = text
	return nil
}

// Analyze runs job analysis: input -> analysis -> selection, or -> error on failure.
func (c *Controller) Analyze(ctx context.Context) error {
	c.mu.Lock()
	if c.runToken != "" {
		c.mu.Unlock()
		return ErrBusy
	}
	if err := transition(c.stage, StageAnalysis); err != nil {
		c.mu.Unlock()
		return err
	}
	if strings.TrimSpace(c.jobDescription) == "" {
		c.mu.Unlock()
		return &ValidationError{Field: "jobDescription", Message: "job description is required"}
	}

	token := c.beginRun(StageAnalysis)
	req := types.AnalyzeJobRequest{
		JobDescription: c.jobDescription,
		CurrentSkills:  skills.Current(c.baseResumeLocked()),
	}
	c.mu.Unlock()

	start := time.Now()
	result, err := c.ai.Analyze(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.runToken != token {
		c.logger.Info("dropping stale analysis result", zap.String("run_id", token))
		return ErrStaleRun
	}
	c.runToken = ""

	if err != nil {
		return c.failLocked(StageAnalysis, token, start, err)
	}

	c.analysis = result
	c.matches = skills.Match(result.ExtractedSkills, req.CurrentSkills)
	c.selection = skills.InitialSelection(c.matches)
	c.setStageLocked(StageSelection)
	runDuration.WithLabelValues(string(StageAnalysis), "ok").Observe(time.Since(start).Seconds())

	c.logger.Info("job analysis complete",
		zap.String("run_id", token),
		zap.Int("extracted_skills", len(result.ExtractedSkills)),
		zap.Int("preselected", c.selection.Len()))
	return nil
}

// ToggleSkill flips selection of a skill and reports whether it is now selected.
// Only allowed in the selection stage.
func (c *Controller) ToggleSkill(name string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageSelection {
		return false, ErrInvalidTransition
	}
	return c.selection.Toggle(name), nil
}

// Generate runs selective generation: selection -> generation -> complete, or
// -> error on failure. The working resume changes only on success.
func (c *Controller) Generate(ctx context.Context) error {
	c.mu.Lock()
	if c.runToken != "" {
		c.mu.Unlock()
		return ErrBusy
	}
	if err := transition(c.stage, StageGeneration); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.selection.Len() == 0 {
		c.mu.Unlock()
		return &ValidationError{Field: "selectedSkills", Message: "select at least one skill"}
	}

	token := c.beginRun(StageGeneration)
	base := c.baseResumeLocked().Clone()
	level := types.DefaultExperienceLevel
	if c.analysis != nil && c.analysis.ExperienceLevel != "" {
		level = c.analysis.ExperienceLevel
	}
	req := types.GenerateResumeRequest{
		JobDescription:  c.jobDescription,
		SelectedSkills:  c.selection.Names(),
		CurrentResume:   base,
		ExperienceLevel: level,
	}
	c.mu.Unlock()

	start := time.Now()
	content, err := c.ai.Generate(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.runToken != token {
		c.logger.Info("dropping stale generation result", zap.String("run_id", token))
		return ErrStaleRun
	}
	c.runToken = ""

	if err != nil {
		return c.failLocked(StageGeneration, token, start, err)
	}

	merged := Merge(base, content)
	if err := c.doc.SetResume(ctx, merged); err != nil {
		return c.failLocked(StageGeneration, token, start, err)
	}

	c.setStageLocked(StageComplete)
	runDuration.WithLabelValues(string(StageGeneration), "ok").Observe(time.Since(start).Seconds())
	c.logger.Info("resume generation complete",
		zap.String("run_id", token),
		zap.Int("selected_skills", len(req.SelectedSkills)))
	return nil
}

// Back returns from selection to input, keeping the analysis
func (c *Controller) Back() error {
	return c.move(StageSelection, StageInput, nil)
}

// StartOver returns from the error stage to input
func (c *Controller) StartOver() error {
	return c.move(StageError, StageInput, func() {
		c.errorMessage = ""
	})
}

// TryAgain leaves the error stage: back to selection when skill matches
// exist, otherwise to input.
func (c *Controller) TryAgain() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageError {
		return ErrInvalidTransition
	}
	target := StageInput
	if len(c.matches) > 0 {
		target = StageSelection
	}
	c.errorMessage = ""
	c.setStageLocked(target)
	return nil
}

// GenerateAnother returns from complete to input and clears the run state.
// The merged resume stays as it is.
func (c *Controller) GenerateAnother() error {
	return c.move(StageComplete, StageInput, c.clearRunLocked)
}

// Reset abandons everything, including an in-flight run, and returns to
// input. A run that settles afterwards is dropped.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.runToken != "" {
		c.logger.Info("abandoning in-flight run", zap.String("run_id", c.runToken))
	}
	c.runToken = ""
	c.clearRunLocked()
	c.errorMessage = ""
	if c.stage != StageInput {
		stageTransitions.WithLabelValues(string(c.stage), string(StageInput)).Inc()
		c.stage = StageInput
	}
}

// UploadResume parses an uploaded resume and keeps it as the base for
// analysis and generation. It never changes the stage, and a failure leaves
// any previously uploaded resume in place.
func (c *Controller) UploadResume(ctx context.Context, file intake.File) error {
	if c.uploader == nil {
		return ErrNoUploader
	}

	c.mu.Lock()
	if c.uploading {
		c.mu.Unlock()
		return ErrBusy
	}
	c.uploading = true
	c.mu.Unlock()

	doc, err := c.uploader.Upload(ctx, file)

	template := c.doc.Resume().SelectedTemplate

	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploading = false

	if err != nil {
		var valErr *intake.ValidationError
		if errors.As(err, &valErr) {
			c.errorMessage = valErr.Message
			return &ValidationError{Field: "file", Message: valErr.Message}
		}
		c.errorMessage = MsgUploadParseFailed
		kind := KindParse
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			kind = KindRequest
		}
		pipelineErrors.WithLabelValues("intake", string(kind)).Inc()
		c.logger.Warn("resume upload failed",
			zap.String("file", file.Name),
			zap.String("error_kind", string(kind)),
			zap.Error(err))
		return &PipelineError{Kind: kind, Stage: c.stage, Message: MsgUploadParseFailed, Cause: err}
	}

	if template == "" {
		template = DefaultTemplate
	}
	doc.SelectedTemplate = template
	c.uploaded = doc
	c.errorMessage = ""
	return nil
}

// RemoveUploadedResume discards the uploaded resume
func (c *Controller) RemoveUploadedResume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploaded = nil
	c.errorMessage = ""
}

// move applies from -> to if the controller is in from, then runs fn under the lock
func (c *Controller) move(from, to Stage, fn func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != from {
		return ErrInvalidTransition
	}
	if fn != nil {
		fn()
	}
	c.setStageLocked(to)
	return nil
}

func (c *Controller) beginRun(stage Stage) string {
	token := uuid.NewString()
	c.runToken = token
	c.errorMessage = ""
	c.setStageLocked(stage)
	return token
}

func (c *Controller) failLocked(stage Stage, token string, start time.Time, err error) error {
	pErr := failure(stage, err)
	c.errorMessage = pErr.Message
	c.setStageLocked(StageError)

	pipelineErrors.WithLabelValues(string(stage), string(pErr.Kind)).Inc()
	runDuration.WithLabelValues(string(stage), "error").Observe(time.Since(start).Seconds())
	c.logger.Warn("pipeline run failed",
		zap.String("run_id", token),
		zap.String("stage", string(stage)),
		zap.String("error_kind", string(pErr.Kind)),
		zap.Error(err))
	return pErr
}

// setStageLocked moves to a stage the table allows. Callers check legality first.
func (c *Controller) setStageLocked(to Stage) {
	if err := transition(c.stage, to); err != nil {
		c.logger.Error("illegal stage change", zap.Error(err))
		return
	}
	stageTransitions.WithLabelValues(string(c.stage), string(to)).Inc()
	c.stage = to
}

func (c *Controller) clearRunLocked() {
	c.jobDescription = ""
	c.analysis = nil
	c.matches = nil
	c.selection = skills.NewSelection()
}

// baseResumeLocked is the uploaded resume when present, else the live document
func (c *Controller) baseResumeLocked() *types.ResumeDocument {
	if c.uploaded != nil {
		return c.uploaded
	}
	doc := c.doc.Resume()
	return &doc
}
