package generator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/aiclient"
	"github.com/jonathan/resume-studio/internal/editor"
	"github.com/jonathan/resume-studio/internal/intake"
	"github.com/jonathan/resume-studio/internal/types"
)

type fakeAI struct {
	mu          sync.Mutex
	analysis    *types.JobAnalysisResult
	analyzeErr  error
	content     *types.GeneratedContent
	generateErr error

	// when set, calls block until the channel is closed
	gate    chan struct{}
	started chan struct{}

	analyzeReqs  []types.AnalyzeJobRequest
	generateReqs []types.GenerateResumeRequest
}

func (f *fakeAI) wait() {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeAI) Analyze(_ context.Context, req types.AnalyzeJobRequest) (*types.JobAnalysisResult, error) {
	f.mu.Lock()
	f.analyzeReqs = append(f.analyzeReqs, req)
	f.mu.Unlock()
	f.wait()
	return f.analysis, f.analyzeErr
}

func (f *fakeAI) Generate(_ context.Context, req types.GenerateResumeRequest) (*types.GeneratedContent, error) {
	f.mu.Lock()
	f.generateReqs = append(f.generateReqs, req)
	f.mu.Unlock()
	f.wait()
	return f.content, f.generateErr
}

type fakeUploader struct {
	doc *types.ResumeDocument
	err error
}

func (u *fakeUploader) Upload(_ context.Context, _ intake.File) (*types.ResumeDocument, error) {
	return u.doc, u.err
}

func sampleAnalysis() *types.JobAnalysisResult {
	return &types.JobAnalysisResult{
		ExtractedSkills: []types.ExtractedSkill{
			{Name: "Go", Required: true, Importance: types.ImportanceHigh},
			{Name: "SQL", Required: true, Importance: types.ImportanceMedium},
			{Name: "Docker", Required: false, Importance: types.ImportanceLow},
		},
		ExperienceLevel: "senior",
	}
}

func liveResume() types.ResumeDocument {
	return types.ResumeDocument{
		Summary:       "Original",
		SkillSections: []types.SkillGroup{{Name: "Data", Skills: []string{"PostgreSQL", "sql"}}},
		WorkExperiences: []types.WorkExperience{
			{Position: "Engineer"},
		},
	}
}

func newTestController(ai *fakeAI, opts ...Option) (*Controller, *editor.Session) {
	session := editor.NewSession(liveResume(), nil, nil)
	return NewController(ai, session, opts...), session
}

func TestController_EndToEnd(t *testing.T) {
	ai := &fakeAI{
		analysis: sampleAnalysis(),
		content:  &types.GeneratedContent{Summary: strPtr("Generated summary")},
	}
	c, session := newTestController(ai)
	ctx := context.Background()

	require.Equal(t, StageInput, c.Stage())
	require.NoError(t, c.SetJobDescription("Senior Go engineer"))

	require.NoError(t, c.Analyze(ctx))
	snap := c.Snapshot()
	assert.Equal(t, StageSelection, snap.Stage)
	assert.Equal(t, []string{"Go"}, snap.SelectedSkills, "required and missing only")
	require.Len(t, snap.SkillMatches, 3)
	assert.True(t, snap.SkillMatches[1].Present, "SQL is covered")
	assert.Equal(t, []string{"PostgreSQL", "sql"}, ai.analyzeReqs[0].CurrentSkills)

	selected, err := c.ToggleSkill("Go")
	require.NoError(t, err)
	assert.False(t, selected)
	selected, err = c.ToggleSkill("Go")
	require.NoError(t, err)
	assert.True(t, selected)
	assert.Equal(t, StageSelection, c.Stage())

	require.NoError(t, c.Generate(ctx))
	assert.Equal(t, StageComplete, c.Stage())
	assert.Equal(t, "Generated summary", session.Resume().Summary)
	assert.Equal(t, "senior", ai.generateReqs[0].ExperienceLevel)
	assert.Equal(t, []string{"Go"}, ai.generateReqs[0].SelectedSkills)

	// skillSections was absent from the generated content
	assert.Empty(t, session.Resume().SkillSections)
	assert.Equal(t, liveResume().WorkExperiences, session.Resume().WorkExperiences)
}

func TestController_AnalyzeValidation(t *testing.T) {
	c, _ := newTestController(&fakeAI{analysis: sampleAnalysis()})

	require.NoError(t, c.SetJobDescription("   \n\t"))
	err := c.Analyze(context.Background())

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "jobDescription", valErr.Field)
	assert.Equal(t, StageInput, c.Stage())
}

func TestController_AnalyzeFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    ErrorKind
		message string
	}{
		{
			name:    "request",
			err:     &aiclient.RequestError{Endpoint: aiclient.AnalyzeJobPath, StatusCode: 500},
			kind:    KindRequest,
			message: MsgAnalyzeFailed,
		},
		{
			name:    "parse",
			err:     &aiclient.ParseError{Endpoint: aiclient.AnalyzeJobPath, Message: "no JSON object in response"},
			kind:    KindParse,
			message: MsgAnalysisParseFailed,
		},
		{
			name:    "unknown",
			err:     errors.New("something odd"),
			kind:    KindUnknown,
			message: "something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(&fakeAI{analyzeErr: tt.err})
			before := testutil.ToFloat64(pipelineErrors.WithLabelValues(string(StageAnalysis), string(tt.kind)))

			require.NoError(t, c.SetJobDescription("Go developer"))
			err := c.Analyze(context.Background())

			var pErr *PipelineError
			require.True(t, errors.As(err, &pErr))
			assert.Equal(t, tt.kind, pErr.Kind)
			assert.Equal(t, StageError, c.Stage())
			assert.Equal(t, tt.message, c.Snapshot().ErrorMessage)
			assert.Equal(t, before+1, testutil.ToFloat64(pipelineErrors.WithLabelValues(string(StageAnalysis), string(tt.kind))))

			// No matches exist, so try again goes back to input
			require.NoError(t, c.TryAgain())
			assert.Equal(t, StageInput, c.Stage())
			assert.Empty(t, c.Snapshot().ErrorMessage)
		})
	}
}

func TestController_GenerateFailureKeepsResume(t *testing.T) {
	ai := &fakeAI{
		analysis:    sampleAnalysis(),
		generateErr: &aiclient.ParseError{Endpoint: aiclient.GenerateResumePath, Message: "no JSON object in response"},
	}
	c, session := newTestController(ai)
	ctx := context.Background()

	require.NoError(t, c.SetJobDescription("Go developer"))
	require.NoError(t, c.Analyze(ctx))

	err := c.Generate(ctx)
	var pErr *PipelineError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, KindParse, pErr.Kind)
	assert.Equal(t, StageError, c.Stage())
	assert.Equal(t, MsgGenerateParseFailed, c.Snapshot().ErrorMessage)
	assert.Equal(t, liveResume(), session.Resume(), "document untouched")

	// Matches exist, so try again returns to selection with the selection intact
	require.NoError(t, c.TryAgain())
	assert.Equal(t, StageSelection, c.Stage())
	assert.Equal(t, []string{"Go"}, c.Snapshot().SelectedSkills)
}

func TestController_GenerateRequiresSelection(t *testing.T) {
	c, _ := newTestController(&fakeAI{analysis: sampleAnalysis()})
	ctx := context.Background()

	require.NoError(t, c.SetJobDescription("Go developer"))
	require.NoError(t, c.Analyze(ctx))
	_, err := c.ToggleSkill("Go")
	require.NoError(t, err)

	err = c.Generate(ctx)
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, StageSelection, c.Stage())
}

func TestController_StageGuards(t *testing.T) {
	c, _ := newTestController(&fakeAI{analysis: sampleAnalysis()})
	ctx := context.Background()

	assert.ErrorIs(t, c.Generate(ctx), ErrInvalidTransition)
	_, err := c.ToggleSkill("Go")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, c.StartOver(), ErrInvalidTransition)
	assert.ErrorIs(t, c.TryAgain(), ErrInvalidTransition)
	assert.ErrorIs(t, c.GenerateAnother(), ErrInvalidTransition)
	assert.ErrorIs(t, c.Back(), ErrInvalidTransition)

	require.NoError(t, c.SetJobDescription("Go developer"))
	require.NoError(t, c.Analyze(ctx))
	assert.ErrorIs(t, c.SetJobDescription("other"), ErrInvalidTransition)
	assert.ErrorIs(t, c.Analyze(ctx), ErrInvalidTransition)

	require.NoError(t, c.Back())
	assert.Equal(t, StageInput, c.Stage())
	assert.Len(t, c.Snapshot().SkillMatches, 3, "back keeps the analysis")
}

func TestController_GenerateAnotherResetsRunState(t *testing.T) {
	ai := &fakeAI{
		analysis: sampleAnalysis(),
		content:  &types.GeneratedContent{Summary: strPtr("Merged")},
	}
	c, session := newTestController(ai)
	ctx := context.Background()

	require.NoError(t, c.SetJobDescription("Go developer"))
	require.NoError(t, c.Analyze(ctx))
	require.NoError(t, c.Generate(ctx))

	require.NoError(t, c.GenerateAnother())
	snap := c.Snapshot()
	assert.Equal(t, StageInput, snap.Stage)
	assert.Empty(t, snap.JobDescription)
	assert.Nil(t, snap.Analysis)
	assert.Empty(t, snap.SkillMatches)
	assert.Empty(t, snap.SelectedSkills)
	assert.Equal(t, "Merged", session.Resume().Summary)
}

func TestController_StartOver(t *testing.T) {
	c, _ := newTestController(&fakeAI{analyzeErr: errors.New("boom")})

	require.NoError(t, c.SetJobDescription("Go developer"))
	require.Error(t, c.Analyze(context.Background()))

	require.NoError(t, c.StartOver())
	assert.Equal(t, StageInput, c.Stage())
	assert.Empty(t, c.Snapshot().ErrorMessage)
}

func TestController_SingleFlight(t *testing.T) {
	ai := &fakeAI{
		analysis: sampleAnalysis(),
		gate:     make(chan struct{}),
		started:  make(chan struct{}, 1),
	}
	c, _ := newTestController(ai)
	require.NoError(t, c.SetJobDescription("Go developer"))

	done := make(chan error, 1)
	go func() { done <- c.Analyze(context.Background()) }()
	<-ai.started

	assert.True(t, c.Snapshot().Processing)
	assert.Equal(t, StageAnalysis, c.Stage())
	assert.ErrorIs(t, c.Analyze(context.Background()), ErrBusy)
	assert.ErrorIs(t, c.Generate(context.Background()), ErrBusy)

	close(ai.gate)
	require.NoError(t, <-done)
	assert.False(t, c.Snapshot().Processing)
	assert.Len(t, ai.analyzeReqs, 1)
}

func TestController_ResetDropsStaleResult(t *testing.T) {
	ai := &fakeAI{
		analysis: sampleAnalysis(),
		gate:     make(chan struct{}),
		started:  make(chan struct{}, 1),
	}
	c, _ := newTestController(ai)
	require.NoError(t, c.SetJobDescription("Go developer"))

	done := make(chan error, 1)
	go func() { done <- c.Analyze(context.Background()) }()
	<-ai.started

	c.Reset()
	assert.Equal(t, StageInput, c.Stage())

	close(ai.gate)
	assert.ErrorIs(t, <-done, ErrStaleRun)

	snap := c.Snapshot()
	assert.Equal(t, StageInput, snap.Stage)
	assert.Nil(t, snap.Analysis, "stale result not applied")
	assert.Empty(t, snap.SkillMatches)
}

func TestController_UploadedResumeIsBase(t *testing.T) {
	uploaded := &types.ResumeDocument{
		FirstName:     "Ada",
		SkillSections: []types.SkillGroup{{Name: "Skills", Skills: []string{"Go"}}},
	}
	ai := &fakeAI{
		analysis: sampleAnalysis(),
		content:  &types.GeneratedContent{Summary: strPtr("From upload")},
	}
	c, session := newTestController(ai, WithUploader(&fakeUploader{doc: uploaded}))
	ctx := context.Background()

	require.NoError(t, c.UploadResume(ctx, intake.File{Name: "cv.pdf", ContentType: intake.PDFContentType}))
	snap := c.Snapshot()
	require.NotNil(t, snap.UploadedResume)
	assert.Equal(t, DefaultTemplate, snap.UploadedResume.SelectedTemplate)
	assert.Equal(t, StageInput, snap.Stage)

	require.NoError(t, c.SetJobDescription("Go developer"))
	require.NoError(t, c.Analyze(ctx))
	assert.Equal(t, []string{"Go"}, ai.analyzeReqs[0].CurrentSkills)
	// Go is present in the uploaded resume, SQL is not
	assert.Equal(t, []string{"SQL"}, c.Snapshot().SelectedSkills)

	_, err := c.ToggleSkill("Docker")
	require.NoError(t, err)
	require.NoError(t, c.Generate(ctx))

	assert.Equal(t, "Ada", ai.generateReqs[0].CurrentResume.FirstName)
	got := session.Resume()
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "From upload", got.Summary)

	c.RemoveUploadedResume()
	assert.Nil(t, c.Snapshot().UploadedResume)
}

func TestController_UploadFailures(t *testing.T) {
	previous := &types.ResumeDocument{FirstName: "Previous"}
	uploader := &fakeUploader{doc: previous}
	c, _ := newTestController(&fakeAI{}, WithUploader(uploader))
	ctx := context.Background()
	require.NoError(t, c.UploadResume(ctx, intake.File{Name: "first.pdf"}))

	uploader.doc = nil
	uploader.err = &intake.ValidationError{Message: intake.NotPDFMessage}
	err := c.UploadResume(ctx, intake.File{Name: "cv.docx"})
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, MsgNotPDF, c.Snapshot().ErrorMessage)

	uploader.err = &intake.ParseError{File: "cv.pdf", Cause: errors.New("corrupt")}
	err = c.UploadResume(ctx, intake.File{Name: "cv.pdf"})
	var pErr *PipelineError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, KindParse, pErr.Kind)

	snap := c.Snapshot()
	assert.Equal(t, MsgUploadParseFailed, snap.ErrorMessage)
	assert.Equal(t, StageInput, snap.Stage, "upload never moves the pipeline")
	require.NotNil(t, snap.UploadedResume)
	assert.Equal(t, "Previous", snap.UploadedResume.FirstName, "prior upload kept")
	assert.False(t, snap.Uploading)
}

func TestController_UploadNotConfigured(t *testing.T) {
	c, _ := newTestController(&fakeAI{})
	assert.ErrorIs(t, c.UploadResume(context.Background(), intake.File{}), ErrNoUploader)
}

func TestController_SnapshotAnalysisIsDetached(t *testing.T) {
	analysis := sampleAnalysis()
	analysis.KeyRequirements = []string{"APIs"}
	analysis.MatchAnalysis.MissingCritical = []string{"Go"}
	c, _ := newTestController(&fakeAI{analysis: analysis})

	require.NoError(t, c.SetJobDescription("Go role"))
	require.NoError(t, c.Analyze(context.Background()))

	snap := c.Snapshot()
	require.NotNil(t, snap.Analysis)
	snap.Analysis.ExtractedSkills[0].Name = "mutated"
	snap.Analysis.KeyRequirements[0] = "mutated"
	snap.Analysis.MatchAnalysis.MissingCritical[0] = "mutated"

	again := c.Snapshot()
	assert.Equal(t, "Go", again.Analysis.ExtractedSkills[0].Name)
	assert.Equal(t, []string{"APIs"}, again.Analysis.KeyRequirements)
	assert.Equal(t, []string{"Go"}, again.Analysis.MatchAnalysis.MissingCritical)
}
