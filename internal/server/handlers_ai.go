package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/resume-studio/internal/llm"
	"github.com/jonathan/resume-studio/internal/prompts"
	"github.com/jonathan/resume-studio/internal/types"
)

const noSkills = "None listed"

// handleAnalyzeJob streams the model's job analysis as plain text
func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeJobRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	skills := noSkills
	if len(req.CurrentSkills) > 0 {
		skills = strings.Join(req.CurrentSkills, ", ")
	}
	prompt, err := prompts.Render(prompts.AIFile, prompts.AnalyzeJob, map[string]string{
		"CurrentSkills":  skills,
		"JobDescription": req.JobDescription,
	})
	if err != nil {
		s.logger.Error("failed to render prompt", zap.String("prompt", prompts.AnalyzeJob), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to analyze job description")
		return
	}

	s.stream(w, r, prompt, llm.TierStandard, "Failed to analyze job description")
}

// handleGenerateResume streams generated resume content as plain text
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateResumeRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if req.ExperienceLevel == "" {
		req.ExperienceLevel = types.DefaultExperienceLevel
	}

	current, err := json.Marshal(req.CurrentResume)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid currentResume")
		return
	}
	prompt, err := prompts.Render(prompts.AIFile, prompts.GenerateResume, map[string]string{
		"ExperienceLevel": req.ExperienceLevel,
		"SelectedSkills":  strings.Join(req.SelectedSkills, ", "),
		"CurrentResume":   string(current),
		"JobDescription":  req.JobDescription,
	})
	if err != nil {
		s.logger.Error("failed to render prompt", zap.String("prompt", prompts.GenerateResume), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate resume")
		return
	}

	s.stream(w, r, prompt, llm.TierAdvanced, "Failed to generate resume")
}

// stream writes model output as it arrives, flushing after each chunk. A
// failure before the first byte becomes a 502 JSON error; after that the
// response is aborted so the client sees a truncated body.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, prompt string, tier llm.ModelTier, failMsg string) {
	if s.deps.LLM == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "AI service is not configured")
		return
	}

	rc := http.NewResponseController(w)
	started := false
	err := s.deps.LLM.StreamContent(r.Context(), prompt, tier, func(chunk string) error {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := w.Write([]byte(chunk)); err != nil {
			return err
		}
		return rc.Flush()
	})
	if err == nil {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
		}
		return
	}

	s.logger.Warn("model stream failed",
		zap.String("path", r.URL.Path),
		zap.Bool("started", started),
		zap.Error(err))
	if !started {
		s.errorResponse(w, http.StatusBadGateway, failMsg)
		return
	}
	panic(http.ErrAbortHandler)
}
