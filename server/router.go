package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notecraft/notecraft/engine/core"
	"github.com/notecraft/notecraft/engine/rule"
	"github.com/notecraft/notecraft/engine/table"
	"github.com/notecraft/notecraft/pkg/config"
	"github.com/notecraft/notecraft/pkg/keynorm"
)

// PreviewRequest is one record's raw fields plus the rule table to apply.
// Field keys may be raw header spellings; they are normalized before lookup.
type PreviewRequest struct {
	Record map[string]any `json:"record" binding:"required"`
	Rules  []rule.Rule    `json:"rules"  binding:"required"`
}

// PreviewResponse carries the rendered note; null means "no annotation".
type PreviewResponse struct {
	Note *string `json:"note"`
}

// LintRequest wraps a rule table for diagnostics.
type LintRequest struct {
	Rules []rule.Rule `json:"rules" binding:"required"`
}

// LintIssue is the wire form of one rule diagnostic.
type LintIssue struct {
	Rule    int    `json:"rule"`
	Message string `json:"message"`
}

type LintResponse struct {
	Issues []LintIssue `json:"issues"`
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api := r.Group("/api/v0")
	api.POST("/preview", previewHandler(cfg))
	api.POST("/rules/lint", lintHandler())
}

func previewHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondProblem(c, core.NewError(err, core.ErrCodeInvalidInput, nil))
			return
		}
		loc := cfg.Location()
		rec := make(core.Record, len(req.Record))
		for key, value := range req.Record {
			normalized := keynorm.Normalize(key)
			if normalized == "" {
				continue
			}
			cell := core.FromAny(value)
			// String fields go through the same boundary typing as CSV cells
			// so previews match batch behavior.
			if s, ok := value.(string); ok {
				cell = table.TypeCell(s, loc)
			}
			rec[normalized] = cell
		}
		note := rule.BuildNote(rec, req.Rules, &rule.Options{
			Location:  loc,
			Separator: cfg.Note.Separator,
		})
		resp := PreviewResponse{}
		if note != "" {
			resp.Note = &note
		}
		c.JSON(http.StatusOK, resp)
	}
}

func lintHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LintRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondProblem(c, core.NewError(err, core.ErrCodeInvalidInput, nil))
			return
		}
		issues := rule.Lint(req.Rules)
		resp := LintResponse{Issues: make([]LintIssue, 0, len(issues))}
		for _, issue := range issues {
			resp.Issues = append(resp.Issues, LintIssue{Rule: issue.Rule, Message: issue.Message})
		}
		c.JSON(http.StatusOK, resp)
	}
}

func respondProblem(c *gin.Context, err error) {
	problem := core.ProblemFromError(err)
	c.Header("Content-Type", "application/problem+json")
	c.JSON(problem.Status, core.BuildProblemBody(problem))
}
