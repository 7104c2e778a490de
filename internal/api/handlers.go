package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gopnad/app"
	"gopnad/domain/core"
	"gopnad/domain/survey"
	"gopnad/domain/table"
	"gopnad/internal/errors"
	"gopnad/internal/export"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleYears lists the available editions, optionally for one kind and range.
func (s *Server) handleYears(c *gin.Context) {
	kinds, err := app.ParseKinds(c.Query("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	r, err := survey.ParseRange(c.Query("range"))
	if err != nil {
		respondError(c, errors.InvalidInput(err.Error()))
		return
	}

	out := make(map[string][]int, len(kinds))
	for _, kind := range kinds {
		years, err := s.loader.Years(c.Request.Context(), kind, r)
		if err != nil {
			respondError(c, err)
			return
		}
		if years == nil {
			years = []int{}
		}
		out[kind.String()] = years
	}
	c.JSON(http.StatusOK, out)
}

// handleFields serves the field dictionary as JSON, markdown or HTML.
func (s *Server) handleFields(c *gin.Context) {
	kind, err := survey.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	format := c.Query("format")
	if format == "" && strings.Contains(c.GetHeader("Accept"), "text/html") {
		format = "html"
	}

	switch format {
	case "", "json":
		infos, err := s.loader.Fields(kind)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, infos)
	case "md", "markdown", "html":
		doc, err := s.loader.FieldsMarkdown(kind)
		if err != nil {
			respondError(c, err)
			return
		}
		etag := core.NewHash([]byte(format + doc)).ETag()
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		if format == "html" {
			c.Data(http.StatusOK, "text/html; charset=utf-8", renderMarkdown(doc, kind.String()+" fields"))
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(doc))
	default:
		respondError(c, errors.InvalidInput(fmt.Sprintf("unknown format %q", format)))
	}
}

func renderMarkdown(doc, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(doc), p, renderer)
}

// handleTable loads one edition with the requested columns.
func (s *Server) handleTable(c *gin.Context) {
	kind, year, ok := editionParams(c)
	if !ok {
		return
	}
	tbl, err := s.loader.Load(c.Request.Context(), kind, year, app.ParseList(c.QueryArray("columns")...))
	if err != nil {
		respondError(c, err)
		return
	}
	s.writeTable(c, tbl, fmt.Sprintf("%s%d", kind.FilePrefix(), year))
}

// handlePanel stacks several editions of kind.
func (s *Server) handlePanel(c *gin.Context) {
	kind, err := survey.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	years, err := s.loader.ResolveYears(ctx, kind, c.Query("years"))
	if err != nil {
		respondError(c, err)
		return
	}
	tbl, err := s.loader.LoadPanel(ctx, kind, years, app.ParseList(c.QueryArray("columns")...))
	if err != nil {
		respondError(c, err)
		return
	}
	s.writeTable(c, tbl, kind.FilePrefix()+"-panel")
}

func (s *Server) writeTable(c *gin.Context, tbl *table.Table, name string) {
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			respondError(c, errors.InvalidInput(fmt.Sprintf("invalid limit %q", limit)))
			return
		}
		tbl = tbl.Head(n)
	}

	format := export.FormatJSON
	if f := c.Query("format"); f != "" {
		var err error
		if format, err = export.ParseFormat(f); err != nil {
			respondError(c, errors.InvalidInput(err.Error()))
			return
		}
	}

	contentType := map[export.Format]string{
		export.FormatJSON:  "application/json; charset=utf-8",
		export.FormatCSV:   "text/csv; charset=utf-8",
		export.FormatXLSX:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		export.FormatTable: "text/plain; charset=utf-8",
	}[format]

	var buf bytes.Buffer
	if err := export.Write(&buf, tbl, format); err != nil {
		respondError(c, err)
		return
	}
	if format == export.FormatCSV || format == export.FormatXLSX {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.%s", name, format))
	}
	c.Header("X-Total-Rows", strconv.Itoa(tbl.NumRows()))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// handleSummary describes the requested columns of one edition.
func (s *Server) handleSummary(c *gin.Context) {
	kind, year, ok := editionParams(c)
	if !ok {
		return
	}
	summaries, err := s.summary.Summarize(c.Request.Context(), kind, year,
		app.ParseList(c.QueryArray("columns")...), c.Query("weight"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"kind":    kind,
		"year":    year,
		"weight":  c.Query("weight"),
		"columns": summaries,
	})
}

// handleVariables lists the raw variables of one edition.
func (s *Server) handleVariables(c *gin.Context) {
	kind, year, ok := editionParams(c)
	if !ok {
		return
	}
	vars, err := s.loader.Variables(c.Request.Context(), kind, year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "year": year, "variables": vars})
}

func (s *Server) handleCacheDescribe(c *gin.Context) {
	filter, ok := cacheFilter(c)
	if !ok {
		return
	}
	entries, err := s.cache.Describe(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "columns": entries})
}

func (s *Server) handleCacheRemove(c *gin.Context) {
	filter, ok := cacheFilter(c)
	if !ok {
		return
	}
	removed, err := s.cache.Remove(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func editionParams(c *gin.Context) (survey.Kind, int, bool) {
	kind, err := survey.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return "", 0, false
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondError(c, errors.InvalidInput(fmt.Sprintf("invalid year %q", c.Param("year"))))
		return "", 0, false
	}
	return kind, year, true
}

func cacheFilter(c *gin.Context) (app.CacheFilter, bool) {
	kinds, err := app.ParseKinds(c.Query("kind"))
	if err != nil {
		respondError(c, err)
		return app.CacheFilter{}, false
	}
	filter := app.CacheFilter{Kinds: kinds, Fields: app.ParseList(c.QueryArray("fields")...)}
	for _, y := range app.ParseList(c.QueryArray("years")...) {
		year, err := strconv.Atoi(y)
		if err != nil {
			respondError(c, errors.InvalidInput(fmt.Sprintf("invalid year %q", y)))
			return app.CacheFilter{}, false
		}
		filter.Years = append(filter.Years, year)
	}
	return filter, true
}

// respondError maps domain and application errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	code := errors.Classify(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeInvalidInput, errors.CodeValidationError:
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}
