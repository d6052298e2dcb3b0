package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/homestarrealty/buyerhunter/internal/export"
	"github.com/homestarrealty/buyerhunter/internal/leads"
)

// ExtractRequest is the body of POST /api/v1/extract.
type ExtractRequest struct {
	Text string `json:"text"`
	HTML bool   `json:"html"`
}

// ExtractResponse is returned by POST /api/v1/extract.
type ExtractResponse struct {
	Phones []string `json:"phones"`
	Names  []string `json:"names"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type pageData struct {
	Text        string
	HTML        bool
	Error       string
	Submitted   bool
	Result      leads.Result
	PhonesTitle string
	Version     string
	Msgs        map[string]string
}

func (s *Server) page(text string, html bool) pageData {
	return pageData{
		Text:    text,
		HTML:    html,
		Version: s.version,
		Msgs: map[string]string{
			"NoPhones":   export.MsgNoPhones,
			"NoNames":    export.MsgNoNames,
			"NamesFound": export.MsgNamesFound,
		},
	}
}

// extract prepares and validates text; ok is false for empty input.
func (s *Server) extract(raw string, html bool) (leads.Result, bool) {
	if strings.TrimSpace(raw) == "" {
		return leads.Result{}, false
	}
	text := s.prepare(raw, html)
	if strings.TrimSpace(text) == "" {
		return leads.Result{}, false
	}
	return s.ex.Extract(text), true
}

func (s *Server) handleIndex(c echo.Context) error {
	return s.render(c, http.StatusOK, "index.html", s.page("", false))
}

func (s *Server) handleExtract(c echo.Context) error {
	raw := c.FormValue("text")
	html := c.FormValue("html") != ""
	data := s.page(raw, html)
	res, ok := s.extract(raw, html)
	if !ok {
		data.Error = "Please paste some text above!"
		return s.render(c, http.StatusUnprocessableEntity, "index.html", data)
	}
	data.Submitted = true
	data.Result = res
	data.PhonesTitle = export.FoundPhones(len(res.Phones))
	s.log.Debug().Int("phones", len(res.Phones)).Int("names", len(res.Names)).Msg("extracted from form")
	return s.render(c, http.StatusOK, "index.html", data)
}

func (s *Server) handleDownloadCSV(c echo.Context) error {
	raw := c.FormValue("text")
	res, ok := s.extract(raw, c.FormValue("html") != "")
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, res.Phones); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.CSVFileName+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) handleAPIExtract(c echo.Context) error {
	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		s.log.Warn().Err(err).Msg("invalid extract request")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	res, ok := s.extract(req.Text, req.HTML)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}
	return c.JSON(http.StatusOK, ExtractResponse{Phones: res.Phones, Names: res.Names})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}
