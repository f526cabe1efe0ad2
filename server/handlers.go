package server

import (
	"context"
	"errors"
	"html/template"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ai_tutorial_generator/publisher"
)

const msgOutputMissing = "Output file not found. Please try generating the tutorial again."

// Stage is one step of the progress readout shown while a run is pending.
type Stage struct {
	Percent int
	Label   string
}

// ProgressStages are cosmetic; the run itself reports no progress.
var ProgressStages = []Stage{
	{10, "Processing and validating input..."},
	{25, "Initializing AI agents..."},
	{40, "Research agent: gathering information and key concepts..."},
	{65, "Writer agent: creating tutorial content..."},
	{85, "Reviewer agent: checking quality and clarity..."},
	{95, "Finalizing tutorial and saving output..."},
	{100, "Tutorial generation completed!"},
}

type pageData struct {
	RawTopic     string
	Topic        string
	Error        string
	Generated    bool
	Title        string
	HTML         template.HTML
	Markdown     string
	Stats        publisher.Stats
	DownloadName string
	Stages       []Stage
}

func (s *Server) handleIndex(c echo.Context) error {
	id := sessionID(c)
	st := s.sessions.get(id)
	data := pageData{
		RawTopic: st.RawTopic,
		Topic:    st.Topic,
		Error:    st.Error,
		Stages:   ProgressStages,
	}

	if st.Generated {
		md, err := s.publisher.Read()
		switch {
		case errors.Is(err, publisher.ErrNotGenerated):
			data.Error = msgOutputMissing
		case err != nil:
			return err
		default:
			html, err := publisher.RenderHTML(md)
			if err != nil {
				return err
			}
			data.Generated = true
			data.Title = st.Title
			data.HTML = template.HTML(html) // sanitized by RenderHTML
			data.Markdown = md
			data.Stats = publisher.ComputeStats(md)
			data.DownloadName = publisher.DownloadName(st.Topic)
		}
	}
	return c.Render(http.StatusOK, "index.html", data)
}

type topicRequest struct {
	Topic string `json:"topic" form:"topic"`
}

type topicResponse struct {
	Raw     string `json:"raw"`
	Topic   string `json:"topic"`
	Changed bool   `json:"changed"`
}

func (s *Server) handleTopicPreview(c echo.Context) error {
	var req topicRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	topic := s.normalizer.Normalize(c.Request().Context(), req.Topic)
	return c.JSON(http.StatusOK, topicResponse{
		Raw:     req.Topic,
		Topic:   topic,
		Changed: topic != req.Topic,
	})
}

func (s *Server) handleGenerate(c echo.Context) error {
	id := sessionID(c)
	raw := c.FormValue("topic")

	busy := false
	s.sessions.update(id, func(st *sessionState) {
		if st.Running {
			busy = true
			return
		}
		st.Running = true
		st.RawTopic = raw
		st.Error = ""
	})
	if busy {
		s.sessions.update(id, func(st *sessionState) {
			st.Error = "A tutorial is already being generated. Please wait for it to finish."
		})
		return c.Redirect(http.StatusSeeOther, "/")
	}

	ctx := c.Request().Context()
	topic := s.normalizer.Normalize(ctx, raw)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Info("generating tutorial", zap.String("session", id), zap.String("topic", topic))
	res, err := s.runner.Run(ctx, topic)
	s.sessions.update(id, func(st *sessionState) {
		st.Running = false
		st.Topic = topic
		if err != nil {
			st.Generated = false
			st.Error = "Error generating tutorial: " + err.Error()
			return
		}
		st.Generated = true
		st.Title = res.Draft.Title
		st.Stats = publisher.ComputeStats(res.Draft.Markdown)
	})
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleDownload(c echo.Context) error {
	st := s.sessions.get(sessionID(c))
	if !st.Generated {
		return echo.NewHTTPError(http.StatusNotFound, "no tutorial generated in this session")
	}
	md, err := s.publisher.Read()
	if errors.Is(err, publisher.ErrNotGenerated) {
		return echo.NewHTTPError(http.StatusNotFound, msgOutputMissing)
	}
	if err != nil {
		return err
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": publisher.DownloadName(st.Topic),
	})
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

func (s *Server) handleReset(c echo.Context) error {
	id := sessionID(c)
	if s.sessions.get(id).Running {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	s.sessions.delete(id)
	return c.Redirect(http.StatusSeeOther, "/")
}
