package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/UtsavYadav1/CareerBERT/internal/page"
	"github.com/UtsavYadav1/CareerBERT/internal/report"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/metrics"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/sched"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/server/middleware"
	"github.com/UtsavYadav1/CareerBERT/internal/shared/server/respond"
	"github.com/UtsavYadav1/CareerBERT/internal/view"
	"github.com/UtsavYadav1/CareerBERT/internal/view/webview"
)

// settleWindow lets badge animations and chart timers finish after the last fetch.
const settleWindow = 2 * time.Second

const downloadControlID = "downloadReportBtn"

func registerRoutes(r *gin.Engine, s *Server) {
	r.GET("/results-page", s.resultsPage)
	r.GET("/results", s.resultsPage)
	r.GET("/charts/:canvas", s.chartPage)
	r.POST("/download-report", s.downloadReport)
	r.GET("/history", s.listHistory)
	r.GET("/metrics", metrics.Handler())
	r.GET("/health", func(c *gin.Context) {
		st := s.deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !st.OK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, st)
	})
}

func (s *Server) resultsPage(c *gin.Context) {
	clock := sched.NewManualClock(time.Now())
	sess := page.NewSession(c.Request.URL.Path, clock, nil)
	defer sess.Close()
	c.Set(middleware.SessionIDKey, sess.ID)

	store := page.NewStore()
	ctrl := page.NewResultsController(sess, s.deps.Results, s.charts, store)
	replay(c.Request.Context(), ctrl, clock)

	var buf bytes.Buffer
	err := webview.Render(&buf, webview.Data{
		Page:      store.Page(),
		Downloads: []view.Control{*report.NewControl(downloadControlID)},
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "render_failed", "Could not render results page", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// replay runs the page's entry, load and retry steps on a manual clock so
// the response reflects the settled page.
func replay(ctx context.Context, ctrl *page.ResultsController, clock *sched.ManualClock) {
	ctrl.Enter(ctx)
	ctrl.Wait()
	ctrl.Loaded(ctx)
	ctrl.Wait()
	clock.Advance(page.RetryDelay)
	ctrl.Wait()
	clock.Advance(settleWindow)
}

func (s *Server) chartPage(c *gin.Context) {
	data, ok := s.surface.Get(c.Param("canvas"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "Chart has not been rendered", nil)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}

func (s *Server) downloadReport(c *gin.Context) {
	if s.deps.Reports == nil || s.deps.Store == nil {
		respond.Error(c, http.StatusServiceUnavailable, "unavailable", "Report download is not configured", nil)
		return
	}
	sess := page.NewSession(c.Request.URL.Path, nil, nil)
	defer sess.Close()
	c.Set(middleware.SessionIDKey, sess.ID)

	d := report.NewDownloader(sess.Sched, sess.Alerts, s.deps.Reports, s.deps.Store, sess.ID)
	d.Bind(report.NewControl(downloadControlID))
	saved, err := d.Trigger(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		respond.Error(c, http.StatusBadGateway, "report_failed", report.MsgFailed, nil)
		return
	}

	rc, err := s.deps.Store.Open(c.Request.Context(), saved.Key)
	if err != nil {
		_ = c.Error(err)
		respond.Error(c, http.StatusInternalServerError, "report_unreadable", report.MsgFailed, nil)
		return
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		_ = c.Error(err)
		respond.Error(c, http.StatusInternalServerError, "report_unreadable", report.MsgFailed, nil)
		return
	}
	c.Header("X-Report-Location", saved.Location)
	respond.Attachment(c, saved.Name, saved.ContentType, body)
}

func (s *Server) listHistory(c *gin.Context) {
	if s.deps.History == nil {
		respond.OK(c, gin.H{"entries": []any{}})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	entries, err := s.deps.History.ListRecent(c.Request.Context(), limit, offset)
	if err != nil {
		_ = c.Error(err)
		respond.Error(c, http.StatusInternalServerError, "history_failed", "Could not read history", nil)
		return
	}
	respond.OK(c, gin.H{"entries": entries})
}
