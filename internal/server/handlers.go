package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mesh-intelligence/tierboard/internal/document"
	"github.com/mesh-intelligence/tierboard/internal/ingest"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

type tierRequest struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

type moveTierRequest struct {
	Index *int `json:"index"`
}

type itemRequest struct {
	Text  string `json:"text"`
	Image string `json:"img"`
}

type moveItemRequest struct {
	Target string `json:"target"`
}

type failureResponse struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type importResponse struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Items     []types.Item      `json:"items"`
	Failures  []failureResponse `json:"failures,omitempty"`
}

func (s *Server) healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// writeBoard responds with the current board and its revision tag. The
// revision is read before the snapshot, so a racing change can only make the
// tag older than the body and a client's next conditional read refetches.
func (s *Server) writeBoard(c echo.Context, code int) error {
	etag := s.revs.ETag()
	b := s.svc.Snapshot()
	c.Response().Header().Set(headerETag, etag)
	return c.JSON(code, b)
}

func (s *Server) getBoard(c echo.Context) error {
	if match := c.Request().Header.Get(headerIfNoneMatch); match != "" && match == s.revs.ETag() {
		return c.NoContent(http.StatusNotModified)
	}
	return s.writeBoard(c, http.StatusOK)
}

func (s *Server) putBoard(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxDocumentBody))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	b, err := document.Decode(data)
	if err != nil {
		return httpError(err)
	}
	if err := s.svc.Replace(c.Request().Context(), b); err != nil {
		return httpError(err)
	}
	return s.writeBoard(c, http.StatusOK)
}

func (s *Server) exportBoard(c echo.Context) error {
	data, err := document.Encode(s.svc.Snapshot())
	if err != nil {
		return httpError(err)
	}
	name := document.Filename(time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (s *Server) reset(c echo.Context) error {
	if err := s.svc.Reset(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return s.writeBoard(c, http.StatusOK)
}

func (s *Server) addTier(c echo.Context) error {
	var req tierRequest
	if err := decode(c, maxRequestBody, &req); err != nil {
		return err
	}
	t, err := s.svc.AddTier(c.Request().Context(), req.Label, req.Color)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) updateTier(c echo.Context) error {
	var req tierRequest
	if err := decode(c, maxRequestBody, &req); err != nil {
		return err
	}
	if err := s.svc.UpdateTier(c.Request().Context(), c.Param("id"), req.Label, req.Color); err != nil {
		return httpError(err)
	}
	return s.writeBoard(c, http.StatusOK)
}

func (s *Server) deleteTier(c echo.Context) error {
	id := c.Param("id")
	if s.svc.Snapshot().Tier(id) == nil {
		return httpError(fmt.Errorf("tier %q: %w", id, types.ErrNotFound))
	}
	if err := s.svc.DeleteTier(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return s.writeBoard(c, http.StatusOK)
}

func (s *Server) clearTier(c echo.Context) error {
	if err := s.svc.ClearTier(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return s.writeBoard(c, http.StatusOK)
}

func (s *Server) moveTier(c echo.Context) error {
	var req moveTierRequest
	if err := decode(c, maxRequestBody, &req); err != nil {
		return err
	}
	if req.Index == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "index is required")
	}
	id := c.Param("id")
	if s.svc.Snapshot().Tier(id) == nil {
		return httpError(fmt.Errorf("tier %q: %w", id, types.ErrNotFound))
	}
	if err := s.svc.MoveTier(c.Request().Context(), id, *req.Index); err != nil {
		return httpError(err)
	}
	return s.writeBoard(c, http.StatusOK)
}

func (s *Server) createItem(c echo.Context) error {
	var req itemRequest
	if err := decode(c, maxDocumentBody, &req); err != nil {
		return err
	}
	it, err := s.svc.CreateItem(c.Request().Context(), req.Text, req.Image)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, it)
}

func (s *Server) deleteItem(c echo.Context) error {
	id := c.Param("id")
	if _, err := s.svc.Snapshot().Item(id); err != nil {
		return httpError(fmt.Errorf("item %q: %w", id, err))
	}
	if err := s.svc.DeleteItem(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return s.writeBoard(c, http.StatusOK)
}

func (s *Server) moveItem(c echo.Context) error {
	var req moveItemRequest
	if err := decode(c, maxRequestBody, &req); err != nil {
		return err
	}
	// An unknown target lands the item in the pool.
	id := c.Param("id")
	if _, err := s.svc.Snapshot().Item(id); err != nil {
		return httpError(fmt.Errorf("item %q: %w", id, err))
	}
	if err := s.svc.MoveItem(c.Request().Context(), id, req.Target); err != nil {
		return httpError(err)
	}
	return s.writeBoard(c, http.StatusOK)
}

func (s *Server) clearPool(c echo.Context) error {
	if err := s.svc.ClearPool(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return s.writeBoard(c, http.StatusOK)
}

// uploadImages imports the multipart "files" field as one batch.
func (s *Server) uploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "expected multipart form")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no files")
	}
	files := make([]ingest.File, len(headers))
	for i, fh := range headers {
		files[i] = ingest.FromMultipart(fh)
	}

	p := ingest.NewPipeline(s.svc, ingest.WithMaxBytes(s.maxBytes), ingest.WithLogger(s.log))
	res, err := p.Import(c.Request().Context(), files)
	if err != nil {
		return httpError(err)
	}

	resp := importResponse{Succeeded: res.Succeeded, Failed: res.Failed, Items: res.Items}
	if resp.Items == nil {
		resp.Items = []types.Item{}
	}
	for _, f := range res.Failures {
		resp.Failures = append(resp.Failures, failureResponse{Name: f.Name, Error: f.Err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}
