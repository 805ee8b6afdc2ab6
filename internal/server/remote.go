package server

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/internal/drag"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// hitRequest is what the client found under the pointer or finger. The
// server derives zones and tier indexes from its own board, so a client
// only names the element.
type hitRequest struct {
	Kind string `json:"kind"` // item, handle, label, content, pool or empty
	Item string `json:"item,omitempty"`
	Tier string `json:"tier,omitempty"`
}

// touchRequest is one contact point of a touch event with the element under
// it.
type touchRequest struct {
	ID  int        `json:"id"`
	X   int        `json:"x"`
	Y   int        `json:"y"`
	Hit hitRequest `json:"hit"`
}

// dragRequest carries either one pointer position (x, y, hit) or the touch
// lists of a touch event: touches for touchstart and touchmove,
// changedTouches for touchend. Input "touch" without lists is a single touch
// at x, y.
type dragRequest struct {
	X              int            `json:"x"`
	Y              int            `json:"y"`
	Input          string         `json:"input,omitempty"` // pointer or touch
	Hit            hitRequest     `json:"hit"`
	Touches        []touchRequest `json:"touches,omitempty"`
	ChangedTouches []touchRequest `json:"changedTouches,omitempty"`
}

// touchList returns the touches of list, or the single touch at x, y for a
// touch request that sent no list. Pointer requests have none.
func (req dragRequest) touchList(list []touchRequest) []drag.Touch {
	if len(list) == 0 {
		if req.Input != "touch" {
			return nil
		}
		return []drag.Touch{{X: req.X, Y: req.Y}}
	}
	out := make([]drag.Touch, len(list))
	for i, t := range list {
		out[i] = drag.Touch{ID: t.ID, X: t.X, Y: t.Y}
	}
	return out
}

type targetResponse struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
}

type ghostResponse struct {
	Visible bool   `json:"visible"`
	Kind    string `json:"kind,omitempty"`
	Payload string `json:"payload,omitempty"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

type dragStateResponse struct {
	Active    bool            `json:"active"`
	Kind      string          `json:"kind,omitempty"`
	Payload   string          `json:"payload,omitempty"`
	Source    string          `json:"source,omitempty"`
	Input     string          `json:"input,omitempty"`
	Candidate *targetResponse `json:"candidate,omitempty"`
	Ghost     ghostResponse   `json:"ghost"`
}

type dragStartResponse struct {
	Started bool              `json:"started"`
	State   dragStateResponse `json:"state"`
}

type dragEndResponse struct {
	Committed bool            `json:"committed"`
	Kind      string          `json:"kind,omitempty"`
	Payload   string          `json:"payload,omitempty"`
	Source    string          `json:"source,omitempty"`
	Target    *targetResponse `json:"target,omitempty"`
	Revision  uint64          `json:"revision"`
}

// ghost mirrors the floating clone a touch client draws under the finger.
type ghost struct {
	mu      sync.Mutex
	visible bool
	kind    drag.Kind
	payload string
	x, y    int
}

func (g *ghost) Show(kind drag.Kind, payloadID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.visible, g.kind, g.payload = true, kind, payloadID
}

func (g *ghost) Follow(x, y int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.x, g.y = x, y
}

func (g *ghost) Hide() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.visible, g.kind, g.payload = false, 0, ""
	g.x, g.y = 0, 0
}

func (g *ghost) snapshot() ghostResponse {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.visible {
		return ghostResponse{}
	}
	return ghostResponse{Visible: true, Kind: g.kind.String(), Payload: g.payload, X: g.x, Y: g.y}
}

type point struct{ x, y int }

// remoteDrag runs one drag session for remote clients. The locator answers
// from the points reported in the request being handled, so every session
// call happens under mu with those hits installed.
type remoteDrag struct {
	mu      sync.Mutex
	svc     *board.Service
	hits    map[point]drag.Hit
	session *drag.Session
	touch   *drag.TouchInput
	ghost   *ghost
}

func newRemoteDrag(svc *board.Service, l *log.Logger) *remoteDrag {
	r := &remoteDrag{svc: svc, ghost: &ghost{}}
	r.session = drag.NewSession(
		drag.LocatorFunc(func(x, y int) drag.Hit { return r.hits[point{x, y}] }),
		svc,
		drag.WithGhost(r.ghost),
		drag.WithLogger(l),
	)
	r.touch = drag.NewTouchInput(r.session)
	return r
}

// resolveHit turns a reported element into a hit on b. Elements that no
// longer exist resolve to nothing.
func resolveHit(b *types.Board, req hitRequest) (drag.Hit, bool) {
	switch req.Kind {
	case "", "none":
		return drag.Hit{}, true
	case "pool":
		return drag.Hit{Kind: drag.HitPool, Zone: types.PoolID, TierIndex: -1}, true
	case "item":
		container, _, err := b.Locate(req.Item)
		if err != nil {
			return drag.Hit{}, true
		}
		h := drag.Hit{Kind: drag.HitItem, ItemID: req.Item, Zone: container, TierIndex: -1}
		if container != types.PoolID {
			h.TierID, h.TierIndex = container, b.TierIndex(container)
		}
		return h, true
	case "handle", "label", "content":
		idx := b.TierIndex(req.Tier)
		if idx < 0 {
			return drag.Hit{}, true
		}
		h := drag.Hit{TierID: req.Tier, TierIndex: idx}
		switch req.Kind {
		case "handle":
			h.Kind = drag.HitTierHandle
		case "label":
			h.Kind = drag.HitTierLabel
		default:
			h.Kind, h.Zone = drag.HitTierContent, req.Tier
		}
		return h, true
	}
	return drag.Hit{}, false
}

func (r *remoteDrag) state() dragStateResponse {
	resp := dragStateResponse{Ghost: r.ghost.snapshot()}
	st, ok := r.session.State()
	if !ok {
		return resp
	}
	resp.Active = true
	resp.Kind = st.Kind.String()
	resp.Payload = st.PayloadID
	resp.Source = st.SourceID
	resp.Input = st.Input.String()
	if st.Candidate != nil {
		resp.Candidate = &targetResponse{ID: st.Candidate.ID, Index: st.Candidate.Index}
	}
	return resp
}

// install decodes the request and sets the hits the locator will report.
// The caller must hold r.mu.
func (r *remoteDrag) install(c echo.Context) (dragRequest, error) {
	var req dragRequest
	if err := decode(c, maxRequestBody, &req); err != nil {
		return req, err
	}
	b := r.svc.Snapshot()
	hits := make(map[point]drag.Hit, 1+len(req.Touches)+len(req.ChangedTouches))
	add := func(x, y int, hr hitRequest) error {
		h, ok := resolveHit(b, hr)
		if !ok {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown hit kind "+hr.Kind)
		}
		hits[point{x, y}] = h
		return nil
	}
	if err := add(req.X, req.Y, req.Hit); err != nil {
		return req, err
	}
	for _, list := range [][]touchRequest{req.Touches, req.ChangedTouches} {
		for _, t := range list {
			if err := add(t.X, t.Y, t.Hit); err != nil {
				return req, err
			}
		}
	}
	r.hits = hits
	return req, nil
}

func (s *Server) dragState(c echo.Context) error {
	r := s.remote
	r.mu.Lock()
	defer r.mu.Unlock()
	return c.JSON(http.StatusOK, r.state())
}

func (s *Server) dragStart(c echo.Context) error {
	r := s.remote
	r.mu.Lock()
	defer r.mu.Unlock()

	req, err := r.install(c)
	if err != nil {
		return err
	}
	var started bool
	if touches := req.touchList(req.Touches); touches != nil {
		started, err = r.touch.Start(touches)
	} else {
		started, err = r.session.Press(req.X, req.Y, drag.InputPointer)
	}
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dragStartResponse{Started: started, State: r.state()})
}

func (s *Server) dragMove(c echo.Context) error {
	r := s.remote
	r.mu.Lock()
	defer r.mu.Unlock()

	req, err := r.install(c)
	if err != nil {
		return err
	}
	if touches := req.touchList(req.Touches); touches != nil {
		r.touch.Move(touches)
	} else {
		r.session.Move(req.X, req.Y)
	}
	return c.JSON(http.StatusOK, r.state())
}

func (s *Server) dragEnd(c echo.Context) error {
	r := s.remote
	r.mu.Lock()
	defer r.mu.Unlock()

	req, err := r.install(c)
	if err != nil {
		return err
	}
	var out drag.Outcome
	if changed := req.touchList(req.ChangedTouches); changed != nil {
		out, err = r.touch.End(c.Request().Context(), changed)
	} else {
		out, err = r.session.End(c.Request().Context(), req.X, req.Y)
	}
	if err != nil {
		return httpError(err)
	}
	resp := dragEndResponse{Committed: out.Committed, Revision: s.revs.Current()}
	if out.Committed {
		resp.Kind = out.Kind.String()
		resp.Payload = out.PayloadID
		resp.Source = out.SourceID
		resp.Target = &targetResponse{ID: out.Target.ID, Index: out.Target.Index}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) dragCancel(c echo.Context) error {
	r := s.remote
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch.Cancel()
	r.session.Cancel()
	return c.NoContent(http.StatusNoContent)
}
