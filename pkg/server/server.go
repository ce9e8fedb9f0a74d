package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/bastiangx/decimaserve/internal/logger"
	"github.com/bastiangx/decimaserve/internal/utils"
	"github.com/bastiangx/decimaserve/pkg/decima"
	"github.com/bastiangx/decimaserve/pkg/lexicon"
	"github.com/bastiangx/decimaserve/pkg/scheme"
	"github.com/bastiangx/decimaserve/pkg/store"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// MaxLimit caps the number of rhymes a single request may ask for.
const MaxLimit = 64

const (
	codeBadRequest  = 400
	codeNotFound    = 404
	codeUnprocessed = 422
	codeInternal    = 500
	codeUnavailable = 503
)

// requestError carries a response code up to the dispatcher.
type requestError struct {
	code int
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{code: codeBadRequest, msg: fmt.Sprintf(format, args...)}
}

// Server handles the IPC for décima analysis
type Server struct {
	engine   *decima.Engine
	store    store.Store
	logger   *log.Logger
	requests atomic.Int64
	errors   atomic.Int64
}

// NewServer creates a server around engine. st may be nil, in which case
// store actions answer 503.
func NewServer(engine *decima.Engine, st store.Store) *Server {
	return &Server{
		engine: engine,
		store:  st,
		logger: logger.New("server"),
	}
}

// Start serves stdin/stdout until stdin is closed.
func (s *Server) Start() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads msgpack requests from r and writes responses to w until r is
// exhausted. A request that decodes but is invalid gets an error response;
// a broken stream ends Serve with its error.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	s.logger.Debug("Starting Server.")

	dec := msgpack.NewDecoder(bufio.NewReader(r))
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)

	send := func(v any) error {
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		return bw.Flush()
	}

	if err := send(map[string]string{"status": "ready"}); err != nil {
		return err
	}

	for {
		raw, err := dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed, stopping server")
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return err
		}

		if err := send(s.handle(raw)); err != nil {
			s.logger.Errorf("Writing response: %v", err)
			return err
		}
	}
}

// handle decodes and dispatches a single message.
func (s *Server) handle(raw msgpack.RawMessage) any {
	s.requests.Add(1)

	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Debugf("Unmarshaling request: %v", err)
		return s.errorResponse("", badRequest("invalid msgpack request"))
	}

	resp, err := s.dispatch(req)
	if err != nil {
		return s.errorResponse(req.ID, err)
	}
	return resp
}

func (s *Server) dispatch(req Request) (any, error) {
	switch req.Action {
	case ActionAnalyze:
		return s.handleAnalyze(req)
	case ActionCount:
		return s.handleCount(req), nil
	case ActionRhymes:
		return s.handleRhymes(req)
	case ActionLastWord:
		return s.handleLastWord(req)
	case ActionClassify:
		return ClassifyResponse{ID: req.ID, Ending: lexicon.Classify(req.Word)}, nil
	case ActionApply:
		return ApplyResponse{ID: req.ID, Verse: decima.ApplySuggestion(req.Text, req.Word)}, nil
	case ActionHealth:
		return StatusResponse{ID: req.ID, Status: "ok"}, nil
	case ActionStats:
		return StatusResponse{
			ID:       req.ID,
			Status:   "ok",
			Requests: s.requests.Load(),
			Errors:   s.errors.Load(),
			Cache:    s.engine.CountStats(),
		}, nil
	case ActionStoreList, ActionStoreGet, ActionStoreCreate, ActionStoreUpdate, ActionStoreDelete:
		return s.handleStore(req)
	case "":
		return nil, badRequest("missing 'action'")
	default:
		return nil, badRequest("unknown action: %s", req.Action)
	}
}

// engineFor returns the engine for the request scheme, if any.
func (s *Server) engineFor(req Request) (*decima.Engine, error) {
	if req.Scheme == "" {
		return s.engine, nil
	}
	form := s.engine.Form()
	sc, err := scheme.Parse(req.Scheme, form.Slots)
	if err != nil {
		return nil, badRequest("invalid scheme: %v", err)
	}
	form.Scheme = sc
	return s.engine.WithForm(form), nil
}

func (s *Server) handleAnalyze(req Request) (any, error) {
	engine, err := s.engineFor(req)
	if err != nil {
		return nil, err
	}

	active := -1
	if req.Active != nil {
		active = *req.Active
	}

	start := time.Now()
	a := engine.Analyze(req.Verses, active)
	elapsed := time.Since(start)

	resp := AnalyzeResponse{
		ID:        req.ID,
		Lines:     make([]LineResult, len(a.Lines)),
		Groups:    make(map[string][]string, len(a.Groups)),
		Active:    a.Active,
		LastWord:  a.LastWord,
		Links:     make([]LinkResult, len(a.Links)),
		Exact:     a.Exact,
		Complete:  a.Complete(),
		TimeTaken: elapsed.Microseconds(),
	}
	for i, line := range a.Lines {
		resp.Lines[i] = LineResult{
			Index:     line.Index,
			Letter:    string(line.Letter),
			Syllables: line.Syllables,
			Status:    line.Status.String(),
			Reference: line.Reference,
			Rhymes:    line.Rhymes,
		}
	}
	for letter, words := range a.Groups {
		resp.Groups[string(letter)] = words
	}
	for i, link := range a.Links {
		resp.Links[i] = LinkResult{Group: string(link.Group), From: link.From, To: link.To, Active: link.Active}
	}
	s.logger.Debugf("analyze %s: %d exact, %d groups in %v", req.ID, a.Exact, len(a.Groups), elapsed)
	return resp, nil
}

func (s *Server) handleCount(req Request) CountResponse {
	if len(req.Verses) == 0 {
		return CountResponse{ID: req.ID, Counts: []int{s.engine.Count(req.Text)}}
	}
	counts := make([]int, len(req.Verses))
	for i, v := range req.Verses {
		counts[i] = s.engine.Count(v)
	}
	return CountResponse{ID: req.ID, Counts: counts}
}

func (s *Server) handleRhymes(req Request) (any, error) {
	if req.Word == "" {
		return nil, badRequest("missing 'w' parameter")
	}
	limit := req.Limit
	switch {
	case limit < 0:
		return nil, badRequest("limit must not be negative")
	case limit == 0:
		limit = s.engine.Suggester().Options().GroupLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	start := time.Now()
	words := s.engine.Suggester().FindRhymingWords(req.Word, limit)
	resp := suggestionResponse(req.ID, words, time.Since(start))
	resp.Ending = lexicon.Classify(req.Word)
	return resp, nil
}

func (s *Server) handleLastWord(req Request) (any, error) {
	if req.Active == nil {
		return nil, badRequest("missing 'a' parameter")
	}
	engine, err := s.engineFor(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	verses := engine.Form().Fit(req.Verses)
	words := engine.Suggester().LastWordSuggestions(verses, engine.Form().Scheme, *req.Active)
	return suggestionResponse(req.ID, words, time.Since(start)), nil
}

func suggestionResponse(id string, words []string, elapsed time.Duration) SuggestionResponse {
	ranks := utils.CreateRankList(len(words))
	suggestions := make([]Suggestion, len(words))
	for i, w := range words {
		suggestions[i] = Suggestion{Word: w, Rank: ranks[i]}
	}
	return SuggestionResponse{
		ID:          id,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}
}

func (s *Server) handleStore(req Request) (any, error) {
	if s.store == nil {
		return nil, &requestError{code: codeUnavailable, msg: "store is not configured"}
	}

	switch req.Action {
	case ActionStoreList:
		all, err := s.store.List()
		if err != nil {
			return nil, err
		}
		results := make([]CompositionResult, len(all))
		for i, c := range all {
			results[i] = toResult(c)
		}
		return StoreResponse{ID: req.ID, Status: "ok", Compositions: results, Count: len(results)}, nil

	case ActionStoreCreate:
		c, err := s.store.Create(req.Title, req.Verses, req.Description)
		if err != nil {
			return nil, err
		}
		s.logger.Debugf("Created composition %s", c.ID)
		return storeResponse(req.ID, c), nil
	}

	if req.CompositionID == "" {
		return nil, badRequest("missing 'cid' parameter")
	}

	switch req.Action {
	case ActionStoreGet:
		c, err := s.store.Get(req.CompositionID)
		if err != nil {
			return nil, err
		}
		return storeResponse(req.ID, c), nil
	case ActionStoreUpdate:
		c, err := s.store.Update(req.CompositionID, req.Title, req.Verses, req.Description)
		if err != nil {
			return nil, err
		}
		return storeResponse(req.ID, c), nil
	default:
		if err := s.store.Delete(req.CompositionID); err != nil {
			return nil, err
		}
		return StoreResponse{ID: req.ID, Status: "ok"}, nil
	}
}

func storeResponse(id string, c store.Composition) StoreResponse {
	r := toResult(c)
	return StoreResponse{ID: id, Status: "ok", Composition: &r, Count: 1}
}

func toResult(c store.Composition) CompositionResult {
	return CompositionResult{
		ID:          c.ID,
		Title:       c.Title,
		Verses:      c.Verses,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.UnixMilli(),
		UpdatedAt:   c.UpdatedAt.UnixMilli(),
	}
}

// errorResponse maps err to a response code and counts it.
func (s *Server) errorResponse(id string, err error) ErrorResponse {
	s.errors.Add(1)

	code := codeInternal
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		code = reqErr.code
	case errors.Is(err, store.ErrNotFound):
		code = codeNotFound
	case errors.Is(err, store.ErrEmptyComposition):
		code = codeUnprocessed
	}

	if code == codeInternal {
		s.logger.Errorf("Request %s failed: %v", id, err)
	} else {
		s.logger.Debugf("Request %s rejected: %v", id, err)
	}
	return ErrorResponse{ID: id, Error: err.Error(), Code: code}
}
