// Package server exposes stored runs over HTTP.
//
//	GET /runs               metadata of every run
//	GET /runs/{id}          metadata of one run
//	GET /runs/{id}/rounds   per-round records
//	GET /runs/{id}/stream   websocket replay of the rounds, then a summary
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/storage"
)

const writeWait = 5 * time.Second

// Message is one websocket frame of a stream.
type Message struct {
	Type    string                 `json:"type"`
	Round   *collision.RoundResult `json:"round,omitempty"`
	Summary *storage.RunMetadata   `json:"summary,omitempty"`
}

const (
	MessageRound   = "round"
	MessageSummary = "summary"
)

type Server struct {
	store    *storage.Store
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func New(store *storage.Store, log logrus.FieldLogger) *Server {
	return &Server{
		store: store,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Route("/runs", func(router chi.Router) {
		router.Get("/", s.listRuns)
		router.Get("/{runID}", s.getRun)
		router.Get("/{runID}/rounds", s.getRounds)
		router.Get("/{runID}/stream", s.streamRun)
	})
	return router
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Infof("serving runs from %s on %s", s.store.BaseDir(), addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.List()
	if err != nil {
		s.handleErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	meta, err := s.store.Load(chi.URLParam(r, "runID"))
	if err != nil {
		s.handleErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, meta)
}

func (s *Server) getRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := s.store.LoadRounds(chi.URLParam(r, "runID"))
	if err != nil {
		s.handleErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rounds)
}

func (s *Server) streamRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	data, err := s.store.Export(runID)
	if err != nil {
		s.handleErr(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnf("upgrade %s: %v", runID, err)
		return
	}
	defer conn.Close()

	for i := range data.Rounds {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(Message{Type: MessageRound, Round: &data.Rounds[i]}); err != nil {
			s.log.Warnf("stream %s: %v", runID, err)
			return
		}
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(Message{Type: MessageSummary, Summary: data.Metadata}); err != nil {
		s.log.Warnf("stream %s: %v", runID, err)
		return
	}

	conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	)
	s.log.Debugf("streamed %d rounds of %s", len(data.Rounds), runID)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleErr(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrRunNotFound) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{err.Error()})
		return
	}
	s.log.Errorf("%v", err)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	marshaled, err := json.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		s.log.Errorf("marshal response: %v", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(marshaled); err != nil {
		s.log.Debugf("write response: %v", err)
	}
}
