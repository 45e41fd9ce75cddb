package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/nodevis/pkg/cache"
	"github.com/matzehuels/nodevis/pkg/errors"
	"github.com/matzehuels/nodevis/pkg/force"
	"github.com/matzehuels/nodevis/pkg/hierarchy"
	"github.com/matzehuels/nodevis/pkg/layout"
	"github.com/matzehuels/nodevis/pkg/manager"
	"github.com/matzehuels/nodevis/pkg/store"
)

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.opts.Store == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "no layout store configured"))
		return false
	}
	return true
}

func (s *Server) listLayouts(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	infos, err := s.opts.Store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	l, err := s.opts.Store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) putLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var l layout.Layout
	if err := decodeBody(r, w, &l); err != nil {
		s.writeError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.opts.Store.Save(r.Context(), id, &l); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) deleteLayout(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.opts.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyRequest is the body of POST /api/apply. Layout takes precedence
// over LayoutID; with neither the default template is used.
type ApplyRequest struct {
	hierarchy.Document
	Layout   *layout.Layout `json:"layout,omitempty"`
	LayoutID string         `json:"layout_id,omitempty"`
	Viewport *layout.Size   `json:"viewport,omitempty"`
	Simulate bool           `json:"simulate,omitempty"`
}

func (s *Server) apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := decodeBody(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), applyTimeout)
	defer cancel()

	res, err := s.applyRequest(ctx, &req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(res)
}

func (s *Server) applyRequest(ctx context.Context, req *ApplyRequest) ([]byte, error) {
	size := s.opts.Viewport
	if req.Viewport != nil {
		size = *req.Viewport
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "viewport must be positive")
	}

	doc := req.Layout
	if doc == nil && req.LayoutID != "" {
		if s.opts.Store == nil {
			return nil, errors.New(errors.ErrCodeUnsupported, "no layout store configured")
		}
		var err error
		if doc, err = s.opts.Store.Load(ctx, req.LayoutID); err != nil {
			return nil, err
		}
	}

	key, err := s.applyKey(req.Document, doc, size, req.Simulate)
	if err != nil {
		return nil, err
	}
	if data, ok, err := s.opts.Cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}

	tree, err := req.Build()
	if err != nil {
		return nil, err
	}
	simOpts := s.opts.Simulation
	simOpts.Viewport = size
	simOpts.Logger = s.logger
	mopts := s.opts.Manager
	mopts.Simulation = force.NewSimulation(simOpts)
	mopts.Persister = nil
	mopts.Logger = s.logger

	res, err := manager.ApplyOnce(ctx, tree, doc, size, mopts, req.Simulate)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "apply layout")
	}
	data, err := json.Marshal(res)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode result")
	}
	if err := s.opts.Cache.Set(ctx, key, data, applyTTL); err != nil {
		s.logger.Debug("cache apply result", "err", err)
	}
	return data, nil
}

func (s *Server) applyKey(doc hierarchy.Document, l *layout.Layout, size layout.Size, simulate bool) (string, error) {
	hdata, err := json.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "encode hierarchy")
	}
	var lhash string
	if l != nil {
		ldata, err := layout.Marshal(l)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidLayout, err, "encode layout")
		}
		lhash = cache.Hash(ldata)
	}
	return s.keyer.ApplyKey(cache.Hash(hdata), cache.ApplyKeyOpts{
		LayoutHash: lhash,
		Width:      size.Width,
		Height:     size.Height,
		Simulate:   simulate,
	}), nil
}
