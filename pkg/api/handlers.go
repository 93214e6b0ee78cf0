package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/njorddb/pkg/catalog"
)

// handleHealth godoc
// @Summary Health check
// @Description Get the health status of the NjordDB server
// @Tags health
// @Produce json
// @Success 200 {object} APIResponse{data=map[string]string}
// @Security ApiKeyAuth
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handlePutEntity godoc
// @Summary Register an entity
// @Description Register an entity at a point inside the world bound
// @Tags entities
// @Accept json
// @Produce json
// @Param entity body PutEntityRequest true "Entity"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Security ApiKeyAuth
// @Router /entities [post]
func (s *Server) handlePutEntity(w http.ResponseWriter, r *http.Request) {
	var req PutEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	start := time.Now()
	e, err := s.catalog.Put(req.X, req.Y, []byte(req.Data))
	s.metrics.RecordIndexOperation("put", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to register entity: %v", err), http.StatusBadRequest)
		return
	}

	sendSuccess(w, e)
}

// handleGetEntity returns a single entity by id.
func (s *Server) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid entity id", http.StatusBadRequest)
		return
	}

	e, err := s.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			sendError(w, "Entity not found", http.StatusNotFound)
		} else {
			sendError(w, fmt.Sprintf("Failed to get entity: %v", err), http.StatusInternalServerError)
		}
		return
	}

	sendSuccess(w, e)
}

// handleDeleteEntity removes an entity by id.
func (s *Server) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid entity id", http.StatusBadRequest)
		return
	}

	start := time.Now()
	err = s.catalog.Remove(id)
	s.metrics.RecordIndexOperation("remove", err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			sendError(w, "Entity not found", http.StatusNotFound)
		} else {
			sendError(w, fmt.Sprintf("Failed to remove entity: %v", err), http.StatusInternalServerError)
		}
		return
	}

	sendSuccess(w, map[string]string{"message": "Entity removed successfully"})
}

// handleMoveEntity relocates an entity.
func (s *Server) handleMoveEntity(w http.ResponseWriter, r *http.Request) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid entity id", http.StatusBadRequest)
		return
	}

	var req MoveEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	start := time.Now()
	e, err := s.catalog.Move(id, req.X, req.Y)
	s.metrics.RecordIndexOperation("move", err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			sendError(w, "Entity not found", http.StatusNotFound)
		} else {
			sendError(w, fmt.Sprintf("Failed to move entity: %v", err), http.StatusBadRequest)
		}
		return
	}

	sendSuccess(w, e)
}

// handleSearch godoc
// @Summary Area search
// @Description Find entities inside the rectangle [x, x+w] x [y, y+h]
// @Tags entities
// @Produce json
// @Param x query number true "Origin x"
// @Param y query number true "Origin y"
// @Param w query number true "Width"
// @Param h query number true "Height"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Security ApiKeyAuth
// @Router /search [get]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := make(map[string]float64, 4)
	for _, name := range []string{"x", "y", "w", "h"} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			sendError(w, fmt.Sprintf("Missing query parameter %q", name), http.StatusBadRequest)
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			sendError(w, fmt.Sprintf("Invalid query parameter %q", name), http.StatusBadRequest)
			return
		}
		params[name] = v
	}

	start := time.Now()
	found := s.catalog.FindInArea(params["x"], params["y"], params["w"], params["h"])
	s.metrics.RecordIndexOperation("search", true, time.Since(start))

	if found == nil {
		found = []*catalog.Entity{}
	}
	sendSuccess(w, map[string]interface{}{
		"count":    len(found),
		"entities": found,
	})
}

// handleClear drops every entity, keeping the world bound.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := s.catalog.Clear()
	s.metrics.RecordIndexOperation("clear", err == nil, time.Since(start))
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to clear catalog: %v", err), http.StatusInternalServerError)
		return
	}

	sendSuccess(w, map[string]string{"message": "Catalog cleared"})
}

// handleStats reports catalog and index shape.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.catalog.Stats()
	s.metrics.UpdateIndexStats(stats.Entities, stats.Index.Nodes, stats.Index.MaxDepth)
	sendSuccess(w, stats)
}
