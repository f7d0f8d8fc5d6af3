package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/nullsec-systems/hotzone/internal/httputil"
	"github.com/nullsec-systems/hotzone/internal/logging"
	"github.com/nullsec-systems/hotzone/internal/models"
	"github.com/nullsec-systems/hotzone/internal/service"
	"github.com/nullsec-systems/hotzone/internal/universe"
)

// Handler serves the read-only query surface.
type Handler struct {
	query    *service.Query
	universe *universe.Map
	logger   *logging.Logger
}

// NewHandler creates a handler over the query service.
func NewHandler(query *service.Query, uni *universe.Map, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{query: query, universe: uni, logger: logger}
}

// HealthCheck handles GET /healthz
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// RecentKills handles GET /api/v1/kills/recent?system_id=&region_id=&limit=
func (h *Handler) RecentKills(w http.ResponseWriter, r *http.Request) {
	systemID := parseInt64Param(r, "system_id")
	regionID := parseInt64Param(r, "region_id")
	limit := int(parseInt64Param(r, "limit"))

	kills, err := h.query.RecentKills(r.Context(), systemID, regionID, limit)
	if err != nil {
		if errors.Is(err, service.ErrBadFilter) {
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "recent kills query failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "query failed")
		return
	}

	if kills == nil {
		kills = []*models.Kill{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"kills": kills})
}

// GetKill handles GET /api/v1/kills/:id
func (h *Handler) GetKill(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/kills/")
	killID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || killID <= 0 {
		httputil.WriteError(w, http.StatusBadRequest, "invalid kill ID")
		return
	}

	kill, err := h.query.Kill(r.Context(), killID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "kill lookup failed", "kill_id", killID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if kill == nil {
		httputil.WriteError(w, http.StatusNotFound, "kill not found")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, kill)
}

// Hotspots handles GET /api/v1/hotspots
func (h *Handler) Hotspots(w http.ResponseWriter, r *http.Request) {
	hotspots, err := h.query.ActiveHotspots(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "hotspot query failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "query failed")
		return
	}

	if hotspots == nil {
		hotspots = []*models.Hotspot{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"hotspots": hotspots})
}

// ItemDemand handles GET /api/v1/demand/:typeID
func (h *Handler) ItemDemand(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/demand/")
	typeID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || typeID <= 0 {
		httputil.WriteError(w, http.StatusBadRequest, "invalid item type ID")
		return
	}

	n, err := h.query.ItemDemand(r.Context(), typeID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "item demand query failed", "type_id", typeID, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "query failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]int64{"type_id": typeID, "destroyed": n})
}

// TopDestroyed handles GET /api/v1/demand/top?limit=
func (h *Handler) TopDestroyed(w http.ResponseWriter, r *http.Request) {
	limit := int(parseInt64Param(r, "limit"))

	top, err := h.query.TopDestroyed(r.Context(), limit)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "top destroyed query failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "query failed")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": top})
}

// Stats handles GET /api/v1/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.query.Stats(r.Context()))
}

// RefreshUniverse handles POST /api/v1/admin/universe/refresh
func (h *Handler) RefreshUniverse(w http.ResponseWriter, r *http.Request) {
	if err := h.universe.Refresh(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "universe refresh failed", "error", err)
		httputil.WriteError(w, http.StatusBadGateway, "reference map refresh failed")
		return
	}

	snap := h.universe.Current()
	h.logger.InfoContext(r.Context(), "universe refreshed", "systems", snap.Len())
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"systems":   snap.Len(),
		"loaded_at": snap.LoadedAt(),
	})
}

func parseInt64Param(r *http.Request, name string) int64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
