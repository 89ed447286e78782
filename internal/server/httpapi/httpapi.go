// Package httpapi is the side-car HTTP surface: runtime settings for the
// dashboard, geolocation lookups, and the static web bundle.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/netip"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/arianpg/mikaboshi/internal/config"
	"github.com/arianpg/mikaboshi/internal/server/geoip"
)

// Handler holds the dependencies for the side-car routes.
type Handler struct {
	grpcPort    int
	peerTimeout time.Duration
	staticDir   string
	geo         *geoip.Resolver
	log         *zap.Logger
}

func New(cfg *config.Server, geo *geoip.Resolver, log *zap.Logger) (*Handler, error) {
	timeout, err := config.ParseTimeout(cfg.PeerTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid peer_timeout: %w", err)
	}
	return &Handler{
		grpcPort:    cfg.GRPCPort,
		peerTimeout: timeout,
		staticDir:   cfg.StaticDir,
		geo:         geo,
		log:         log,
	}, nil
}

// Router builds the side-car routes. Anything that is not an API path is
// served from the static web bundle.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/config", h.configHandler).Methods("GET")
	r.HandleFunc("/geoip/{ip}", h.geoipHandler).Methods("GET")
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(h.staticDir)))
	return r
}

type configResponse struct {
	GrpcPort     int   `json:"grpcPort"`
	PeerTimeout  int64 `json:"peerTimeout"`
	GeoipEnabled bool  `json:"geoipEnabled"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// configHandler tells the dashboard where the stream lives and how long to
// keep a silent peer on screen. The timeout goes over the wire in
// milliseconds.
func (h *Handler) configHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, configResponse{
		GrpcPort:     h.grpcPort,
		PeerTimeout:  h.peerTimeout.Milliseconds(),
		GeoipEnabled: h.geo.Enabled(),
	})
}

// geoipHandler resolves one address. Failed lookups still answer 200: the
// dashboard treats geolocation as best-effort decoration and keys off the
// error field instead of the status code.
func (h *Handler) geoipHandler(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["ip"]
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		h.writeJSON(w, errorResponse{Error: fmt.Sprintf("invalid address %q", raw)})
		return
	}
	loc, err := h.geo.Lookup(addr)
	if err != nil {
		h.writeJSON(w, errorResponse{Error: err.Error()})
		return
	}
	h.writeJSON(w, loc)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warn("failed to write response", zap.Error(err))
	}
}
