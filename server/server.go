// Package server exposes resolved resource collections and import maps
// over HTTP.
//
// Responses carry a strong ETag derived from the payload fingerprint,
// so clients (and any cache honoring the configured Cache-Control) can
// revalidate cheaply with If-None-Match. Collection endpoints accept an
// optional "preload" query parameter naming a preload group; when it is
// present, matching preload hints are attached as Link headers.
package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/tweag/assetmap/importmap"
	"github.com/tweag/assetmap/integrity"
	"github.com/tweag/assetmap/internal/logging"
	"github.com/tweag/assetmap/preload"
	"github.com/tweag/assetmap/service/resolver"
)

// Options tune the HTTP surface.
type Options struct {
	// BasePath is the path prefix of every route. Empty serves at the root.
	BasePath string
	// CacheControl is sent verbatim on collection and import map
	// responses when non-empty.
	CacheControl string
}

type handler struct {
	resolver     resolver.Resolver
	cacheControl string
}

// Handler builds the HTTP routes backed by a resolver:
//
//	GET {base}/resources
//	GET {base}/scopes/{scope}/resources
//	GET {base}/importmap
//	GET {base}/scopes/{scope}/importmap
//	GET {base}/healthz
//
// Named scopes that the descriptor source does not declare yield 404.
// The default scope always serves, resolving to the empty collection
// when the source has nothing to offer.
func Handler(res resolver.Resolver, options Options) http.Handler {
	h := &handler{resolver: res, cacheControl: options.CacheControl}
	router := mux.NewRouter()
	base := router
	if options.BasePath != "" {
		base = router.PathPrefix(options.BasePath).Subrouter()
	}
	base.HandleFunc("/resources", h.resources).Methods(http.MethodGet)
	base.HandleFunc("/scopes/{scope}/resources", h.resources).Methods(http.MethodGet)
	base.HandleFunc("/importmap", h.importMap).Methods(http.MethodGet)
	base.HandleFunc("/scopes/{scope}/importmap", h.importMap).Methods(http.MethodGet)
	base.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	return router
}

func (h *handler) resources(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.checkScope(w, r)
	if !ok {
		return
	}
	collection, err := h.resolver.Resolve(r.Context(), scope)
	if err != nil {
		logging.Errorf("resolving scope %q: %v", scope, err)
		http.Error(w, "resolution failed", http.StatusInternalServerError)
		return
	}
	if query := r.URL.Query(); query.Has("preload") {
		for _, link := range preload.Links(collection, query.Get("preload")) {
			w.Header().Add("Link", link.Header())
		}
	}
	h.write(w, r, "application/json", collection.Fingerprint(), collection.Encoded())
}

func (h *handler) importMap(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.checkScope(w, r)
	if !ok {
		return
	}
	document, err := h.resolver.ResolveImportMap(r.Context(), scope)
	if err != nil {
		logging.Errorf("resolving import map of scope %q: %v", scope, err)
		http.Error(w, "resolution failed", http.StatusInternalServerError)
		return
	}
	h.write(w, r, importmap.ContentType, document.Fingerprint(), document.Encoded())
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// checkScope extracts the scope of the request and rejects named scopes
// the source does not declare. The default scope is always served.
func (h *handler) checkScope(w http.ResponseWriter, r *http.Request) (string, bool) {
	scope := mux.Vars(r)["scope"]
	if scope == "" {
		return "", true
	}
	registered, err := h.resolver.IsRegistered(r.Context(), scope)
	if err != nil {
		logging.Errorf("checking scope %q: %v", scope, err)
		http.Error(w, "resolution failed", http.StatusInternalServerError)
		return "", false
	}
	if !registered {
		http.NotFound(w, r)
		return "", false
	}
	return scope, true
}

func (h *handler) write(w http.ResponseWriter, r *http.Request, contentType string, fingerprint integrity.Checksum, body []byte) {
	etag := fingerprint.ETag()
	w.Header().Set("ETag", etag)
	if h.cacheControl != "" {
		w.Header().Set("Cache-Control", h.cacheControl)
	}
	if matchesETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(body)
}

func matchesETag(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		// Weak comparison: a revalidation request may carry W/ prefixes.
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == etag {
			return true
		}
	}
	return false
}
