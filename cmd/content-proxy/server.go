package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/acoustic-content-samples/traveler-content-client/pkg/aggregate"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/datasource"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/logging"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/metrics"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/pagination"
	"github.com/acoustic-content-samples/traveler-content-client/pkg/query"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// maxSearchPages caps the pages a single /search request may drain.
const maxSearchPages = 20

// server holds the process-lifetime sources. Paged sources are created per
// request so concurrent visitors do not share paging state.
type server struct {
	getter    pagination.Getter
	builder   *query.Builder
	countries *datasource.Countries
	regions   *datasource.Regions

	logger     zerolog.Logger
	sourceLog  zerolog.Logger
	loadLogger zerolog.Logger
}

func newServer(getter pagination.Getter, builder *query.Builder, logger zerolog.Logger) *server {
	sourceLog := logger.With().Str("subsystem", logging.ComponentPagination).Logger()
	return &server{
		getter:     getter,
		builder:    builder,
		countries:  datasource.NewCountries(getter, builder, sourceLog),
		regions:    datasource.NewRegions(getter, builder, sourceLog),
		logger:     logger,
		sourceLog:  sourceLog,
		loadLogger: logger.With().Str("subsystem", logging.ComponentAggregate).Logger(),
	}
}

func newRouter(s *server) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/home", s.home).Methods(http.MethodGet)
	r.HandleFunc("/destinations", s.destinations).Methods(http.MethodGet)
	r.HandleFunc("/destinations/countries", s.countriesByCategory).Methods(http.MethodGet)
	r.HandleFunc("/articles", s.articles).Methods(http.MethodGet)
	r.HandleFunc("/gallery", s.gallery).Methods(http.MethodGet)
	r.HandleFunc("/search", s.search).Methods(http.MethodGet)
	r.HandleFunc("/about", s.about).Methods(http.MethodGet)
	r.HandleFunc("/contacts", s.contacts).Methods(http.MethodGet)
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// loadResponse wraps an aggregate view with the names of failed operations.
type loadResponse struct {
	ID     string   `json:"id"`
	Failed []string `json:"failed,omitempty"`
	Data   any      `json:"data"`
}

func (s *server) home(w http.ResponseWriter, r *http.Request) {
	loader := aggregate.NewHomeLoader(
		datasource.NewHome(s.getter, s.builder, s.sourceLog),
		datasource.NewGallery(s.getter, s.builder, s.sourceLog),
		datasource.NewArticles(s.getter, s.builder, s.sourceLog),
		s.loadLogger,
	)
	view, report := loader.Load(r.Context())

	status := http.StatusOK
	if view.Home == nil {
		status = http.StatusBadGateway
	}
	s.writeJSON(w, status, loadResponse{ID: report.ID, Failed: report.Failed, Data: s.resolveHome(view)})
}

func (s *server) destinations(w http.ResponseWriter, r *http.Request) {
	loader := aggregate.NewDestinationsLoader(
		datasource.NewDestinations(s.getter, s.builder, s.sourceLog),
		s.regions, s.countries, s.loadLogger,
	)
	view, report := loader.Load(r.Context())

	status := http.StatusOK
	if view.Destinations == nil {
		status = http.StatusBadGateway
	}
	s.writeJSON(w, status, loadResponse{ID: report.ID, Failed: report.Failed, Data: view})
}

func (s *server) countriesByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("category is required"))
		return
	}

	countries, err := s.countries.Get(r.Context(), category)
	if err != nil {
		s.writeFetchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.resolveCountries(countries))
}

func (s *server) articles(w http.ResponseWriter, r *http.Request) {
	count, err := intParam(r, "count", 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	articles := datasource.NewArticles(s.getter, s.builder, s.sourceLog)
	batch, err := articles.Get(r.Context(), r.URL.Query().Get("category"), count)
	if err != nil {
		s.writeFetchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.resolveArticles(batch))
}

func (s *server) gallery(w http.ResponseWriter, r *http.Request) {
	count, err := intParam(r, "count", 0)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	gallery := datasource.NewGallery(s.getter, s.builder, s.sourceLog)
	batch, err := gallery.Get(r.Context(), count)
	if err != nil {
		s.writeFetchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.resolveGallery(batch))
}

func (s *server) search(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("q")
	if text == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("q is required"))
		return
	}
	pages, err := intParam(r, "pages", 1)
	if err != nil || pages < 1 || pages > maxSearchPages {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("pages must be between 1 and %d", maxSearchPages))
		return
	}

	search := datasource.NewSearch(s.getter, s.builder, s.sourceLog)
	drain := pagination.DefaultDrainConfig()
	drain.MaxPages = pages

	results, err := pagination.Drain(r.Context(), search.Fetcher, query.Search(0, 0, text), drain)
	if err != nil && len(results) == 0 {
		s.writeFetchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.resolveResults(results))
}

func (s *server) about(w http.ResponseWriter, r *http.Request) {
	doc, err := datasource.NewAbout(s.getter, s.builder, s.sourceLog).Get(r.Context())
	if err != nil {
		s.writeFetchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *server) contacts(w http.ResponseWriter, r *http.Request) {
	doc, err := datasource.NewContacts(s.getter, s.builder, s.sourceLog).Get(r.Context())
	if err != nil {
		s.writeFetchError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return n, nil
}

// writeFetchError maps source errors to a status: missing documents are 404,
// anything upstream is 502.
func (s *server) writeFetchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, datasource.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, query.ErrInvalidEndpoint):
		s.writeError(w, http.StatusInternalServerError, err)
	default:
		s.writeError(w, http.StatusBadGateway, err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Warn().Err(err).Int("status_code", status).Msg("Request failed")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write response")
	}
}
