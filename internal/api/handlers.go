package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mquillen/summark/internal/extract"
	"github.com/mquillen/summark/internal/storage"
	"github.com/mquillen/summark/internal/telemetry"
	"github.com/mquillen/summark/internal/xapi"
)

// fallbackIdentity is the caller identity used when no proxy header is
// present. All un-proxied callers share one bucket; a known imprecision
// of the best-effort limiter, not something to fix silently.
const fallbackIdentity = "unknown"

func decodeJSON(r *http.Request, out any) error {
	defer r.Body.Close() //nolint:errcheck
	return json.NewDecoder(r.Body).Decode(out)
}

type createBookmarkRequest struct {
	Input         string `json:"input"`
	IncludeThread bool   `json:"include_thread"`
}

func (s *Server) createBookmark(w http.ResponseWriter, r *http.Request) {
	var req createBookmarkRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	input := strings.TrimSpace(req.Input)
	if input == "" {
		s.writeError(w, http.StatusBadRequest, "input is required")
		return
	}
	if len(input) > s.cfg.Server.MaxInputBytes {
		s.writeError(w, http.StatusBadRequest, "input is too large")
		return
	}

	identity := clientIP(r)
	if ok, reason := s.limiter.Allow(identity, len(input)); !ok {
		telemetry.IncRateLimitRejection()
		s.writeError(w, http.StatusTooManyRequests, reason)
		return
	}

	doc, err := s.extractor.Extract(r.Context(), input, req.IncludeThread)
	if err != nil {
		if errors.Is(err, extract.ErrUnrecognizedURL) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		telemetry.IncUpstreamError("platform")
		s.logger.Warn("extraction failed", zap.Error(err))
		s.writeError(w, upstreamStatus(err), err.Error())
		return
	}

	summary, err := s.summarizer.Summarize(r.Context(), doc.Text)
	if err != nil {
		telemetry.IncUpstreamError("summarizer")
		s.logger.Warn("summarization failed", zap.Error(err))
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	id, err := s.idGen.NewID()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "generate bookmark id")
		return
	}
	bookmark := storage.Bookmark{
		ID:             id,
		SourceText:     doc.Text,
		Summary:        summary,
		TextKind:       string(doc.Kind),
		SourceURL:      doc.SourceURL,
		ResolvedURL:    doc.ResolvedURL,
		TweetID:        doc.PostID,
		TweetAuthorID:  doc.AuthorID,
		TweetCreatedAt: doc.CreatedAt,
		ThreadCount:    doc.ThreadCount,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.store.Save(r.Context(), bookmark); err != nil {
		s.logger.Error("save bookmark failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to save bookmark")
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"bookmark": bookmark})
}

func (s *Server) listBookmarks(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	bookmarks, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("list bookmarks failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list bookmarks")
		return
	}
	if bookmarks == nil {
		bookmarks = []storage.Bookmark{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"bookmarks": bookmarks})
}

// clientIP derives the caller identity: first X-Forwarded-For entry, else
// X-Real-Ip, else the shared fallback identity.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	return fallbackIdentity
}

// upstreamStatus maps extraction failures to an HTTP status: platform
// errors surface as 502, everything else as 500.
func upstreamStatus(err error) int {
	var upstream *xapi.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
