package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/tendermatch/internal/chapter"
)

type chapterRequest struct {
	Text string `json:"text"`
	// Preset "tech_spec" fills the chapter numbers and synonyms below.
	Preset         string   `json:"preset"`
	StartChapter   int      `json:"start_chapter"`
	StartSynonyms  []string `json:"start_synonyms"`
	StopChapter    int      `json:"stop_chapter"`
	StopSynonyms   []string `json:"stop_synonyms"`
	IncludeHeading bool     `json:"include_heading"`
}

func (req chapterRequest) options() chapter.Options {
	if req.Preset == "tech_spec" || req.StartChapter <= 0 {
		return chapter.TechSpec(req.IncludeHeading)
	}
	return chapter.Options{
		StartChapter:   req.StartChapter,
		StartSynonyms:  req.StartSynonyms,
		StopChapter:    req.StopChapter,
		StopSynonyms:   req.StopSynonyms,
		IncludeHeading: req.IncludeHeading,
	}
}

type chapterResponse struct {
	Found bool `json:"found"`
	*chapter.Span
}

// handleExtractChapter slices one chapter out of the posted text. Without
// start_chapter the technical specification preset is used.
func (s *Server) handleExtractChapter(w http.ResponseWriter, r *http.Request) {
	var req chapterRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Preset != "" && req.Preset != "tech_spec" {
		jsonError(w, "unknown preset: "+req.Preset, http.StatusBadRequest)
		return
	}

	span, ok := chapter.Extract(req.Text, req.options())
	if !ok {
		writeJSON(w, http.StatusNotFound, chapterResponse{Found: false})
		return
	}
	writeJSON(w, http.StatusOK, chapterResponse{Found: true, Span: &span})
}

type bidFormatRequest struct {
	Text        string `json:"text"`
	Hint        string `json:"hint"`
	DropHeading bool   `json:"drop_heading"`
}

type bidFormatResponse struct {
	Found bool `json:"found"`
	*chapter.BidFormat
}

// handleExtractBidFormat returns the bid-format chapter and its outline.
func (s *Server) handleExtractBidFormat(w http.ResponseWriter, r *http.Request) {
	var req bidFormatRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return
	}

	bf, ok := chapter.ExtractBidFormat(req.Text, req.Hint, req.DropHeading)
	if !ok {
		writeJSON(w, http.StatusNotFound, bidFormatResponse{Found: false})
		return
	}
	if bf.Outline == nil {
		bf.Outline = []string{}
	}
	writeJSON(w, http.StatusOK, bidFormatResponse{Found: true, BidFormat: &bf})
}
