package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/promptguard/promptguard/internal/guard"
	"github.com/promptguard/promptguard/internal/store"
)

// GuardResponse is the wire shape of a guard call outcome. The hook bridge
// forwards this body to the host verbatim, so field names are part of the
// host contract. The transform command prints the same shape.
type GuardResponse struct {
	RequestID string          `json:"request_id"`
	Outcome   string          `json:"outcome"`
	Messages  []guard.Message `json:"messages,omitempty"`
	Reason    guard.Reason    `json:"reason,omitempty"`
	Detail    string          `json:"detail,omitempty"`
	Prompt    string          `json:"prompt,omitempty"`
}

// ResponseFor renders a guard result into the wire response.
func ResponseFor(requestID string, res *guard.Result) GuardResponse {
	if res.IsFallback() {
		fb := res.Fallback
		return GuardResponse{
			RequestID: requestID,
			Outcome:   "fallback",
			Reason:    fb.Reason,
			Detail:    fb.Detail,
			Prompt:    fb.Prompt,
		}
	}
	return GuardResponse{
		RequestID: requestID,
		Outcome:   "structured",
		Messages:  res.Structured.Messages,
	}
}

func (s *Server) handleGuard(w http.ResponseWriter, r *http.Request) {
	var req guard.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.Prompt == "" {
		http.Error(w, `{"error":"prompt required"}`, http.StatusBadRequest)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	res, err := s.ctrl.Guard(req)
	if err != nil {
		reason := guard.ReasonForError(err)
		s.audit(&req, "error", string(reason)+": "+err.Error(), 0)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"request_id": req.RequestID,
			"reason":     string(reason),
			"error":      err.Error(),
		})
		return
	}

	if res.IsFallback() {
		s.audit(&req, "fallback", auditReason(res.Fallback.Reason, res.Fallback.Detail), 0)
	} else {
		s.audit(&req, "structured", "", len(res.Structured.Messages))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ResponseFor(req.RequestID, res))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Activate()
	s.log.Info().Msg("host ready, guard activated")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "active"})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.ctrl.Deactivate()
	s.log.Info().Msg("host stopped, guard deactivated")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "inactive"})
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	decs, err := s.db.GetRecentDecisions(limit)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	counts, err := s.db.CountDecisionsByOutcome()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	type decisionJSON struct {
		RequestID    string `json:"request_id"`
		ChatID       string `json:"chat_id,omitempty"`
		Path         string `json:"path"`
		Outcome      string `json:"outcome"`
		Reason       string `json:"reason,omitempty"`
		MessageCount int    `json:"message_count"`
		CreatedAt    int64  `json:"created_at"`
	}

	out := make([]decisionJSON, len(decs))
	for i, d := range decs {
		out[i] = decisionJSON{d.RequestID, d.ChatID, d.Path, d.Outcome, d.Reason, d.MessageCount, d.CreatedAt}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":     len(out),
		"outcomes":  counts,
		"decisions": out,
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"enabled":                   s.cfg.Plugin.Enabled,
		"active":                    s.ctrl.Active(),
		"template_version":          s.ctrl.TemplateVersion(),
		"apply_group":               s.cfg.Runtime.ApplyGroup,
		"apply_private":             s.cfg.Runtime.ApplyPrivate,
		"apply_rewrite":             s.cfg.Runtime.ApplyRewrite,
		"merge_consecutive":         s.cfg.Runtime.MergeConsecutive,
		"fallback_to_original":      s.cfg.Runtime.FallbackToOriginal,
		"max_context_size_override": s.cfg.Runtime.MaxContextSizeOverride,
		"bot_nickname":              s.cfg.Bot.Nickname,
		"bot_identities":            len(s.cfg.Bot.Identities),
	})
}

// audit records one decision row. Audit failures are logged and swallowed —
// the guard response must reach the host regardless.
func (s *Server) audit(req *guard.Request, outcome, reason string, messages int) {
	d := &store.Decision{
		RequestID:    req.RequestID,
		ChatID:       req.ChatID,
		Path:         string(req.Path),
		Outcome:      outcome,
		Reason:       reason,
		MessageCount: messages,
	}
	if err := s.db.AddDecision(d); err != nil {
		s.log.Warn().Err(err).Msg("decision audit write failed")
	}
}

func auditReason(reason guard.Reason, detail string) string {
	if detail == "" {
		return string(reason)
	}
	return string(reason) + ": " + detail
}
