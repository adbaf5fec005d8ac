// Package guard turns a flattened chat prompt into role-tagged messages so
// that only the bot's own turns reach the model as assistant speech. A
// Controller is built once at startup from immutable configuration; every
// request flows segment → classify → merge → assemble, and any distrust of
// the parse downgrades the whole request to the untouched original prompt.
package guard

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/promptguard/promptguard/internal/config"
	"github.com/promptguard/promptguard/internal/history"
	"github.com/promptguard/promptguard/internal/identity"
	"github.com/promptguard/promptguard/internal/prompt"
)

// Path is the host reply path a request came from.
type Path string

const (
	PathGroup   Path = "group"
	PathPrivate Path = "private"
)

// Request is one host call to transform. History records are optional; when
// the host passes them through they are authoritative and the prompt's
// history region is not parsed line by line. MaxContextSize is the host's
// own history-window size, used unless the override is set.
type Request struct {
	RequestID      string           `json:"request_id,omitempty"`
	ChatID         string           `json:"chat_id,omitempty"`
	Path           Path             `json:"path"`
	Prompt         string           `json:"prompt"`
	History        []history.Record `json:"history,omitempty"`
	MaxContextSize int              `json:"max_context_size,omitempty"`
}

// Controller holds the immutable per-process guard state: compiled template
// rules, the bot identity set and the runtime flags. It is safe for
// concurrent use; the only mutable field is the activation latch.
type Controller struct {
	enabled      bool
	applyGroup   bool
	applyPrivate bool
	applyRewrite bool
	merge        bool
	override     int
	fallback     bool

	rules    prompt.Rules
	bots     identity.Set
	nickname string

	active atomic.Bool
	log    zerolog.Logger
	now    func() time.Time
}

// New builds a Controller from configuration. Guard-domain configuration
// problems surface here, before any request can hit them.
func New(cfg *config.Config, log zerolog.Logger) (*Controller, error) {
	rules, err := prompt.ForVersion(cfg.Template.Version)
	if err != nil {
		return nil, &ConfigurationError{Msg: err.Error()}
	}
	bots, err := identity.ParseSet(cfg.Bot.Identities)
	if err != nil {
		return nil, &ConfigurationError{Msg: err.Error()}
	}
	if len(bots) > 0 && cfg.Bot.Nickname == "" {
		return nil, &ConfigurationError{Msg: "bot.nickname is required when bot identities are set"}
	}
	if cfg.Runtime.MaxContextSizeOverride < 0 {
		return nil, &ConfigurationError{
			Msg: fmt.Sprintf("max_context_size_override %d: must not be negative", cfg.Runtime.MaxContextSizeOverride),
		}
	}

	return &Controller{
		enabled:      cfg.Plugin.Enabled,
		applyGroup:   cfg.Runtime.ApplyGroup,
		applyPrivate: cfg.Runtime.ApplyPrivate,
		applyRewrite: cfg.Runtime.ApplyRewrite,
		merge:        cfg.Runtime.MergeConsecutive,
		override:     cfg.Runtime.MaxContextSizeOverride,
		fallback:     cfg.Runtime.FallbackToOriginal,
		rules:        rules,
		bots:         bots,
		nickname:     cfg.Bot.Nickname,
		log:          log,
		now:          time.Now,
	}, nil
}

// Activate engages the guard. Until the host's ready signal triggers it,
// every request passes through untouched. Idempotent.
func (c *Controller) Activate() {
	c.active.Store(true)
}

// Deactivate returns the guard to pass-through mode.
func (c *Controller) Deactivate() {
	c.active.Store(false)
}

// Active reports whether the guard is engaged.
func (c *Controller) Active() bool {
	return c.active.Load()
}

// Enabled reports the process-wide enable flag.
func (c *Controller) Enabled() bool {
	return c.enabled
}

// TemplateVersion reports the template contract the controller parses
// against.
func (c *Controller) TemplateVersion() int {
	return c.rules.Version
}

// Guard transforms one host request. The Result carries either the
// structured messages or the original prompt plus the reason structuring
// was not applied. A non-nil error is returned only when
// fallback_to_original is off and structuring failed; flag-based
// pass-throughs are never errors.
func (c *Controller) Guard(req Request) (*Result, error) {
	if !c.active.Load() {
		return c.pass(req, ReasonNotActivated, "host ready signal has not fired"), nil
	}
	if !c.enabled {
		return c.pass(req, ReasonDisabled, "disabled by configuration"), nil
	}

	switch req.Path {
	case PathGroup:
		if !c.applyGroup {
			return c.pass(req, ReasonPathDisabled, "group path disabled"), nil
		}
	case PathPrivate:
		if !c.applyPrivate {
			return c.pass(req, ReasonPathDisabled, "private path disabled"), nil
		}
	default:
		return c.failed(req, &ConfigurationError{Msg: fmt.Sprintf("unknown path %q", req.Path)})
	}

	if prompt.IsRewrite(req.Prompt, c.rules) && !c.applyRewrite {
		return c.pass(req, ReasonRewriteDisabled, "rewrite path disabled"), nil
	}

	sr, err := c.structure(req)
	if err != nil {
		return c.failed(req, err)
	}
	c.log.Debug().
		Str("path", string(req.Path)).
		Int("turns_in", len(req.History)).
		Int("messages_out", len(sr.Messages)).
		Msg("prompt structured")
	return &Result{Structured: sr}, nil
}

// structure runs the forward pipeline. Any error it returns means the parse
// cannot be trusted; the caller decides between fallback and hard failure.
func (c *Controller) structure(req Request) (*StructuredRequest, error) {
	seg, err := prompt.Split(req.Prompt, c.rules)
	if err != nil {
		return nil, err
	}

	limit := c.override
	if limit == 0 {
		limit = req.MaxContextSize
	}

	var turns []prompt.Turn
	if len(req.History) > 0 {
		turns = history.Rebuild(req.History, history.Options{
			Bots:        c.bots,
			BotNickname: c.nickname,
			Mode:        prompt.InferTimeMode(req.Prompt, c.rules),
			Now:         c.now(),
		})
	} else {
		turns, err = prompt.ParseTurns(seg.Region, c.rules)
		if err != nil {
			return nil, err
		}
	}

	merged := Merge(Classify(turns, c.bots), c.merge)
	return Assemble(seg.Prefix, merged, seg.Suffix, limit)
}

func (c *Controller) pass(req Request, reason Reason, detail string) *Result {
	c.log.Debug().Str("reason", string(reason)).Msg("passing prompt through")
	return &Result{Fallback: &Fallback{Reason: reason, Detail: detail, Prompt: req.Prompt}}
}

func (c *Controller) failed(req Request, err error) (*Result, error) {
	reason := ReasonForError(err)
	if !c.fallback {
		c.log.Warn().Str("reason", string(reason)).Err(err).Msg("structuring failed, propagating")
		return nil, err
	}
	c.log.Warn().Str("reason", string(reason)).Err(err).Msg("structuring failed, falling back")
	return &Result{Fallback: &Fallback{Reason: reason, Detail: err.Error(), Prompt: req.Prompt}}, nil
}
