package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"unicode/utf8"

	"chirp/internal/config"
	"chirp/internal/logging"
	"chirp/internal/perception"
)

// Orchestrator sequences one decision cycle: action selection, strategy
// invocation, length enforcement, the required trailer, optional media
// attachment, and handoff to the publisher. Linear, no retries across
// states; a strategy failure ends the run with a warning.
type Orchestrator struct {
	cfg      *config.Config
	llm      perception.LLMClient
	selector *Selector
	enforcer *LengthEnforcer
	history  *History
	rng      *rand.Rand

	trends   TrendSource
	timeline TimelineSource
	news     NewsSource
	media    Media
	pub      Publisher
	store    HistoryStore // nil when persistence is disabled

	log      *logging.Logger
	dispatch *logging.Logger
}

// Deps bundles the external collaborators the orchestrator drives.
type Deps struct {
	LLM      perception.LLMClient
	Trends   TrendSource
	Timeline TimelineSource
	News     NewsSource
	Media    Media
	Pub      Publisher
	Store    HistoryStore
	Rand     *rand.Rand
}

// NewOrchestrator wires the pipeline for one process invocation.
func NewOrchestrator(cfg *config.Config, deps Deps) *Orchestrator {
	history := NewHistory(cfg.History.GetLimit())
	return &Orchestrator{
		cfg:      cfg,
		llm:      deps.LLM,
		selector: NewSelector(deps.Rand),
		enforcer: NewLengthEnforcer(deps.LLM),
		history:  history,
		rng:      deps.Rand,
		trends:   deps.Trends,
		timeline: deps.Timeline,
		news:     deps.News,
		media:    deps.Media,
		pub:      deps.Pub,
		store:    deps.Store,
		log:      logging.Get(logging.CategoryAgent),
		dispatch: logging.Get(logging.CategoryDispatch),
	}
}

// History exposes the in-memory log, oldest first.
func (o *Orchestrator) History() *History {
	return o.history
}

// LoadHistory seeds the in-memory log from the store, when configured.
func (o *Orchestrator) LoadHistory(ctx context.Context) {
	if o.store == nil {
		return
	}
	recent, err := o.store.Recent(ctx, o.cfg.History.GetLimit())
	if err != nil {
		o.log.Warn("could not load history: %v", err)
		return
	}
	for _, text := range recent {
		o.history.Append(text)
	}
	o.log.Info("loaded %d history entries", len(recent))
}

// RunCycle performs the single decision cycle. It returns an error only
// for a dispatch (surface) failure; a strategy that produced nothing is
// logged and ends the run cleanly.
func (o *Orchestrator) RunCycle(ctx context.Context) error {
	action := o.selector.Choose(o.cfg.ActionMode)
	o.log.Info("action cycle: mode=%s action=%s", o.cfg.ActionMode, action)

	strategy := o.strategyFor(action)
	if strategy == nil {
		o.log.Warn("no strategy for mode %s", o.cfg.ActionMode)
		return nil
	}

	outcome, err := strategy.Attempt(ctx)
	if err != nil {
		if errors.Is(err, ErrMalformedDraft) {
			o.log.Error("strategy %s: %v", strategy.Name(), err)
		} else {
			o.log.Warn("strategy %s produced nothing: %v", strategy.Name(), err)
		}
		return nil
	}

	if outcome.Post != nil {
		return o.dispatchPost(ctx, outcome.Post)
	}
	return o.dispatchReply(ctx, outcome.Target, outcome.Reply)
}

// strategyFor maps the selected action and mode onto one strategy.
// auto_niche forces the trend strategy for every post mode.
func (o *Orchestrator) strategyFor(action Action) Strategy {
	if action == ActionReply {
		return NewEngagementStrategy(o.timeline, o.llm, o.cfg.Tone, o.cfg.Niche, o.history, o.rng)
	}
	if o.cfg.AutoNiche {
		return NewTrendStrategy(o.trends, o.llm, o.cfg.Tone, o.history)
	}
	switch o.cfg.ActionMode {
	case config.ModeStrategicMix, config.ModePostOnlyControversy:
		return NewTrendStrategy(o.trends, o.llm, o.cfg.Tone, o.history)
	case config.ModePostOnlyNews:
		return NewNewsStrategy(o.news, o.llm, o.cfg.Tone, o.cfg.Niche, o.history, o.rng)
	case config.ModePostOnlyWord:
		return NewDocumentStrategy(o.cfg.WordFilePath, o.llm, o.cfg.Tone, o.history)
	default:
		return nil
	}
}

func (o *Orchestrator) dispatchPost(ctx context.Context, pkg *ContentPackage) error {
	text := o.enforcer.Enforce(ctx, pkg.Text)
	text = o.appendRequiredText(text)

	var imagePath string
	if o.cfg.AttachImage && o.media != nil {
		query := pkg.ImageQuery
		if query == "" {
			query = text
		}
		path, err := o.media.FetchImage(ctx, query)
		if err != nil {
			o.log.Warn("media lookup failed, posting without image: %v", err)
		} else {
			imagePath = path
		}
	}
	// Scoped resource: released on every exit path.
	defer o.releaseMedia(imagePath)

	o.dispatch.Info("dispatching post (%d chars, media=%v)", utf8.RuneCountInString(text), imagePath != "")
	if err := o.pub.Post(ctx, text, imagePath); err != nil {
		o.dispatch.Error("post dispatch failed: %v", err)
		return fmt.Errorf("post dispatch: %w", err)
	}

	o.recordPublished(ctx, text)
	return nil
}

func (o *Orchestrator) dispatchReply(ctx context.Context, target *EngagementTarget, reply string) error {
	text := o.enforcer.Enforce(ctx, reply)
	text = o.appendRequiredText(text)

	o.dispatch.Info("dispatching reply to @%s", target.Author)
	if err := o.pub.Reply(ctx, target.URL, text); err != nil {
		o.dispatch.Error("reply dispatch failed: %v", err)
		return fmt.Errorf("reply dispatch: %w", err)
	}

	o.recordPublished(ctx, text)
	return nil
}

// appendRequiredText appends the configured trailer as a new paragraph.
// Applied after length enforcement: the trailer is not counted against
// the platform limit.
func (o *Orchestrator) appendRequiredText(text string) string {
	if o.cfg.RequiredText == "" {
		return text
	}
	return fmt.Sprintf("%s\n\n%s", text, o.cfg.RequiredText)
}

func (o *Orchestrator) releaseMedia(path string) {
	if path == "" || o.media == nil {
		return
	}
	o.media.RemoveMedia(path)
}

func (o *Orchestrator) recordPublished(ctx context.Context, text string) {
	o.history.Append(text)
	if o.store == nil {
		return
	}
	if err := o.store.Append(ctx, text); err != nil {
		o.log.Warn("could not persist history entry: %v", err)
	}
}
