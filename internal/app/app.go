package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veritaslens/newscast/internal/config"
	"github.com/veritaslens/newscast/internal/ledger"
	"github.com/veritaslens/newscast/internal/logger"
	"github.com/veritaslens/newscast/internal/metrics"
	"github.com/veritaslens/newscast/internal/news"
	"github.com/veritaslens/newscast/internal/oracle"
	"github.com/veritaslens/newscast/internal/rank"
	"github.com/veritaslens/newscast/internal/reddit"
	"github.com/veritaslens/newscast/internal/retry"
	"github.com/veritaslens/newscast/internal/rss"
	"github.com/veritaslens/newscast/internal/script"
	"github.com/veritaslens/newscast/internal/storage"
	"github.com/veritaslens/newscast/internal/voice"
)

// App wires the pipeline stages together. Oracles and the synthesizer
// are injected so the whole run is testable with fakes.
type App struct {
	cfg     *config.Config
	store   *storage.Store
	led     *ledger.Ledger
	ranker  oracle.Oracle
	drafter oracle.Oracle
	critic  oracle.Oracle
	synth   voice.Synthesizer
	reddit  *reddit.Client
}

// Run builds an App from configuration and executes one full pipeline
// run: aggregate, rank, select, generate, refine, sanitize, persist.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	logger.Init(cfg.Debug)

	budget := oracle.NewBudget(cfg.MaxOracleCalls)
	deepseek := budget.Limit(oracle.NewOllama(cfg.OllamaHost, cfg.DeepSeekModel, cfg.RequestTimeout), "deepseek")

	var critic oracle.Oracle
	if cfg.GeminiAPIKey != "" {
		gemini, err := oracle.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("Gemini client unavailable, critiques will be empty", "error", err)
		} else {
			defer gemini.Close()
			critic = budget.Limit(gemini, "gemini")
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, critiques will be empty")
	}

	var synth voice.Synthesizer
	if cfg.ElevenLabsAPIKey != "" {
		synth = voice.NewElevenLabs(cfg.ElevenLabsAPIKey, cfg.VoiceID, cfg.RequestTimeout)
	}

	a := &App{
		cfg:     cfg,
		store:   storage.NewStore(cfg.DataDir),
		led:     ledger.New(cfg.LedgerPath, cfg.RetentionCap),
		ranker:  deepseek,
		drafter: deepseek,
		critic:  critic,
		synth:   synth,
		reddit:  reddit.NewClient(cfg.RedditUserAgent, cfg.RequestTimeout),
	}
	return a.run(context.Background())
}

func (a *App) run(ctx context.Context) error {
	start := time.Now()
	runID := uuid.NewString()
	logger.Info("Starting news aggregation", "run_id", runID)

	filtered, err := a.aggregate(ctx, start)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}
	if len(filtered) == 0 {
		logger.Warn("No fresh news items this run", "run_id", runID)
		metrics.Global.SetLastRun()
		metrics.Global.RecordRunDuration(time.Since(start))
		return nil
	}

	top := a.pickTopStories(ctx, filtered, start)

	final, err := a.generateScript(ctx, runID, top)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return fmt.Errorf("script generation failed: %w", err)
	}

	if path, err := a.store.SaveFinalScript(final, start); err != nil {
		logger.Error("Failed to save final narration", "error", err)
	} else {
		logger.Info("Final narration saved", "path", path)
	}

	a.synthesize(ctx, final, start)

	metrics.Global.SetLastRun()
	metrics.Global.RecordRunDuration(time.Since(start))
	logger.Info("Run complete", "run_id", runID, "duration", time.Since(start).String())
	return nil
}

// aggregate fetches all sources, normalizes the records into one
// ordered batch and filters it against the ledger. Only a failed
// ledger save is fatal: losing dedup state corrupts future runs.
func (a *App) aggregate(ctx context.Context, now time.Time) ([]news.Item, error) {
	var records []news.RawRecord

	feeds, err := rss.LoadFeeds(a.cfg.FeedsConfigPath)
	if err != nil {
		logger.Warn("Could not load feeds config", "path", a.cfg.FeedsConfigPath, "error", err)
	} else {
		records = append(records, rss.FetchAll(feeds)...)
	}

	if len(a.cfg.Subreddits) > 0 {
		records = append(records, a.reddit.FetchHot(ctx, a.cfg.Subreddits, a.cfg.RedditLimit)...)
	}

	items := news.Normalize(records)
	if a.cfg.MaxResults > 0 && len(items) > a.cfg.MaxResults {
		logger.Info("Capping batch to max results", "max", a.cfg.MaxResults, "fetched", len(items))
		items = items[:a.cfg.MaxResults]
	}
	metrics.Global.AddItemsFetched(len(items))
	logger.Info("Combined news items before filtering", "count", len(items))

	// The ledger must be fully loaded before the first dedup decision
	// and written back only after the whole batch is filtered.
	a.led.Load()
	filtered, stats := news.Filter(items, a.led, a.cfg.MaxNewsAge, now)
	metrics.Global.RecordFilter(stats.Admitted, stats.Duplicates, stats.Old, stats.MissingDate)

	if _, err := a.store.SaveFilteredBatch(filtered, now); err != nil {
		logger.Error("Failed to save filtered batch snapshot", "error", err)
	}

	if err := a.led.Save(); err != nil {
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}
	return filtered, nil
}

// pickTopStories asks the ranking oracle to score the batch and keeps
// the best stories. A silent or garbled oracle still yields a full
// ranking of placeholders, so selection never fails.
func (a *App) pickTopStories(ctx context.Context, items []news.Item, now time.Time) []news.Item {
	prompt := rank.BuildPrompt(items)

	var response string
	err := retry.WithRetry(ctx, retry.Config{
		MaxAttempts: a.cfg.RetryAttempts,
		Delay:       a.cfg.RetryDelay,
		Backoff:     true,
	}, func() error {
		var callErr error
		response, callErr = a.ranker.Generate(ctx, prompt)
		return callErr
	})
	if err != nil {
		logger.Error("Ranking oracle failed, falling back to fetch order", "error", err)
		response = ""
	}

	scores := rank.ParseResponse(response)
	ranked := rank.Assign(items, scores)
	top := rank.SelectTop(ranked, a.cfg.TopStories)

	if _, err := a.store.SaveTopStories(top, now); err != nil {
		logger.Error("Failed to save top stories snapshot", "error", err)
	}
	logger.Info("Picked top stories", "count", len(top))
	return top
}

func (a *App) generateScript(ctx context.Context, runID string, top []news.Item) (*script.FinalScript, error) {
	gen := &script.Generator{
		Drafter:       a.drafter,
		Critic:        a.critic,
		BrandName:     a.cfg.BrandName,
		RunID:         runID,
		MaxIterations: a.cfg.MaxRefineIterations,
		Snapshots:     a.store,
	}

	final, err := gen.Generate(ctx, top)
	if err != nil {
		return nil, err
	}
	metrics.Global.AddRefinementIterations(final.Metadata.RefinementIterations)
	return final, nil
}

// synthesize renders the narration to audio, best effort.
func (a *App) synthesize(ctx context.Context, final *script.FinalScript, now time.Time) {
	if a.synth == nil {
		logger.Debug("No speech synthesizer configured, skipping audio")
		return
	}

	audio, err := a.synth.Synthesize(ctx, AssembleNarration(final))
	if err != nil {
		logger.Error("Speech synthesis failed", "error", err)
		return
	}

	path := a.store.AudioPath(now)
	if err := a.store.SaveAudio(path, audio); err != nil {
		logger.Error("Failed to save narration audio", "error", err)
		return
	}
	logger.Info("Narration audio saved", "path", path)
}

// sectionOrder is the broadcast reading order; sections outside it are
// appended alphabetically so assembly stays deterministic.
var sectionOrder = []string{"hook", "headlines", "main_story_1", "main_story_2", "main_story_3", "outro"}

// AssembleNarration joins the script sections into one continuous
// narration in broadcast order.
func AssembleNarration(final *script.FinalScript) string {
	used := make(map[string]bool, len(final.Sections))
	var parts []string

	for _, key := range sectionOrder {
		if text, ok := final.Sections[key]; ok && text != "" {
			parts = append(parts, text)
			used[key] = true
		}
	}

	var rest []string
	for key, text := range final.Sections {
		if !used[key] && text != "" {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		parts = append(parts, final.Sections[key])
	}

	return strings.Join(parts, " ")
}
