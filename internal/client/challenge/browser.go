package challenge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/dmitrijs2005/comparehub/internal/logging"
)

const (
	jsReady = `() => (typeof window.turnstile !== 'undefined') ? 'ready' : ''`

	jsReadToken = `() => {
		const i = document.querySelector('input[name="cf-turnstile-response"]');
		return (i && i.value) ? i.value : '';
	}`

	jsClearToken = `(sel) => {
		const i = document.querySelector('input[name="cf-turnstile-response"]');
		if (i) i.value = '';
		try { if (window.turnstile) turnstile.reset(sel); } catch (e) {}
		return '';
	}`

	jsExecute = `(sel, action) => {
		try { turnstile.execute(sel, { action: action }); } catch (e) { return String(e); }
		return '';
	}`
)

type BrowserConfig struct {
	// PageURL hosts the widget. When empty a local page is served using
	// SiteKey.
	PageURL  string
	SiteKey  string
	Selector string

	// ControlURL attaches to a running Chrome; otherwise one is launched.
	ControlURL string
	Bin        string
	Headless   bool

	PollInterval time.Duration
	Timeout      time.Duration
	ReadyTimeout time.Duration
}

// evaluator runs a JS function in the widget page and returns its string
// result.
type evaluator interface {
	Eval(ctx context.Context, js string, args ...any) (string, error)
}

type rodPage struct {
	page *rod.Page
}

func (p rodPage) Eval(ctx context.Context, js string, args ...any) (string, error) {
	res, err := p.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           js,
		JSArgs:       args,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return "", err
	}
	if res == nil || res.Value.Nil() {
		return "", nil
	}
	return res.Value.Str(), nil
}

// BrowserProvider drives the real Turnstile widget in a headless Chrome
// controlled through go-rod. The browser is started lazily on first use and
// reused until Close.
type BrowserProvider struct {
	cfg BrowserConfig
	log logging.Logger

	mu      sync.Mutex
	page    evaluator
	closers []func() error

	// start is replaced in tests.
	start func(ctx context.Context) (evaluator, []func() error, error)
}

func NewBrowserProvider(cfg BrowserConfig, log logging.Logger) *BrowserProvider {
	if cfg.Selector == "" {
		cfg.Selector = WidgetSelector
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 15 * time.Second
	}
	if log == nil {
		log = logging.Nop()
	}
	b := &BrowserProvider{cfg: cfg, log: log}
	b.start = b.launch
	return b
}

func (b *BrowserProvider) launch(ctx context.Context) (evaluator, []func() error, error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	pageURL := b.cfg.PageURL
	if pageURL == "" {
		ws, err := startWidgetServer(b.cfg.SiteKey)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, ws.Close)
		pageURL = ws.url
	}

	controlURL := b.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(b.cfg.Headless)
		if b.cfg.Bin != "" {
			l = l.Bin(b.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("launch chrome: %w", err)
		}
		closers = append(closers, func() error { l.Kill(); return nil })
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("connect to chrome: %w", err)
	}
	closers = append(closers, browser.Close)

	page, err := browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("open widget page: %w", err)
	}
	if err := page.Context(ctx).WaitLoad(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("load widget page: %w", err)
	}

	return rodPage{page: page}, closers, nil
}

func (b *BrowserProvider) ensurePage(ctx context.Context) (evaluator, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.page != nil {
		return b.page, nil
	}

	page, closers, err := b.start(ctx)
	if err != nil {
		b.log.Warn(ctx, "challenge browser unavailable", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	b.page = page
	b.closers = closers
	return page, nil
}

// Ready waits for window.turnstile to appear on the widget page.
func (b *BrowserProvider) Ready(ctx context.Context) error {
	page, err := b.ensurePage(ctx)
	if err != nil {
		return err
	}

	_, err = Poll(ctx, b.cfg.PollInterval, b.cfg.ReadyTimeout, func(ctx context.Context) (string, error) {
		return page.Eval(ctx, jsReady)
	})
	if errors.Is(err, ErrChallengeTimeout) {
		return ErrChallengeUnavailable
	}
	return err
}

// Execute clears any stale token, runs the widget for action and polls the
// hidden response field for the new token.
func (b *BrowserProvider) Execute(ctx context.Context, action string) (string, error) {
	if err := b.Ready(ctx); err != nil {
		return "", err
	}
	page, err := b.ensurePage(ctx)
	if err != nil {
		return "", err
	}

	if _, err := page.Eval(ctx, jsClearToken, b.cfg.Selector); err != nil {
		return "", fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}

	msg, err := page.Eval(ctx, jsExecute, b.cfg.Selector, action)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChallengeUnavailable, err)
	}
	if msg != "" {
		// A token may still show up, e.g. when the widget was already running.
		b.log.Warn(ctx, "turnstile.execute failed, still polling", "action", action, "error", msg)
	}

	token, err := Poll(ctx, b.cfg.PollInterval, b.cfg.Timeout, func(ctx context.Context) (string, error) {
		return page.Eval(ctx, jsReadToken)
	})
	if err != nil {
		return "", err
	}
	b.log.Debug(ctx, "challenge token obtained", "action", action)
	return token, nil
}

// PassiveToken returns a token already present in the page and clears it.
// It never starts the browser.
func (b *BrowserProvider) PassiveToken(ctx context.Context) (string, bool) {
	b.mu.Lock()
	page := b.page
	b.mu.Unlock()
	if page == nil {
		return "", false
	}

	token, err := page.Eval(ctx, jsReadToken)
	if err != nil || token == "" {
		return "", false
	}
	_, _ = page.Eval(ctx, jsClearToken, b.cfg.Selector)
	return token, true
}

func (b *BrowserProvider) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	b.page = nil
	return errors.Join(errs...)
}
