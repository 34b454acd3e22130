// internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
	"github.com/xkilldash9x/snapbuy/internal/config"
)

// ErrSessionClosed is returned by operations on a closed Session.
var ErrSessionClosed = errors.New("browser session closed")

const shutdownTimeout = 10 * time.Second

// Session owns one Chromium process and the single tab the buyer drives.
// It implements buyer.Page.
type Session struct {
	logger            *zap.Logger
	navigationTimeout time.Duration

	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	closeOnce sync.Once
}

var _ buyer.Page = (*Session)(nil)

// NewSession launches the browser and opens a blank tab. The browser lives
// until Close is called or ctx is canceled.
func NewSession(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	opts, err := ExecAllocatorOptions(cfg)
	if err != nil {
		return nil, err
	}

	s := &Session{
		logger:            logger.Named("browser"),
		navigationTimeout: cfg.NavigationTimeout,
	}
	if s.navigationTimeout <= 0 {
		s.navigationTimeout = 60 * time.Second
	}

	s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(ctx, opts...)

	var ctxOpts []chromedp.ContextOption
	if cfg.Debug {
		ctxOpts = append(ctxOpts, chromedp.WithDebugf(s.logger.Sugar().Debugf))
	}
	ctxOpts = append(ctxOpts, chromedp.WithErrorf(s.logger.Sugar().Errorf))
	s.tabCtx, s.tabCancel = chromedp.NewContext(s.allocCtx, ctxOpts...)

	// An empty Run starts the browser process and attaches to the first tab.
	if err := chromedp.Run(s.tabCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	s.logger.Info("Browser started.", zap.Bool("headless", cfg.Headless), zap.String("user_data_dir", cfg.UserDataDir))
	return s, nil
}

// Navigate loads url and waits until the document body is ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.tabCtx.Err(); err != nil {
		return ErrSessionClosed
	}
	navCtx, cancel := CombineContext(s.tabCtx, ctx)
	defer cancel()
	navCtx, cancelTimeout := context.WithTimeout(navCtx, s.navigationTimeout)
	defer cancelTimeout()

	start := time.Now()
	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		if errors.Is(navCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("timeout navigating to %s: %w", url, err)
		}
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	s.logger.Info("Page ready.", zap.String("url", url), zap.Duration("took", time.Since(start)))
	return nil
}

// Query snapshots every element matching selector in a single evaluation.
func (s *Session) Query(ctx context.Context, selector string) ([]buyer.Element, error) {
	script, err := snapshotScript(selector)
	if err != nil {
		return nil, err
	}

	var raw []byte
	if err := s.evaluate(ctx, script, &raw); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	entries, err := decodeSnapshot(raw)
	if err != nil {
		return nil, err
	}

	elems := make([]buyer.Element, len(entries))
	for i, e := range entries {
		elems[i] = &element{
			session:   s,
			selector:  selector,
			index:     i,
			text:      e.Text,
			invocable: e.Invocable,
		}
	}
	return elems, nil
}

// Close shuts down the tab and the browser process. Safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		// Canceling the first tab through chromedp closes the browser gracefully.
		done := make(chan error, 1)
		go func() { done <- chromedp.Cancel(s.tabCtx) }()

		select {
		case err = <-done:
			if errors.Is(err, context.Canceled) {
				err = nil
			}
		case <-time.After(shutdownTimeout):
			err = fmt.Errorf("browser did not exit within %s", shutdownTimeout)
		}
		s.tabCancel()
		s.allocCancel()
		if err != nil {
			s.logger.Warn("Browser shutdown incomplete.", zap.Error(err))
			return
		}
		s.logger.Info("Browser closed.")
	})
	return err
}

func (s *Session) evaluate(ctx context.Context, script string, res interface{}) error {
	if s.tabCtx.Err() != nil {
		return ErrSessionClosed
	}
	opCtx, cancel := CombineContext(s.tabCtx, ctx)
	defer cancel()

	return chromedp.Run(opCtx, chromedp.Evaluate(script, res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithReturnByValue(true).WithSilent(true)
	}))
}

// element is a point-in-time view of one query match. Invoke looks the node
// up again so a re-rendered page is handled.
type element struct {
	session   *Session
	selector  string
	index     int
	text      string
	invocable bool
}

func (e *element) Text() string    { return e.text }
func (e *element) Invocable() bool { return e.invocable }

func (e *element) Invoke(ctx context.Context) error {
	script, err := clickScript(e.selector, e.index)
	if err != nil {
		return err
	}
	var clicked bool
	if err := e.session.evaluate(ctx, script, &clicked); err != nil {
		return fmt.Errorf("click %q[%d]: %w", e.selector, e.index, err)
	}
	if !clicked {
		return buyer.ErrNotInvocable
	}
	return nil
}
