package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/url"
	"strings"
	"sync"
	"time"

	"registration-agent/internal/application/port/output"
	"registration-agent/internal/domain/entity"
	"registration-agent/internal/domain/errs"
	"registration-agent/internal/infrastructure/htmlinspect"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

const (
	defaultTimeout    = 10 * time.Second
	defaultSlowMotion = 0
	maxScreenshotW    = 1024

	// mouseClickTimeout bounds the real click before the script fallback.
	mouseClickTimeout = 2 * time.Second
)

var ErrInvalidURL = errors.New("invalid url")

// hideWebdriver masks navigator.webdriver on every new document.
const hideWebdriver = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

type BrowserAdapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	cancel   context.CancelFunc

	mu      sync.Mutex
	dialogs []string
	closed  bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
	Bin        string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   false,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
		NoSandbox:  false,
		DevTools:   false,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("enable-automation").
		Set("disable-blink-features", "AutomationControlled")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(controlURL).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if _, err := page.EvalOnNewDocument(hideWebdriver); err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to prepare page: %w", err)
	}

	eventCtx, cancel := context.WithCancel(ctx)
	b := &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
		cancel:   cancel,
	}
	b.watchDialogs(eventCtx)

	return b, nil
}

// watchDialogs accepts every native dialog as soon as it opens and keeps its
// text for TakeDialog. An unhandled dialog would block the click that raised it.
func (b *BrowserAdapter) watchDialogs(ctx context.Context) {
	page := b.page.Context(ctx)
	wait := page.EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		b.mu.Lock()
		b.dialogs = append(b.dialogs, e.Message)
		b.mu.Unlock()
		_ = proto.PageHandleJavaScriptDialog{Accept: true}.Call(page)
	})
	go wait()
}

func (b *BrowserAdapter) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && b.page != nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, rawURL string) error {
	if err := validateURL(rawURL); err != nil {
		return err
	}

	page := b.page.Context(ctx)
	if err := page.Navigate(rawURL); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.Timeout(b.timeout).WaitLoad(); err != nil {
		return fmt.Errorf("page did not load: %w", err)
	}
	_ = page.WaitIdle(2 * time.Second)
	return nil
}

func (b *BrowserAdapter) WaitFor(ctx context.Context, loc entity.Locator, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = b.timeout
	}
	_, err := b.page.Context(ctx).Timeout(timeout).Element(selectorFor(loc))
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.NotFound(fmt.Sprintf("%s after %s", loc, timeout))
	}
	return fmt.Errorf("wait for %s: %w", loc, err)
}

func (b *BrowserAdapter) Find(ctx context.Context, loc entity.Locator) (output.Element, error) {
	has, el, err := b.page.Context(ctx).Has(selectorFor(loc))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", loc, err)
	}
	if !has {
		return nil, errs.NotFound(loc.String())
	}
	return &element{el: el, timeout: b.timeout}, nil
}

func (b *BrowserAdapter) FindAll(ctx context.Context, name string) ([]output.Element, error) {
	els, err := b.page.Context(ctx).Elements(selectorFor(entity.Locator{Name: name}))
	if err != nil {
		return nil, fmt.Errorf("find all [name=%q]: %w", name, err)
	}
	out := make([]output.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &element{el: el, timeout: b.timeout})
	}
	return out, nil
}

func (b *BrowserAdapter) TakeDialog(ctx context.Context) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.dialogs) == 0 {
		return "", false
	}
	text := b.dialogs[0]
	b.dialogs = b.dialogs[1:]
	return text, true
}

func (b *BrowserAdapter) DrainDialogs(ctx context.Context) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	drained := b.dialogs
	b.dialogs = nil
	return drained
}

func (b *BrowserAdapter) HTML(ctx context.Context) (string, error) {
	html, err := b.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

func (b *BrowserAdapter) Inputs(ctx context.Context, limit int) ([]entity.InputSummary, error) {
	html, err := b.HTML(ctx)
	if err != nil {
		return nil, err
	}
	return htmlinspect.Inputs(html, limit)
}

func (b *BrowserAdapter) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := b.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotW {
		img = imaging.Resize(img, maxScreenshotW, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (b *BrowserAdapter) CurrentURL() string {
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	if b.cancel != nil {
		b.cancel()
	}
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

type element struct {
	el      *rod.Element
	timeout time.Duration
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", err
	}
	return ptrToString(v), nil
}

func (e *element) Fill(ctx context.Context, text string) error {
	el := e.el.Context(ctx).Timeout(e.timeout)
	// Typing over the selection replaces any prefilled value.
	_ = el.SelectAllText()
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

// Click uses a real mouse click and falls back to a script click, which also
// reaches radios hidden behind custom styling.
func (e *element) Click(ctx context.Context) error {
	err := e.el.Context(ctx).Timeout(min(e.timeout, mouseClickTimeout)).Click(proto.InputMouseButtonLeft, 1)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if _, jsErr := e.el.Context(ctx).Eval(`() => this.click()`); jsErr != nil {
		return fmt.Errorf("click failed: %w (script click: %v)", err, jsErr)
	}
	return nil
}

func selectorFor(loc entity.Locator) string {
	sel := fmt.Sprintf(`[name="%s"]`, cssEscape(loc.Name))
	if loc.Value != "" {
		sel += fmt.Sprintf(`[value="%s"]`, cssEscape(loc.Value))
	}
	return sel
}

func cssEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || raw == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	switch u.Scheme {
	case "http", "https", "file":
		return nil
	}
	return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
}

func ptrToString(s *string) string {
	if s != nil {
		return *s
	}
	return ""
}
