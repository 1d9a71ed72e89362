package di

import (
	"fmt"

	"registration-agent/internal/application/port/input"
	"registration-agent/internal/application/port/output"
	"registration-agent/internal/infrastructure/browser/rod"
	"registration-agent/internal/infrastructure/logger"
	"registration-agent/internal/infrastructure/userinteraction"
	"registration-agent/internal/usecase/registration"
)

type Container struct {
	Logger   output.LoggerPort
	UI       output.UserInteractionPort
	Launcher output.BrowserLauncher
	Runner   input.RegistrationRunner
}

type Config struct {
	Workflow registration.Config
	Browser  rod.BrowserConfig
	Log      logger.Config
}

// LoadConfig reads runtime settings, falling back to defaults for anything
// unset or malformed.
func LoadConfig(e output.ConfigPort) Config {
	wf := registration.DefaultConfig()
	wf.TargetURL = e.Get("REGISTRATION_URL")
	wf.AutoSubmit = e.GetBool("AUTO_MODE", false)
	wf.ElementTimeout = e.GetDuration("ELEMENT_TIMEOUT", wf.ElementTimeout)
	wf.PageDwell = e.GetDuration("PAGE_DWELL", wf.PageDwell)
	wf.SlotDwell = e.GetDuration("SLOT_DWELL", wf.SlotDwell)
	wf.FormDwell = e.GetDuration("FORM_DWELL", wf.FormDwell)
	wf.SubmitDwell = e.GetDuration("SUBMIT_DWELL", wf.SubmitDwell)
	wf.CancelGrace = e.GetDuration("CANCEL_GRACE", wf.CancelGrace)
	wf.CloseWait = e.GetDuration("CLOSE_WAIT", wf.CloseWait)
	wf.ScreenshotPath = e.Get("SCREENSHOT_PATH")

	browser := rod.DefaultConfig()
	browser.Headless = e.GetBool("BROWSER_HEADLESS", false)
	browser.NoSandbox = e.GetBool("BROWSER_NO_SANDBOX", false)
	browser.Bin = e.Get("BROWSER_BIN")
	browser.Timeout = wf.ElementTimeout

	log := logger.DefaultConfig()
	log.Level = e.GetWithDefault("LOG_LEVEL", log.Level)
	log.File = e.GetWithDefault("LOG_FILE", log.File)
	log.Console = e.GetBool("LOG_CONSOLE", false)

	return Config{Workflow: wf, Browser: browser, Log: log}
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	ui := userinteraction.NewConsoleUserInteraction()
	launcher := rod.NewLauncher(cfg.Browser)
	runner := registration.New(cfg.Workflow, launcher, ui, log)

	return &Container{
		Logger:   log,
		UI:       ui,
		Launcher: launcher,
		Runner:   runner,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}
