// Package translit is the page object for the transliteration site.
//
// A Driver binds one Playwright page to the two controls the suite cares
// about: the Singlish entry textbox, resolved by ARIA role and accessible
// name, and the Sinhala output region, resolved by a structural CSS selector.
// The driver performs no retries of its own; locator failures and settlement
// timeouts surface to the caller as coded errors.
package translit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/pramodya/singlish-e2e/internal/config"
	"github.com/pramodya/singlish-e2e/internal/errs"
	"github.com/pramodya/singlish-e2e/internal/obs"
	"github.com/pramodya/singlish-e2e/internal/wait"
)

// Driver drives the site under test through a single browser page.
// It is not safe for concurrent use: the changed-from-baseline settlement
// contract assumes a single writer on the shared input control.
type Driver struct {
	page playwright.Page
	cfg  *config.Config
	log  *slog.Logger
}

// New binds a driver to an already-created page.
func New(page playwright.Page, cfg *config.Config) *Driver {
	return &Driver{
		page: page,
		cfg:  cfg,
		log:  obs.Pkg("translit"),
	}
}

func (d *Driver) input() playwright.Locator {
	return d.page.GetByRole(*playwright.AriaRoleTextbox, playwright.PageGetByRoleOptions{
		Name: d.cfg.InputName,
	})
}

func (d *Driver) output() playwright.Locator {
	return d.page.Locator(d.cfg.OutputSelector).First()
}

// Navigate opens the site and waits for both controls to become visible.
// A control that never appears within the page-load timeout is fatal to the
// whole run, so the error carries the locator_not_found code.
func (d *Driver) Navigate(ctx context.Context) error {
	timeoutMS := float64(d.cfg.PageLoadTimeout.Milliseconds())

	_, err := d.page.Goto(d.cfg.BaseURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(timeoutMS),
	})
	if err != nil {
		return errs.Wrap(errs.LocatorNotFound, fmt.Sprintf("navigate to %s", d.cfg.BaseURL), err)
	}

	for _, c := range []struct {
		name    string
		locator playwright.Locator
	}{
		{fmt.Sprintf("textbox %q", d.cfg.InputName), d.input()},
		{fmt.Sprintf("output region %q", d.cfg.OutputSelector), d.output()},
	} {
		err := c.locator.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(timeoutMS),
		})
		if err != nil {
			return errs.Wrap(errs.LocatorNotFound, fmt.Sprintf("%s did not become visible", c.name), err)
		}
	}

	d.log.Info("page ready", "url", d.cfg.BaseURL)
	return nil
}

// ReadOutput returns the current text of the output region, trimmed of
// leading and trailing whitespace. The live site emits a variable number of
// trailing newlines; trimming here keeps the fixtures free of that artifact.
func (d *Driver) ReadOutput() (string, error) {
	text, err := d.output().InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(float64(d.cfg.PageLoadTimeout.Milliseconds())),
	})
	if err != nil {
		return "", errs.Wrap(errs.LocatorNotFound, "read output region", err)
	}
	return strings.TrimSpace(text), nil
}

// Clear empties the input control and sleeps the clear-settle interval so any
// in-flight update from the previous state resolves. The site has no idle
// signal; this is a bounded heuristic wait, not an event.
func (d *Driver) Clear(ctx context.Context) error {
	if err := d.fill(""); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d.cfg.ClearSettle):
	}
	return nil
}

func (d *Driver) fill(value string) error {
	err := d.input().Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(float64(d.cfg.PageLoadTimeout.Milliseconds())),
	})
	if err != nil {
		return errs.Wrap(errs.LocatorNotFound, fmt.Sprintf("fill textbox %q", d.cfg.InputName), err)
	}
	return nil
}

func (d *Driver) typeKeys(text string) error {
	err := d.input().PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Delay:   playwright.Float(float64(d.cfg.KeyDelay.Milliseconds())),
		Timeout: playwright.Float(float64(d.cfg.PageLoadTimeout.Milliseconds())),
	})
	if err != nil {
		return errs.Wrap(errs.LocatorNotFound, fmt.Sprintf("type into textbox %q", d.cfg.InputName), err)
	}
	return nil
}

// Perform applies input in a single atomic fill and waits for the output to
// settle: non-empty and different from the output observed immediately before
// the input was applied. It returns the settled text, trimmed.
//
// The baseline is read after the reset, once the clear-settle interval has
// passed. Reading it earlier would make repeating an input impossible to
// observe: the new output would equal the old baseline and the poll would
// never fire.
func (d *Driver) Perform(ctx context.Context, input string) (string, error) {
	if err := d.Clear(ctx); err != nil {
		return "", err
	}
	prev, err := d.ReadOutput()
	if err != nil {
		return "", err
	}
	if err := d.fill(input); err != nil {
		return "", err
	}

	settled, err := wait.ForText(ctx, d.readForWait, wait.ChangedFrom(prev), d.cfg.PollInterval, d.cfg.SettleTimeout)
	if err != nil {
		d.log.Warn("perform did not settle", "input", input, "baseline", prev)
		return "", err
	}
	d.log.Debug("perform settled", "input", input, "output", settled)
	return settled, nil
}

// PerformIncremental types prefix key-by-key with inter-key delay, waits for
// some non-empty intermediate output, then types suffix and polls until the
// output is exactly want. It returns the intermediate and final text.
//
// The intermediate value is deliberately unasserted beyond non-emptiness: the
// site's per-keystroke behavior is not part of any contract.
func (d *Driver) PerformIncremental(ctx context.Context, prefix, suffix, want string) (intermediate, final string, err error) {
	if err := d.Clear(ctx); err != nil {
		return "", "", err
	}
	if err := d.typeKeys(prefix); err != nil {
		return "", "", err
	}

	intermediate, err = wait.ForText(ctx, d.readForWait, wait.ChangedFrom(""), d.cfg.PollInterval, d.cfg.SettleTimeout)
	if err != nil {
		return "", "", err
	}

	if err := d.typeKeys(suffix); err != nil {
		return intermediate, "", err
	}

	final, err = wait.ForText(ctx, d.readForWait, wait.Exactly(want), d.cfg.PollInterval, d.cfg.SettleTimeout)
	if err != nil {
		return intermediate, "", err
	}
	d.log.Debug("incremental perform settled", "prefix", prefix, "intermediate", intermediate, "final", final)
	return intermediate, final, nil
}

func (d *Driver) readForWait(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return d.ReadOutput()
}
