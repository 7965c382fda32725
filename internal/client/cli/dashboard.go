package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/healthyindia/labelscan/internal/client/session"
	"github.com/healthyindia/labelscan/internal/filex"
)

var errNoLabels = errors.New("no labels to show, run 'capture <file>' first")

// Capture reads a JPEG from path, sends it for analysis and prints the
// resulting labels.
func (a *App) Capture(ctx context.Context, path string) error {
	st := a.session.State()
	if st.Kind != session.Unlocked || st.Identity == nil {
		return &session.TransitionError{Op: "capture", From: st.Kind}
	}

	image, err := filex.ReadLimited(path, a.maxImage)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Analyzing...")
	if _, err := a.captures.Capture(ctx, *st.Identity, image); err != nil {
		return err
	}
	return a.Labels(ctx)
}

// Labels lists the product labels of the current capture. Warnings are
// marked with "!".
func (a *App) Labels(_ context.Context) error {
	chips := a.captures.Chips()
	if len(chips) == 0 {
		if _, err := a.captures.Current(); err == nil {
			fmt.Fprintln(a.out, "The analysis returned no labels")
			return nil
		}
		return errNoLabels
	}

	for i, c := range chips {
		mark := " "
		if c.Warning {
			mark = "!"
		}
		fmt.Fprintf(a.out, "%2d. [%s] %s\n", i+1, mark, c.Label)
	}
	return nil
}

// Show prints the ingredients behind label number arg (1-based, as listed by
// Labels).
func (a *App) Show(_ context.Context, arg string) error {
	cur, err := a.captures.Current()
	if err != nil {
		return errNoLabels
	}
	chips := a.captures.Chips()

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(chips) {
		return fmt.Errorf("label number must be between 1 and %d", len(chips))
	}
	chip := chips[n-1]

	ings, err := a.captures.Ingredients(cur.ID, chip.Label)
	if err != nil {
		return err
	}

	if chip.Warning {
		fmt.Fprintf(a.out, "%s (warning)\n", chip.Label)
	} else {
		fmt.Fprintln(a.out, chip.Label)
	}
	if len(ings) == 0 {
		fmt.Fprintln(a.out, "  No ingredients matched this label")
		return nil
	}

	for _, ing := range ings {
		fmt.Fprintf(a.out, "  - %s: %s, %s, %s\n", ing.Name, ing.Type, ing.SafetyLevel, ing.ProcessingLevel)
		if ing.HealthImpact != "" {
			fmt.Fprintf(a.out, "      %s\n", ing.HealthImpact)
		}
	}
	return nil
}

// Alternatives prints the healthier products suggested for the current
// capture.
func (a *App) Alternatives(_ context.Context) error {
	cur, err := a.captures.Current()
	if err != nil {
		return errNoLabels
	}

	alts := cur.Result.SuggestedAlternatives
	if len(alts) == 0 {
		fmt.Fprintln(a.out, "No alternatives suggested")
		return nil
	}
	for i, alt := range alts {
		fmt.Fprintf(a.out, "%2d. %s by %s (%s)\n", i+1, alt.Name, alt.Brand, alt.Category)
		if alt.BuyLink != "" {
			fmt.Fprintf(a.out, "      %s\n", alt.BuyLink)
		}
	}
	return nil
}

// WhoAmI prints the signed-in identity.
func (a *App) WhoAmI(_ context.Context) error {
	st := a.session.State()
	if st.Identity == nil {
		return &session.TransitionError{Op: "whoami", From: st.Kind}
	}

	id := st.Identity
	fmt.Fprintf(a.out, "Name:  %s\nEmail: %s\n", id.Name, id.Email)
	if id.IsGuest() {
		fmt.Fprintln(a.out, "Guest session")
	}
	return nil
}
