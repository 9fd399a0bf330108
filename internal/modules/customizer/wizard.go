package customizer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/georgemunganga/bakery-backend/internal/modules/cart"
)

var (
	ErrNotOpen             = errors.New("customizer is not open")
	ErrStepNotReached      = errors.New("customizer step not reached yet")
	ErrUnknownOption       = errors.New("unknown customizer option")
	ErrIncompleteSelection = errors.New("please complete all customization steps")
)

// Step is the wizard position. Steps only move forward until Confirm or Close.
type Step string

const (
	StepIdle     Step = "idle"
	StepSize     Step = "size"
	StepFlavor   Step = "flavor"
	StepFrosting Step = "frosting"
)

func (s Step) rank() int {
	switch s {
	case StepSize:
		return 1
	case StepFlavor:
		return 2
	case StepFrosting:
		return 3
	}
	return 0
}

// Size is a cake size and the price it sets.
type Size struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
}

// Options are the choices offered at each step. Sizes must not be empty. An
// empty Flavors or Frostings list accepts any value.
type Options struct {
	Sizes     []Size   `json:"sizes"`
	Flavors   []string `json:"flavors"`
	Frostings []string `json:"frostings"`
}

// Selection is what has been picked so far. Price is the running total.
type Selection struct {
	Size     string  `json:"size,omitempty"`
	Price    float64 `json:"price"`
	Flavor   string  `json:"flavor,omitempty"`
	Frosting string  `json:"frosting,omitempty"`
}

// Complete reports whether every step has a value.
func (s Selection) Complete() bool {
	return s.Price > 0 && s.Flavor != "" && s.Frosting != ""
}

// Name is the cart line name for a complete selection.
func (s Selection) Name() string {
	return fmt.Sprintf("Custom %s cake with %s", s.Flavor, s.Frosting)
}

// State is a point-in-time read of the wizard.
type State struct {
	Open      bool      `json:"open"`
	Step      Step      `json:"step"`
	Selection Selection `json:"selection"`
}

// Adder receives the finished cake. *cart.Store satisfies it.
type Adder interface {
	AddItem(ctx context.Context, name string, price float64) (cart.LineItem, error)
}

// Wizard walks one shopper through size, flavor and frosting.
type Wizard struct {
	opts Options

	mu   sync.Mutex
	step Step
	sel  Selection
}

func NewWizard(opts Options) *Wizard {
	return &Wizard{opts: opts, step: StepIdle}
}

// Open starts over at the size step with an empty selection.
func (w *Wizard) Open() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepSize
	w.sel = Selection{}
	return w.state()
}

// Close discards the selection.
func (w *Wizard) Close() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepIdle
	w.sel = Selection{}
	return w.state()
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state()
}

func (w *Wizard) SelectSize(label string) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.reached(StepSize); err != nil {
		return w.state(), err
	}
	price, ok := w.sizePrice(label)
	if !ok {
		return w.state(), fmt.Errorf("%w: size %q", ErrUnknownOption, label)
	}
	w.sel.Size = label
	w.sel.Price = price
	w.step = StepFlavor
	return w.state(), nil
}

func (w *Wizard) SelectFlavor(flavor string) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.reached(StepFlavor); err != nil {
		return w.state(), err
	}
	if !allowed(w.opts.Flavors, flavor) {
		return w.state(), fmt.Errorf("%w: flavor %q", ErrUnknownOption, flavor)
	}
	w.sel.Flavor = flavor
	w.step = StepFrosting
	return w.state(), nil
}

func (w *Wizard) SelectFrosting(frosting string) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.reached(StepFrosting); err != nil {
		return w.state(), err
	}
	if !allowed(w.opts.Frostings, frosting) {
		return w.state(), fmt.Errorf("%w: frosting %q", ErrUnknownOption, frosting)
	}
	w.sel.Frosting = frosting
	return w.state(), nil
}

// Confirm adds the finished cake to the cart and closes the wizard. An
// incomplete or rejected selection leaves both the cart and the wizard
// untouched. If the row lands in the cart but saving it fails, the wizard
// still closes and the row is returned with the error, so a retry cannot
// add the cake twice.
func (w *Wizard) Confirm(ctx context.Context, to Adder) (cart.LineItem, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepIdle {
		return cart.LineItem{}, ErrNotOpen
	}
	if !w.sel.Complete() {
		return cart.LineItem{}, ErrIncompleteSelection
	}
	li, err := to.AddItem(ctx, w.sel.Name(), w.sel.Price)
	if err != nil && li.ID == "" {
		return cart.LineItem{}, err
	}
	w.step = StepIdle
	w.sel = Selection{}
	if err != nil {
		return li, fmt.Errorf("custom cake added but not saved: %w", err)
	}
	return li, nil
}

func (w *Wizard) reached(s Step) error {
	if w.step == StepIdle {
		return ErrNotOpen
	}
	if w.step.rank() < s.rank() {
		return fmt.Errorf("%w: at %s, wanted %s", ErrStepNotReached, w.step, s)
	}
	return nil
}

func (w *Wizard) sizePrice(label string) (float64, bool) {
	for _, s := range w.opts.Sizes {
		if s.Label == label {
			return s.Price, true
		}
	}
	return 0, false
}

func (w *Wizard) state() State {
	return State{Open: w.step != StepIdle, Step: w.step, Selection: w.sel}
}

func allowed(options []string, v string) bool {
	if v == "" {
		return false
	}
	if len(options) == 0 {
		return true
	}
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
