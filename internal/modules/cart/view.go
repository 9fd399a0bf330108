package cart

import (
	"fmt"
	"net/http"
	"sync"
)

// EmptyMessage is shown in place of rows when the cart has none.
const EmptyMessage = "Your cart is empty"

// Panel is the rendered cart sidebar.
type Panel struct {
	Open     bool    `json:"open"`
	Empty    bool    `json:"empty"`
	Message  string  `json:"message,omitempty"`
	Rows     []Row   `json:"rows"`
	Badge    int     `json:"badge"`
	Total    string  `json:"total"`
	Subtotal float64 `json:"subtotal"`
}

// Row is one rendered line item with its quantity controls.
type Row struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	UnitPrice string   `json:"unit_price"`
	Quantity  int      `json:"quantity"`
	LineTotal string   `json:"line_total"`
	ImageURL  string   `json:"image_url,omitempty"`
	Actions   []Action `json:"actions"`
}

// Action is a control wired back to a cart operation.
type Action struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Href   string `json:"href"`
}

// View renders a Store into a Panel. Its only own state is visibility.
type View struct {
	symbol   string
	basePath string

	mu    sync.RWMutex
	open  bool
	panel Panel
}

// NewView creates a closed view. basePath prefixes the row action links.
func NewView(symbol, basePath string) *View {
	v := &View{symbol: symbol, basePath: basePath}
	v.panel = v.render(Snapshot{})
	return v
}

// Attach renders store's current contents and re-renders on every change.
// A successful add opens the panel.
func (v *View) Attach(store *Store) {
	store.Subscribe(v.apply)
}

func (v *View) apply(c Change) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if c.Kind == ChangeAdded {
		v.open = true
	}
	v.panel = v.render(c.Snapshot)
}

// Open shows the panel.
func (v *View) Open() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.open = true
}

// Close hides the panel.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.open = false
}

// IsOpen reports panel visibility.
func (v *View) IsOpen() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.open
}

// Panel returns the last rendered panel with the current visibility.
func (v *View) Panel() Panel {
	v.mu.RLock()
	defer v.mu.RUnlock()
	p := v.panel
	p.Rows = make([]Row, len(v.panel.Rows))
	copy(p.Rows, v.panel.Rows)
	p.Open = v.open
	return p
}

// Money formats an amount with two decimals and the currency symbol.
func (v *View) Money(amount float64) string {
	return fmt.Sprintf("%s%.2f", v.symbol, amount)
}

func (v *View) render(s Snapshot) Panel {
	p := Panel{
		Empty:    s.Empty(),
		Rows:     make([]Row, 0, len(s.Items)),
		Badge:    s.Totals.TotalItems,
		Total:    v.Money(s.Totals.Subtotal),
		Subtotal: s.Totals.Subtotal,
	}
	if p.Empty {
		p.Message = EmptyMessage
	}
	for _, it := range s.Items {
		href := v.basePath + "/items/" + it.ID
		p.Rows = append(p.Rows, Row{
			ID:        it.ID,
			Name:      it.Name,
			UnitPrice: v.Money(it.Price),
			Quantity:  it.Quantity,
			LineTotal: v.Money(it.LineTotal()),
			ImageURL:  it.ImageURL,
			Actions: []Action{
				{Name: "increase", Method: http.MethodPost, Href: href + "/increase"},
				{Name: "decrease", Method: http.MethodPost, Href: href + "/decrease"},
				{Name: "remove", Method: http.MethodDelete, Href: href},
			},
		})
	}
	return p
}
