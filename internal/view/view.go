// Package view holds the per-session state of the admin collection page:
// search text, layout mode, the open modal and the last shoe pick.
package view

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/erazemk/sneakerbox/internal/model"
)

// Layout modes.
const (
	ModeGrid  = "grid"
	ModeTable = "table"
)

// Modals.
const (
	ModalNone    = ""
	ModalAdd     = "add"
	ModalImport  = "import"
	ModalReceipt = "receipt"
	ModalEdit    = "edit"
)

// Pick kinds.
const (
	PickRandom    = "random"
	PickLeastWorn = "least_worn"
)

// Pick remembers the shoe chosen by the last pick action.
type Pick struct {
	Kind   string `json:"kind"`
	ShoeID string `json:"shoe_id"`
}

// State is the admin page view state. The zero value is a grid with no
// search and no modal.
type State struct {
	Search string `json:"q,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Modal  string `json:"modal,omitempty"`
	EditID string `json:"edit,omitempty"`
	Pick   *Pick  `json:"pick,omitempty"`
}

// Layout returns the effective layout mode.
func (s State) Layout() string {
	if s.Mode == ModeTable {
		return ModeTable
	}
	return ModeGrid
}

// WithSearch replaces the search text.
func (s State) WithSearch(q string) State {
	s.Search = strings.TrimSpace(q)
	return s
}

// ToggleMode flips between grid and table.
func (s State) ToggleMode() State {
	if s.Layout() == ModeGrid {
		s.Mode = ModeTable
	} else {
		s.Mode = ModeGrid
	}
	return s
}

// Open shows a modal. Only the edit modal carries a shoe ID; opening any
// modal replaces the one already open.
func (s State) Open(modal, id string) State {
	if !validModal(modal) {
		return s.Close()
	}
	s.Modal = modal
	s.EditID = ""
	if modal == ModalEdit {
		s.EditID = id
	}
	return s
}

// Close hides any open modal.
func (s State) Close() State {
	s.Modal = ModalNone
	s.EditID = ""
	return s
}

// WithPick records a pick result. A nil pick clears it.
func (s State) WithPick(p *Pick) State {
	s.Pick = p
	return s
}

func validModal(m string) bool {
	switch m {
	case ModalNone, ModalAdd, ModalImport, ModalReceipt, ModalEdit:
		return true
	}
	return false
}

// Encode serializes the state for a cookie value.
func (s State) Encode() string {
	b, _ := json.Marshal(s)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode parses a cookie value produced by Encode. Unknown modes and modals
// are reset.
func Decode(v string) (State, error) {
	var s State
	if v == "" {
		return s, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return State{}, fmt.Errorf("decoding view state: %w", err)
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return State{}, fmt.Errorf("parsing view state: %w", err)
	}
	if s.Mode != ModeTable {
		s.Mode = ModeGrid
	}
	if !validModal(s.Modal) {
		s = s.Close()
	}
	if s.Modal != ModalEdit {
		s.EditID = ""
	}
	return s, nil
}

// Filter returns the shoes whose name, nickname or any color contains the
// search text, ignoring case. A blank search matches everything.
func Filter(shoes []model.Shoe, search string) []model.Shoe {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return shoes
	}
	var out []model.Shoe
	for _, s := range shoes {
		if matches(s, q) {
			out = append(out, s)
		}
	}
	return out
}

func matches(s model.Shoe, q string) bool {
	if strings.Contains(strings.ToLower(s.Name), q) {
		return true
	}
	if s.Nickname != "" && strings.Contains(strings.ToLower(s.Nickname), q) {
		return true
	}
	for _, c := range s.Colors {
		if strings.Contains(strings.ToLower(c), q) {
			return true
		}
	}
	return false
}
