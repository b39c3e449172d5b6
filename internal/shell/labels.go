package shell

import "sync"

// TrayLabelsEvent is emitted to the popup page whenever its labels change
// or it is about to be shown.
const TrayLabelsEvent = "tray-labels-updated"

// Labels are the two tray entries' texts.
type Labels struct {
	Show string `json:"show_label"`
	Quit string `json:"quit_label"`
}

// DefaultLabels is what the tray shows until the page localizes it.
var DefaultLabels = Labels{Show: "Show", Quit: "Quit"}

// LabelStore holds the current labels. They are not persisted.
type LabelStore struct {
	mu     sync.Mutex
	labels Labels
}

// NewLabelStore returns a store holding DefaultLabels.
func NewLabelStore() *LabelStore {
	return &LabelStore{labels: DefaultLabels}
}

func (s *LabelStore) Get() Labels {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labels
}

func (s *LabelStore) Set(l Labels) {
	s.mu.Lock()
	s.labels = l
	s.mu.Unlock()
}
