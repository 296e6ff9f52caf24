// Package viewmodel reconciles the loaded catalogue, the filter criteria and
// the detail selection into one consistent Snapshot.
//
// A ViewModel is driven from a single goroutine (the Bubble Tea update loop
// in this repository). Every mutation recomputes the snapshot before it
// returns, so a reader never sees criteria and selection out of step.
//
// # Overlapping loads
//
// Loads are last-initiated-wins. BeginLoad hands out an increasing
// LoadToken and FinishLoad drops any completion whose token is not the most
// recent one. Changing criteria or the selection never cancels a load.
package viewmodel

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/qyinm/zodiactui/catalog"
	"github.com/qyinm/zodiactui/types"
)

// LoadToken identifies one catalogue load.
type LoadToken uint64

// Option configures a ViewModel.
type Option func(*ViewModel)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(vm *ViewModel) {
		if logger != nil {
			vm.logger = logger
		}
	}
}

// WithRandom sets the random source used by RequestRandom.
func WithRandom(rng catalog.RandomSource) Option {
	return func(vm *ViewModel) { vm.rng = rng }
}

// ViewModel owns all mutable view state.
type ViewModel struct {
	source    types.EntrySource
	store     *catalog.Store
	selection *catalog.Selection
	rng       catalog.RandomSource
	logger    *zap.Logger

	criteria       types.FilterCriteria
	loadStatus     types.Status
	transient      *types.Status
	serverElements []string
	lastToken      LoadToken

	snapshot Snapshot
}

// New creates an idle ViewModel with an empty catalogue.
func New(source types.EntrySource, opts ...Option) *ViewModel {
	vm := &ViewModel{
		source:     source,
		store:      catalog.NewStore(source),
		logger:     zap.NewNop(),
		loadStatus: types.Idle(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.selection = catalog.NewSelection(vm.rng)
	vm.recompute()
	return vm
}

// Snapshot returns the current view state.
func (vm *ViewModel) Snapshot() Snapshot {
	return vm.snapshot.clone()
}

// SetQuery replaces the free-text query.
func (vm *ViewModel) SetQuery(query string) {
	vm.criteria.Query = query
	vm.transient = nil
	vm.recompute()
}

// SetElement replaces the element filter. An empty element shows all.
func (vm *ViewModel) SetElement(element string) {
	vm.criteria.Element = element
	vm.transient = nil
	vm.recompute()
}

// SelectEntry opens the entry with the given id in the detail view.
// The entry does not have to be in the filtered results. An unknown id
// returns types.ErrEntryNotFound and changes nothing.
func (vm *ViewModel) SelectEntry(id string) error {
	e, ok := vm.store.Catalogue().ByID(id)
	if !ok {
		return types.ErrEntryNotFound
	}
	vm.selection.Select(e)
	vm.transient = nil
	vm.recompute()
	return nil
}

// RequestRandom selects an entry uniformly at random from the whole
// catalogue. On an empty catalogue the status turns to Error until the next
// mutation; results and selection are left as they were.
func (vm *ViewModel) RequestRandom() (types.Entry, error) {
	e, err := vm.selection.PickRandom(vm.store.Catalogue())
	if err != nil {
		st := types.Failed(err.Error())
		vm.transient = &st
		vm.recompute()
		return types.Entry{}, err
	}
	vm.transient = nil
	vm.recompute()
	return e, nil
}

// CloseSelection clears the detail view.
func (vm *ViewModel) CloseSelection() {
	vm.selection.Clear()
	vm.transient = nil
	vm.recompute()
}

// BeginLoad marks a catalogue load as started and returns its token.
func (vm *ViewModel) BeginLoad() LoadToken {
	vm.lastToken++
	vm.loadStatus = types.Loading()
	vm.transient = nil
	vm.recompute()
	return vm.lastToken
}

// FinishLoad applies the outcome of the load identified by token.
// It reports false when the token is stale and the outcome was dropped.
// On failure the previous catalogue stays in place.
func (vm *ViewModel) FinishLoad(token LoadToken, entries []types.Entry, err error) bool {
	applied, _ := vm.finishLoad(token, entries, err)
	return applied
}

func (vm *ViewModel) finishLoad(token LoadToken, entries []types.Entry, err error) (bool, error) {
	if token != vm.lastToken {
		vm.logger.Debug("dropping stale catalogue load",
			zap.Uint64("token", uint64(token)),
			zap.Uint64("latest", uint64(vm.lastToken)))
		return false, nil
	}
	if err == nil {
		_, err = vm.store.Replace(entries)
	}
	if err != nil {
		vm.logger.Warn("catalogue load failed", zap.Error(err))
		vm.loadStatus = types.Failed(err.Error())
	} else {
		vm.logger.Info("catalogue loaded", zap.Int("entries", vm.store.Catalogue().Len()))
		vm.loadStatus = types.Ready()
		vm.refreshSelection()
	}
	vm.transient = nil
	vm.recompute()
	return true, err
}

// Load fetches the catalogue synchronously through BeginLoad and FinishLoad.
func (vm *ViewModel) Load(ctx context.Context) error {
	token := vm.BeginLoad()
	entries, err := vm.source.FetchEntries(ctx)
	_, err = vm.finishLoad(token, entries, types.NewFetchError("load catalogue", err))
	return err
}

// ApplyElements records the outcome of the optional element-list fetch.
// A failure is logged and otherwise ignored: elements then come from the
// catalogue.
func (vm *ViewModel) ApplyElements(elements []string, err error) {
	if err != nil {
		vm.logger.Warn("element list unavailable, deriving from catalogue", zap.Error(err))
		vm.serverElements = nil
	} else {
		vm.serverElements = slices.Clone(elements)
	}
	vm.recompute()
}

// LoadElements fetches the element list synchronously.
func (vm *ViewModel) LoadElements(ctx context.Context) {
	elements, err := vm.source.FetchElements(ctx)
	vm.ApplyElements(elements, err)
}

// refreshSelection points the selection at the reloaded copy of the same
// entry, if the new catalogue still has it.
func (vm *ViewModel) refreshSelection() {
	cur, ok := vm.selection.Current()
	if !ok {
		return
	}
	if fresh, ok := vm.store.Catalogue().ByID(cur.ID()); ok {
		vm.selection.Select(fresh)
	}
}

func (vm *ViewModel) recompute() {
	c := vm.store.Catalogue()
	results := catalog.Apply(c, vm.criteria)

	elements := vm.serverElements
	if len(elements) == 0 {
		elements = c.Elements()
	}

	status := vm.loadStatus
	if vm.transient != nil {
		status = *vm.transient
	}

	var sel *types.Entry
	if e, ok := vm.selection.Current(); ok {
		sel = &e
	}

	vm.snapshot = Snapshot{
		Catalogue: c,
		Results:   results,
		Criteria:  vm.criteria,
		Selection: sel,
		Status:    status,
		Elements:  slices.Clone(elements),
		Total:     c.Len(),
		Shown:     len(results),
	}
}
