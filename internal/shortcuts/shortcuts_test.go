package shortcuts

import (
	"errors"
	"testing"
)

func recorder() (*[]string, func(string)) {
	var got []string
	return &got, func(command string) { got = append(got, command) }
}

func TestDefaultBindingsHaveNoConflicts(t *testing.T) {
	_, emit := recorder()
	if _, err := NewRegistry(DefaultBindings(emit)); err != nil {
		t.Fatalf("default table rejected: %v", err)
	}
}

func TestNewRegistryRejectsConflicts(t *testing.T) {
	_, err := NewRegistry([]Binding{
		{Key: "k", Command: "a", Description: "first"},
		{Key: "K", Command: "b", Description: "second"},
	})
	if !errors.Is(err, ErrChordConflict) {
		t.Fatalf("expected ErrChordConflict, got %v", err)
	}

	if _, err := NewRegistry([]Binding{
		{Key: "k", Command: "a"},
		{Key: "k", Ctrl: true, Command: "b"},
	}); err != nil {
		t.Errorf("different modifiers should not conflict: %v", err)
	}
}

func TestDispatchMatchesExactChord(t *testing.T) {
	got, emit := recorder()
	registry, err := NewRegistry(DefaultBindings(emit))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		event   KeyEvent
		handled bool
	}{
		{"ctrl+e", KeyEvent{Key: "e", Ctrl: true}, true},
		{"ctrl+shift+E", KeyEvent{Key: "E", Ctrl: true, Shift: true}, true},
		{"meta acts as ctrl", KeyEvent{Key: "s", Meta: true}, true},
		{"missing modifier", KeyEvent{Key: "e"}, false},
		{"extra modifier", KeyEvent{Key: "s", Ctrl: true, Alt: true}, false},
		{"unbound", KeyEvent{Key: "q", Ctrl: true}, false},
		{"escape", KeyEvent{Key: "Escape"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if handled := registry.Dispatch(tt.event); handled != tt.handled {
				t.Errorf("Dispatch = %v, want %v", handled, tt.handled)
			}
		})
	}

	want := []string{CommandExport, CommandExportJSON, CommandSaveHistory, CommandCloseDialog}
	if len(*got) != len(want) {
		t.Fatalf("commands = %v, want %v", *got, want)
	}
	for i := range want {
		if (*got)[i] != want[i] {
			t.Errorf("command[%d] = %s, want %s", i, (*got)[i], want[i])
		}
	}
}

func TestDispatchIgnoresTextFields(t *testing.T) {
	got, emit := recorder()
	registry, _ := NewRegistry(DefaultBindings(emit))

	for _, e := range []KeyEvent{
		{Key: "s", Ctrl: true, Target: "INPUT"},
		{Key: "s", Ctrl: true, Target: "textarea"},
		{Key: "s", Ctrl: true, Target: "select"},
		{Key: "s", Ctrl: true, Target: "div", ContentEditable: true},
	} {
		if registry.Dispatch(e) {
			t.Errorf("event in %s was dispatched", e.Target)
		}
	}
	if len(*got) != 0 {
		t.Errorf("actions ran: %v", *got)
	}
}

func TestDispatchDisabled(t *testing.T) {
	got, emit := recorder()
	registry, _ := NewRegistry(DefaultBindings(emit))

	registry.SetEnabled(false)
	if registry.Dispatch(KeyEvent{Key: "e", Ctrl: true}) || len(*got) != 0 {
		t.Error("disabled registry dispatched")
	}

	registry.SetEnabled(true)
	if !registry.Dispatch(KeyEvent{Key: "e", Ctrl: true}) {
		t.Error("re-enabled registry did not dispatch")
	}
}
