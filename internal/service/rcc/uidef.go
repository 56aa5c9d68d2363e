package rcc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// UIDefinitionSuffix marks window-definition files inside the UI directory,
// one file per top-level window.
const UIDefinitionSuffix = ".ui.yaml"

// windowNameRegex validates window identifiers used in generated symbol names.
var windowNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var (
	errWindowNameRequired = errors.New("window name must be provided")
	errWindowNameInvalid  = errors.New("window name must be a lowercase identifier")
	errWindowTitleEmpty   = errors.New("window title must be provided")
	errWidgetNameEmpty    = errors.New("widget name must be provided")
	errWidgetTypeEmpty    = errors.New("widget type must be provided")
)

const (
	defaultWindowWidth  = 800
	defaultWindowHeight = 600
)

// WindowDef is a declarative top-level window description.
type WindowDef struct {
	// Window is the identifier the generated symbol name derives from.
	Window string `yaml:"window"`
	// Title is the window caption.
	Title string `yaml:"title"`
	// Width is the initial window width in pixels.
	Width int `yaml:"width"`
	// Height is the initial window height in pixels.
	Height int `yaml:"height"`
	// Widgets is the widget tree of the window.
	Widgets []WidgetDef `yaml:"widgets"`
}

// WidgetDef is a single node of a window's widget tree.
type WidgetDef struct {
	Name     string      `yaml:"name"`
	Type     string      `yaml:"type"`
	Label    string      `yaml:"label"`
	Children []WidgetDef `yaml:"children"`
}

// loadWindowDef parses and validates one UI-definition file.
func loadWindowDef(path string) (*WindowDef, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read UI definition: %w", err)
	}

	var def WindowDef
	if err := yaml.Unmarshal(contents, &def); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}

	if err := def.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &def, nil
}

// validate checks required fields and fills geometry defaults.
func (d *WindowDef) validate() error {
	if d.Window == "" {
		return errWindowNameRequired
	}

	if !windowNameRegex.MatchString(d.Window) {
		return fmt.Errorf("%q: %w", d.Window, errWindowNameInvalid)
	}

	if d.Title == "" {
		return errWindowTitleEmpty
	}

	if d.Width <= 0 {
		d.Width = defaultWindowWidth
	}

	if d.Height <= 0 {
		d.Height = defaultWindowHeight
	}

	return validateWidgets(d.Widgets)
}

func validateWidgets(widgets []WidgetDef) error {
	for i := range widgets {
		w := &widgets[i]

		if w.Name == "" {
			return errWidgetNameEmpty
		}

		if w.Type == "" {
			return fmt.Errorf("widget %q: %w", w.Name, errWidgetTypeEmpty)
		}

		if err := validateWidgets(w.Children); err != nil {
			return fmt.Errorf("widget %q: %w", w.Name, err)
		}
	}

	return nil
}

// ExportedName converts the window identifier into the generated symbol name:
// "history" becomes HistoryWindow. A trailing "_window" segment is trimmed
// first, so "main_window" becomes MainWindow rather than MainWindowWindow.
func (d *WindowDef) ExportedName() string {
	name := strings.TrimSuffix(d.Window, "_window")

	parts := strings.Split(name, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}

		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}

	return strings.Join(parts, "") + "Window"
}
