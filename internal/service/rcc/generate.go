package rcc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"go/format"
	"text/template"
)

// RegistryFilename is the generated module registering the resource collection.
const RegistryFilename = "resources.go"

// generatedHeader marks every emitted module as machine-written.
const generatedHeader = "// Code generated by netdiag-rcc. DO NOT EDIT.\n\n"

// windowTemplate renders one generated module per UI definition.
var windowTemplate = template.Must(template.New("window").Parse(generatedHeader +
	`package {{.Package}}

// {{.Symbol}} describes the {{printf "%q" .Def.Window}} top-level window.
var {{.Symbol}} = Window{
	Name:   {{printf "%q" .Def.Window}},
	Title:  {{printf "%q" .Def.Title}},
	Width:  {{.Def.Width}},
	Height: {{.Def.Height}},
{{- if .Def.Widgets}}
	Widgets: {{template "widgets" .Def.Widgets}},
{{- end}}
}
{{- define "widgets" -}}
[]Widget{ {{range .}}{Name: {{printf "%q" .Name}}, Type: {{printf "%q" .Type}}{{if .Label}}, Label: {{printf "%q" .Label}}{{end}}{{if .Children}}, Children: {{template "widgets" .Children}}{{end}}},{{end}} }
{{- end -}}
`))

// registryTemplate renders the module embedding the resource collection and
// declaring the descriptor types the window modules refer to.
var registryTemplate = template.Must(template.New("registry").Parse(generatedHeader +
	`package {{.Package}}

import (
	"encoding/base64"
	"fmt"
	"sort"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Window describes a top-level window compiled from its UI definition.
type Window struct {
	Name    string
	Title   string
	Width   int
	Height  int
	Widgets []Widget
}

// Widget is a single node of a compiled widget tree.
type Widget struct {
	Name     string
	Type     string
	Label    string
	Children []Widget
}

// resources maps registry paths to zstd-compressed, base64-encoded payloads.
var resources = map[string]string{
{{- range .Resources}}
	{{printf "%q" .Key}}: {{printf "%q" .Encoded}},
{{- end}}
}

var (
	decoderOnce sync.Once
	decoder     *zstd.Decoder
	decoderErr  error
)

// Resource returns the payload registered under the given registry path.
func Resource(name string) ([]byte, error) {
	blob, ok := resources[name]
	if !ok {
		return nil, fmt.Errorf("resource %q is not registered", name)
	}

	decoderOnce.Do(func() {
		decoder, decoderErr = zstd.NewReader(nil)
	})

	if decoderErr != nil {
		return nil, decoderErr
	}

	compressed, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("decode resource %q: %w", name, err)
	}

	return decoder.DecodeAll(compressed, nil)
}

// ResourceNames returns all registry paths in sorted order.
func ResourceNames() []string {
	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
`))

// windowModuleFilename returns the output file name for a window definition.
func windowModuleFilename(def *WindowDef) string {
	return "ui_" + def.Window + ".go"
}

// renderWindowModule produces gofmt-ed source for one window definition.
func renderWindowModule(pkg string, def *WindowDef) ([]byte, error) {
	var buf bytes.Buffer

	data := struct {
		Package string
		Symbol  string
		Def     *WindowDef
	}{
		Package: pkg,
		Symbol:  def.ExportedName(),
		Def:     def,
	}

	if err := windowTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render window %s: %w", def.Window, err)
	}

	source, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format window %s: %w", def.Window, err)
	}

	return source, nil
}

// renderRegistryModule produces gofmt-ed source for the resource registry.
func renderRegistryModule(pkg string, resources []resource) ([]byte, error) {
	type encodedResource struct {
		Key     string
		Encoded string
	}

	encoded := make([]encodedResource, 0, len(resources))
	for _, r := range resources {
		encoded = append(encoded, encodedResource{
			Key:     r.Key,
			Encoded: base64.StdEncoding.EncodeToString(r.Payload),
		})
	}

	var buf bytes.Buffer

	data := struct {
		Package   string
		Resources []encodedResource
	}{
		Package:   pkg,
		Resources: encoded,
	}

	if err := registryTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render resource registry: %w", err)
	}

	source, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format resource registry: %w", err)
	}

	return source, nil
}
