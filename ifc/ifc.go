package ifc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/binzume/ifcconv/scene"
	"github.com/binzume/ifcconv/step"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const DefaultCircleSegments = 16

type ImportOption struct {
	CircleSegments       int
	EarClipCaps          bool
	ApplyObjectPlacement bool
	BodyOnly             bool
	Factory              scene.Factory
}

func DefaultImportOption() *ImportOption {
	return &ImportOption{
		CircleSegments:       DefaultCircleSegments,
		ApplyObjectPlacement: true,
		BodyOnly:             true,
	}
}

type Importer struct {
	options *ImportOption
}

func NewImporter(options *ImportOption) *Importer {
	if options == nil {
		options = DefaultImportOption()
	}
	return &Importer{options: options}
}

// Import parses text and builds the spatial tree.
func (im *Importer) Import(text string) scene.Node {
	return im.ImportDocument(step.Parse(text))
}

func (im *Importer) ImportDocument(doc *step.Document) scene.Node {
	return newBuilder(doc, im.options).build(doc.Entities)
}

// Import parses text with the default options.
func Import(text string) scene.Node {
	return NewImporter(nil).Import(text)
}

// Decode reads a whole file. Input that is not valid UTF-8 is read as
// ISO 8859-1.
func Decode(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if utf8.Valid(b) {
		return string(b), nil
	}
	latin1, err := io.ReadAll(transform.NewReader(bytes.NewReader(b), charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(latin1), nil
}

// Load reads and parses a file.
func Load(path string) (*step.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	text, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return step.Parse(text), nil
}

type ExportOption struct {
	Schema       string
	Author       string
	Organization string
	SiteName     string
	BuildingName string
	StoreyName   string // root node name if empty

	Now func() time.Time
}

func DefaultExportOption() *ExportOption {
	return &ExportOption{
		Schema:       "IFC4",
		SiteName:     "Site",
		BuildingName: "Building",
	}
}

type Exporter struct {
	options *ExportOption
}

func NewExporter(options *ExportOption) *Exporter {
	if options == nil {
		options = DefaultExportOption()
	}
	return &Exporter{options: options}
}

// Export serializes the tree. Each call allocates ids from 1.
func (ex *Exporter) Export(root scene.Node, name string) string {
	w := &writer{options: ex.options}
	return w.write(root, name)
}

func (ex *Exporter) Encode(w io.Writer, root scene.Node, name string) error {
	_, err := io.WriteString(w, ex.Export(root, name))
	return err
}

func (ex *Exporter) Save(path string, root scene.Node, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ex.Encode(f, root, name); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Export serializes the tree with the default options.
func Export(root scene.Node, name string) string {
	return NewExporter(nil).Export(root, name)
}
