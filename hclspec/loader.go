package hclspec

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/blueprintgo/codec"
	"github.com/vk/blueprintgo/config"
	"github.com/vk/blueprintgo/internal/ctxlog"
)

// Loader parses HCL blueprint files into config trees.
type Loader struct{}

// NewLoader creates a new blueprint loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a single blueprint file.
func (l *Loader) Load(ctx context.Context, path string) (config.Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blueprint: %w", err)
	}
	cfg, err := l.Parse(ctx, src, path)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Loaded blueprint file.", "path", path, "target", cfg.Target())
	return cfg, nil
}

// LoadDir discovers every .hcl file under root (recursively) and parses
// each one. The result maps the file path to its config tree.
func (l *Loader) LoadDir(ctx context.Context, root string) (map[string]config.Config, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover blueprints: %w", err)
	}

	configs := make(map[string]config.Config, len(paths))
	for _, path := range paths {
		cfg, err := l.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		configs[path] = cfg
	}
	ctxlog.FromContext(ctx).Debug("Loaded blueprint directory.", "root", root, "count", len(configs))
	return configs, nil
}

// Parse parses blueprint source. The filename is used in diagnostics only.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (config.Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("parse %s: expected native HCL syntax", filename)
	}
	if len(body.Attributes) > 0 {
		return nil, fmt.Errorf("parse %s: top-level attributes are not allowed", filename)
	}
	if len(body.Blocks) != 1 {
		return nil, fmt.Errorf("parse %s: expected exactly one root component block, found %d blocks", filename, len(body.Blocks))
	}
	root := body.Blocks[0]
	if root.Type != "component" || len(root.Labels) != 1 {
		return nil, fmt.Errorf("%s: root block must be component %q", root.DefRange(), "<target>")
	}
	return l.decodeComponent(ctx, root.Body, root.Labels[0])
}

// decodeComponent turns a component block body into a frozen node.
func (l *Loader) decodeComponent(ctx context.Context, body *hclsyntax.Body, target string) (*config.Node, error) {
	n := config.NewNode(target)

	for _, attr := range sortedAttributes(body) {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("field %q: %w", attr.Name, diags)
		}
		native, err := codec.NativeValue(val)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", attr.Name, err)
		}
		if err := n.Set(attr.Name, native); err != nil {
			return nil, err
		}
	}

	for _, block := range body.Blocks {
		field, child, err := l.decodeFieldBlock(ctx, block)
		if err != nil {
			return nil, err
		}
		if err := n.Set(field, child); err != nil {
			return nil, err
		}
	}

	n.Freeze(true)
	return n, nil
}

// decodeFieldBlock decodes one nested block into a field name and its
// config value.
func (l *Loader) decodeFieldBlock(ctx context.Context, block *hclsyntax.Block) (string, config.Config, error) {
	switch block.Type {
	case "component":
		if len(block.Labels) != 2 {
			return "", nil, fmt.Errorf("%s: nested component block needs labels %q %q", block.DefRange(), "<field>", "<target>")
		}
		child, err := l.decodeComponent(ctx, block.Body, block.Labels[1])
		if err != nil {
			return "", nil, err
		}
		return block.Labels[0], child, nil

	case "list":
		if len(block.Labels) != 1 {
			return "", nil, fmt.Errorf("%s: list block needs label %q", block.DefRange(), "<field>")
		}
		if len(block.Body.Attributes) > 0 {
			return "", nil, fmt.Errorf("%s: list blocks hold component blocks only", block.DefRange())
		}
		elems := make([]config.Config, 0, len(block.Body.Blocks))
		for _, elem := range block.Body.Blocks {
			if elem.Type != "component" || len(elem.Labels) != 1 {
				return "", nil, fmt.Errorf("%s: list elements must be component %q blocks", elem.DefRange(), "<target>")
			}
			child, err := l.decodeComponent(ctx, elem.Body, elem.Labels[0])
			if err != nil {
				return "", nil, err
			}
			elems = append(elems, child)
		}
		lst, err := config.NewList(elems...)
		if err != nil {
			return "", nil, err
		}
		return block.Labels[0], lst, nil

	case "map":
		if len(block.Labels) != 1 {
			return "", nil, fmt.Errorf("%s: map block needs label %q", block.DefRange(), "<field>")
		}
		if len(block.Body.Attributes) > 0 {
			return "", nil, fmt.Errorf("%s: map blocks hold component blocks only", block.DefRange())
		}
		elems := make(map[string]config.Config, len(block.Body.Blocks))
		for _, elem := range block.Body.Blocks {
			if elem.Type != "component" || len(elem.Labels) != 2 {
				return "", nil, fmt.Errorf("%s: map elements must be component %q %q blocks", elem.DefRange(), "<key>", "<target>")
			}
			if _, dup := elems[elem.Labels[0]]; dup {
				return "", nil, fmt.Errorf("%s: duplicate map key %q", elem.DefRange(), elem.Labels[0])
			}
			child, err := l.decodeComponent(ctx, elem.Body, elem.Labels[1])
			if err != nil {
				return "", nil, err
			}
			elems[elem.Labels[0]] = child
		}
		m, err := config.NewMap(elems)
		if err != nil {
			return "", nil, err
		}
		return block.Labels[0], m, nil
	}
	return "", nil, fmt.Errorf("%s: unsupported block type %q", block.DefRange(), block.Type)
}

// sortedAttributes returns a body's attributes in source order. The
// hclsyntax attribute table is a map, so order must be recovered from the
// source ranges.
func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}
