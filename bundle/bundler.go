package bundle

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/rsbundle/depgraph"
	"github.com/LegacyCodeHQ/rsbundle/depgraph/languages/rust"
	"github.com/LegacyCodeHQ/rsbundle/layout"
	"github.com/LegacyCodeHQ/rsbundle/vcs"
	"github.com/charmbracelet/log"
)

// Options tune a bundling run.
type Options struct {
	// Layout selects how module bodies are laid out inside their blocks.
	Layout rust.BlockLayout
	// Strict validates every transitive dependency before reading it.
	Strict bool
	// DryRun computes the result without touching the entry file.
	DryRun bool
}

// Result describes what a run found and did.
type Result struct {
	Entry    layout.ModulePath
	Embedded []string
	Required depgraph.Closure
	// Appended lists the modules written to the entry file, in write order.
	Appended []string
	// Skipped lists required modules that were already embedded.
	Skipped []string
}

// Bundler inlines the modules an entry file needs into that entry file.
type Bundler struct {
	layout        layout.Layout
	contentReader vcs.ContentReader
	logger        *log.Logger
	opts          Options
}

func New(l layout.Layout, contentReader vcs.ContentReader, logger *log.Logger, opts Options) *Bundler {
	if contentReader == nil {
		contentReader = vcs.FilesystemContentReader()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bundler{
		layout:        l,
		contentReader: contentReader,
		logger:        logger,
		opts:          opts,
	}
}

// DiscoverEmbedded returns the modules the entry file already carries as
// inline blocks.
func (b *Bundler) DiscoverEmbedded(entry layout.ModulePath) (map[string]bool, error) {
	return document{path: entry}.embeddedModules(b.layout)
}

// Closure returns every module reachable from seeds.
func (b *Bundler) Closure(seeds []layout.ModulePath) (depgraph.Closure, error) {
	paths := make([]string, 0, len(seeds))
	for _, seed := range seeds {
		paths = append(paths, seed.String())
	}
	resolver := depgraph.NewRustReferenceResolver(b.layout, b.contentReader, b.opts.Strict)
	return depgraph.ResolveClosure(paths, resolver)
}

// Render returns the bytes to append for the required modules missing from
// embedded, and the modules they contain. Nothing is rendered when every
// required module is already embedded.
func (b *Bundler) Render(required depgraph.Closure, embedded map[string]bool) ([]byte, []string, []string, error) {
	var buf bytes.Buffer
	var appended, skipped []string

	for _, modulePath := range required.Modules() {
		if embedded[modulePath] {
			skipped = append(skipped, modulePath)
			b.logger.Debug("module already embedded", "module", b.layout.Display(modulePath))
			continue
		}

		content, err := b.contentReader(modulePath)
		if err != nil {
			return nil, nil, nil, err
		}

		if len(appended) == 0 {
			buf.WriteString("\n")
		}
		name := layout.ModulePath(modulePath).Name()
		if err := rust.RenderBlock(&buf, name, content, b.opts.Layout); err != nil {
			return nil, nil, nil, err
		}
		appended = append(appended, modulePath)
		b.logger.Debug("module inlined", "module", b.layout.Display(modulePath))
	}

	return buf.Bytes(), appended, skipped, nil
}

// Run discovers the embedded modules, resolves the closure of seeds, and
// appends every missing module to entry. Module content is read and
// rendered before the entry file is written.
func (b *Bundler) Run(ctx context.Context, entry layout.ModulePath, seeds []layout.ModulePath) (Result, error) {
	result := Result{Entry: entry}

	embedded, err := b.DiscoverEmbedded(entry)
	if err != nil {
		return result, err
	}
	result.Embedded = sortedKeys(embedded)
	b.logger.Debug("scanned entry file", "entry", b.layout.Display(entry.String()), "embedded", len(embedded))

	if err := ctx.Err(); err != nil {
		return result, err
	}

	required, err := b.Closure(seeds)
	if err != nil {
		return result, fmt.Errorf("failed to resolve module dependencies: %w", err)
	}
	result.Required = required
	b.logger.Debug("resolved dependencies", "seeds", len(seeds), "required", required.Len())

	suffix, appended, skipped, err := b.Render(required, embedded)
	if err != nil {
		return result, fmt.Errorf("failed to render modules: %w", err)
	}
	result.Appended = appended
	result.Skipped = skipped

	if len(suffix) == 0 || b.opts.DryRun {
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if err := (document{path: entry}).appendBytes(suffix); err != nil {
		return result, err
	}
	b.logger.Debug("wrote entry file", "entry", b.layout.Display(entry.String()), "appended", len(appended))
	return result, nil
}
