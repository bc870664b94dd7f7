package mdx

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/alnah/go-mdx/internal/build"
	"github.com/alnah/go-mdx/internal/hast"
	"github.com/alnah/go-mdx/internal/markup"
	"github.com/alnah/go-mdx/internal/matter"
	"github.com/alnah/go-mdx/internal/program"
	"github.com/alnah/go-mdx/internal/sandbox"
)

// Compiler turns MDX documents into element trees. Create with
// NewCompiler. A Compiler is safe for concurrent use.
type Compiler struct {
	cfg    compilerConfig
	parser *markup.Parser
}

// NewCompiler creates a Compiler. Returns an error for a nil plugin.
func NewCompiler(opts ...Option) (*Compiler, error) {
	var cfg compilerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	for i, p := range cfg.markupPlugins {
		if p == nil {
			return nil, fmt.Errorf("%w: markup plugin %d is nil", ErrInputValidation, i)
		}
	}
	for i, p := range cfg.treePlugins {
		if p == nil {
			return nil, fmt.Errorf("%w: tree plugin %d is nil", ErrInputValidation, i)
		}
	}
	return &Compiler{
		cfg:    cfg,
		parser: markup.New(cfg.markupPlugins, cfg.hypertext),
	}, nil
}

// Compile is a shortcut for NewCompiler followed by Compile.
func Compile(ctx context.Context, source string, opts ...Option) (*Result, error) {
	c, err := NewCompiler(opts...)
	if err != nil {
		return nil, err
	}
	return c.Compile(ctx, Input{Source: source})
}

// Compile runs the pipeline on one document. Either the whole document
// compiles or an error is returned with a nil result. Cancelling ctx
// interrupts running document code.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Compiler) Compile(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	fm, err := matter.Extract(input.Source)
	if err != nil {
		return nil, withPath(input.Path, err)
	}
	body := fm.Masked(input.Source)

	root, headings, err := c.parser.Parse(input.Path, []byte(body))
	if err != nil {
		return nil, withPath(input.Path, err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	file := hast.NewFile(input.Path, input.Source)
	for _, p := range c.cfg.treePlugins {
		if err := p.Transform(root, file); err != nil {
			return nil, withPath(input.Path, fmt.Errorf("%s: %w", p.Name(), err))
		}
	}

	session, err := c.newSession(ctx, input.Path, body, fm.Data)
	if err != nil {
		return nil, withPath(input.Path, err)
	}

	tree, out, err := build.New(session).Build(ctx, root, headings)
	if err != nil {
		return nil, withPath(input.Path, err)
	}

	return &Result{
		File:           file,
		Tree:           tree,
		Frontmatter:    fm.Data,
		HasFrontmatter: fm.Found,
		Headings:       out,
	}, nil
}

// newSession creates the runtime of one compile and binds the
// frontmatter before any document code runs.
func (c *Compiler) newSession(ctx context.Context, path, body string, frontmatter any) (*sandbox.Session, error) {
	opts := []sandbox.Option{sandbox.WithSource(path, body)}
	if c.cfg.direct {
		opts = append(opts, sandbox.WithDirectEvaluation())
	}
	modules := sandbox.Modules{
		sandbox.FrontmatterModule: {sandbox.FrontmatterBinding: frontmatter},
	}
	session, err := sandbox.New(modules, opts...)
	if err != nil {
		return nil, err
	}

	imp, err := program.Import("", []string{sandbox.FrontmatterBinding}, sandbox.FrontmatterModule)
	if err != nil {
		return nil, err
	}
	if err := session.RunModule(ctx, imp); err != nil {
		return nil, fmt.Errorf("binding frontmatter: %w", err)
	}
	return session, nil
}

// validateInput checks the document before any stage runs.
func validateInput(input Input) error {
	if !utf8.ValidString(input.Source) {
		return fmt.Errorf("%w: source is not valid UTF-8", ErrInputValidation)
	}
	return nil
}

// withPath prefixes err with the document path unless a stage already
// did.
func withPath(path string, err error) error {
	if path == "" || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}
