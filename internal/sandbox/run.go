package sandbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/dop251/goja"
	"github.com/dop251/goja/ast"

	"github.com/alnah/go-mdx/internal/mdxerr"
)

// run compiles prog in strict mode and runs it, interrupting the runtime
// when ctx is done.
func (s *Session) run(ctx context.Context, prog *ast.Program) (goja.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", mdxerr.ErrEvaluation, err)
	}

	compiled, err := compile(prog)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mdxerr.ErrEvaluation, err)
	}

	release := s.watch(ctx)
	v, err := s.rt.RunProgram(compiled)
	release()

	if err != nil {
		return nil, evaluationError(ctx, err)
	}
	return v, nil
}

// Guard runs fn under the same interruption and error handling as
// Evaluate. Reading properties of an evaluated value can call back into
// document code through getters and proxy traps, so conversions of such
// values run inside Guard.
func (s *Session) Guard(ctx context.Context, fn func()) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", mdxerr.ErrEvaluation, err)
	}

	release := s.watch(ctx)
	defer release()
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*goja.InterruptedError)
			if !ok {
				panic(r)
			}
			err = evaluationError(ctx, ie)
		}
	}()

	if ex := s.rt.Try(fn); ex != nil {
		return evaluationError(ctx, ex)
	}
	return nil
}

// watch interrupts the runtime when ctx is done. The returned func stops
// watching and clears a pending interrupt.
func (s *Session) watch(ctx context.Context) func() {
	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		s.rt.Interrupt(ctx.Err())
		close(interrupted)
	})
	return func() {
		if !stop() {
			<-interrupted
			s.rt.ClearInterrupt()
		}
	}
}

func evaluationError(ctx context.Context, err error) error {
	var ie *goja.InterruptedError
	if errors.As(err, &ie) && ctx.Err() != nil {
		return fmt.Errorf("%w: %w", mdxerr.ErrEvaluation, ctx.Err())
	}
	return fmt.Errorf("%w: %v", mdxerr.ErrEvaluation, err)
}

// compile turns compiler panics on malformed trees into errors.
func compile(prog *ast.Program) (p *goja.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compiling program: %v", r)
		}
	}()
	return goja.CompileAST(prog, true)
}
