package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	mdx "github.com/alnah/go-mdx"
	"github.com/alnah/go-mdx/internal/config"
	"github.com/alnah/go-mdx/internal/fileutil"
)

// CompileResult holds the outcome of a single compilation.
type CompileResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
	// Messages are the diagnostics plugins reported.
	Messages []mdx.Message
}

// compileBatch processes files concurrently. Workers share the compiler
// and take a printer from pool only for PDF output.
func compileBatch(ctx context.Context, pool Pool, files []FileToCompile, params *compileParams) []CompileResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]CompileResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var prn Printer
			if params.format == config.FormatPDF {
				prn = pool.Acquire()
				defer pool.Release(prn)
			}

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = CompileResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = compileFile(ctx, prn, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// compileFile processes a single file and returns the result.
func compileFile(ctx context.Context, prn Printer, f FileToCompile, params *compileParams) CompileResult {
	start := time.Now()
	result := CompileResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) CompileResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadSource, err))
	}

	compileCtx := ctx
	if params.timeout > 0 {
		var cancel context.CancelFunc
		compileCtx, cancel = context.WithTimeout(ctx, params.timeout)
		defer cancel()
	}

	res, err := params.compiler.Compile(compileCtx, mdx.Input{Source: string(content), Path: f.InputPath})
	if err != nil {
		return fail(err)
	}
	result.Messages = res.File.Messages

	data, err := encodeOutput(ctx, prn, res, f, params)
	if err != nil {
		return fail(err)
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, data); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed compilations.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed compilations.
func countResults(results []CompileResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs compile results and diagnostics, returning the
// number of failures.
func printResults(results []CompileResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		for _, m := range r.Messages {
			fmt.Fprintf(env.Stderr, "warning: %s: %s\n", r.InputPath, m)
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
