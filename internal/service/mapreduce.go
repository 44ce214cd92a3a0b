package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/katakuxiko/promptforms/internal/forms"
	"github.com/katakuxiko/promptforms/internal/gate"
	"github.com/katakuxiko/promptforms/pkg/logging"
	"golang.org/x/sync/errgroup"
)

// mapReduce summarizes every chunk, then summarizes the chunk summaries
// joined in chunk order.
func (r *Runner) mapReduce(ctx context.Context, log *logging.Logger, f *forms.Form, text string, cred *gate.Credential) (string, int, error) {
	ch := f.Chunking
	chunks := ch.Splitter.Split(text)
	r.metrics.ObserveChunks(f.ID, len(chunks))
	log.Info("input split", "chunks", len(chunks), "chunk_size", ch.Splitter.Size(), "overlap", ch.Splitter.Overlap())

	summaries := make([]string, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.MapConcurrency)
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			instruction, err := ch.Map.Fill(map[string]string{"text": c.Text})
			if err != nil {
				return fmt.Errorf("fill map template: %w", err)
			}
			out, err := r.call(gctx, log, f, "map", instruction, cred)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			summaries[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", len(chunks), err
	}

	instruction, err := ch.Combine.Fill(map[string]string{"text": strings.Join(summaries, "\n\n")})
	if err != nil {
		return "", len(chunks), fmt.Errorf("fill combine template: %w", err)
	}
	out, err := r.call(ctx, log, f, "reduce", instruction, cred)
	if err != nil {
		return "", len(chunks), err
	}
	return out, len(chunks), nil
}
