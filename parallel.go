package badtl

import (
	"context"
	"sync"
)

// chainResult is the outcome of chaining one node.
type chainResult struct {
	text  string
	stats chainStats
	err   error
	done  bool
}

// runChains chains every node and returns results indexed like nodes. With
// more than one worker the chains run concurrently; chunks have no
// dependency on each other once split. Nodes not started before ctx is done
// are left with done unset.
func (t *Translator) runChains(ctx context.Context, nodes []TextNode) []chainResult {
	results := make([]chainResult, len(nodes))

	run := func(i int) {
		text, stats, err := t.chain(ctx, nodes[i].Text, chunkIndex(nodes[i]))
		results[i] = chainResult{text: text, stats: stats, err: err, done: true}
	}

	workers := t.workers
	if workers > len(nodes) {
		workers = len(nodes)
	}

	if workers <= 1 {
		for i := range nodes {
			if ctx.Err() != nil {
				break
			}
			run(i)
		}
		return results
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				run(i)
			}
		}()
	}

feed:
	for i := range nodes {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// ChainAll runs texts through the hop chain, using the configured number of
// workers. Failed texts are returned untranslated with their error set.
func (t *Translator) ChainAll(ctx context.Context, texts []string) ([]string, []error) {
	nodes := make([]TextNode, len(texts))
	for i, text := range texts {
		nodes[i] = TextNode{Text: text}
	}

	results := t.runChains(ctx, nodes)

	out := make([]string, len(texts))
	errs := make([]error, len(texts))
	for i, r := range results {
		if !r.done {
			out[i] = texts[i]
			errs[i] = ctx.Err()
			continue
		}
		out[i] = r.text
		errs[i] = r.err
	}
	return out, errs
}
