package badtl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestChainAll_PreservesOrder(t *testing.T) {
	var inFlight, peak int32

	provider := ProviderFunc(func(ctx context.Context, text, from, to string) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return text + "|" + to, nil
	})

	translator := NewTranslator(provider,
		WithLanguages([]string{"af", "pt"}),
		WithWorkers(4),
	)

	texts := make([]string, 20)
	for i := range texts {
		texts[i] = fmt.Sprintf("line %d", i)
	}

	out, errs := translator.ChainAll(context.Background(), texts)

	for i, text := range texts {
		if errs[i] != nil {
			t.Errorf("text %d: unexpected error %v", i, errs[i])
		}
		if want := text + "|af|pt|en"; out[i] != want {
			t.Errorf("text %d: got %q, want %q", i, out[i], want)
		}
	}

	if atomic.LoadInt32(&peak) < 2 {
		t.Errorf("expected concurrent chains, peak was %d", peak)
	}
}

func TestChainAll_SequentialMatchesParallel(t *testing.T) {
	texts := []string{"a", "b", "c", "d", "e"}

	sequential := NewTranslator(newMockProvider(), WithLanguages([]string{"ja"}))
	parallel := NewTranslator(newMockProvider(), WithLanguages([]string{"ja"}), WithWorkers(3))

	seqOut, _ := sequential.ChainAll(context.Background(), texts)
	parOut, _ := parallel.ChainAll(context.Background(), texts)

	if strings.Join(seqOut, ",") != strings.Join(parOut, ",") {
		t.Errorf("sequential %v differs from parallel %v", seqOut, parOut)
	}
}

func TestChainAll_FailuresAreIsolated(t *testing.T) {
	provider := ProviderFunc(func(ctx context.Context, text, from, to string) (string, error) {
		if text == "bad" {
			return "", errors.New("rejected")
		}
		return strings.ToUpper(text), nil
	})

	translator := NewTranslator(provider, WithLanguages([]string{"fr"}), WithWorkers(2))

	out, errs := translator.ChainAll(context.Background(), []string{"good", "bad", "fine"})

	if out[0] != "GOOD" || out[2] != "FINE" {
		t.Errorf("unexpected output %v", out)
	}
	if out[1] != "bad" {
		t.Errorf("failed text should pass through, got %q", out[1])
	}
	if errs[0] != nil || errs[2] != nil {
		t.Errorf("unexpected errors %v", errs)
	}

	var terr *TranslationError
	if !errors.As(errs[1], &terr) {
		t.Errorf("expected TranslationError, got %v", errs[1])
	}
}

func TestChainAll_Cancelled(t *testing.T) {
	translator := NewTranslator(newMockProvider(), WithWorkers(3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	texts := []string{"one", "two", "three", "four"}
	out, errs := translator.ChainAll(ctx, texts)

	for i := range texts {
		if out[i] != texts[i] {
			t.Errorf("text %d: expected original text, got %q", i, out[i])
		}
		if !errors.Is(errs[i], context.Canceled) {
			t.Errorf("text %d: expected context.Canceled, got %v", i, errs[i])
		}
	}
}

func TestProcess_ParallelWorkers(t *testing.T) {
	provider := newMockProvider()

	translator := NewTranslator(provider,
		WithLanguages([]string{"sw"}),
		WithWorkers(8),
		WithProcessor(&mockLineProcessor{}),
	)

	var input, expected strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&input, "record %d\n", i)
		fmt.Fprintf(&expected, "record %d|sw|en\n", i)
	}

	result, err := translator.ProcessDialogue(context.Background(), input.String())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if result.Content != expected.String() {
		t.Errorf("parallel output out of order:\n%s", result.Content)
	}
	if result.TranslatedHops != 60 {
		t.Errorf("Expected 60 translated hops, got %d", result.TranslatedHops)
	}
}
