package ocr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeRasterizer struct {
	img []byte
	err error
}

func (f fakeRasterizer) RasterizeFirstPage(context.Context, []byte) ([]byte, error) {
	return f.img, f.err
}

type fakeEngine struct {
	frags []string
	err   error
	panic bool

	active    int32
	maxActive int32
}

func (f *fakeEngine) Recognize(context.Context, []byte) ([]string, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		m := atomic.LoadInt32(&f.maxActive)
		if n <= m || atomic.CompareAndSwapInt32(&f.maxActive, m, n) {
			break
		}
	}
	if f.panic {
		panic("model not loaded")
	}
	time.Sleep(time.Millisecond)
	return f.frags, f.err
}

func TestRasterOCR_Extract(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}

	t.Run("joins fragments with newlines", func(t *testing.T) {
		o := NewRasterOCR(fakeRasterizer{img: png}, &fakeEngine{frags: []string{"Item: Widget A", "Quantity: 2", "Unit Cost: 123.45"}}, nil)
		got, err := o.Extract(context.Background(), doc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "Item: Widget A\nQuantity: 2\nUnit Cost: 123.45" {
			t.Fatalf("unexpected text %q", got)
		}
	})

	tests := []struct {
		name  string
		ocr   *RasterOCR
		stage string
		is    error
	}{
		{
			name:  "rasterizer fails",
			ocr:   NewRasterOCR(fakeRasterizer{err: errors.New("pdftoppm missing")}, &fakeEngine{}, nil),
			stage: StageRasterize,
		},
		{
			name:  "no page rendered",
			ocr:   NewRasterOCR(fakeRasterizer{}, &fakeEngine{}, nil),
			stage: StageRasterize,
			is:    ErrNoPage,
		},
		{
			name:  "engine fails",
			ocr:   NewRasterOCR(fakeRasterizer{img: png}, &fakeEngine{err: errors.New("boom")}, nil),
			stage: StageRecognize,
		},
		{
			name:  "engine panics",
			ocr:   NewRasterOCR(fakeRasterizer{img: png}, &fakeEngine{panic: true}, nil),
			stage: StageRecognize,
		},
		{
			name:  "engine missing",
			ocr:   NewRasterOCR(fakeRasterizer{img: png}, nil, nil),
			stage: StageRecognize,
			is:    ErrEngineUnavailable,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.ocr.Extract(context.Background(), doc)
			if got != "" {
				t.Fatalf("expected empty text, got %q", got)
			}
			var ef *ExtractionFailure
			if !errors.As(err, &ef) {
				t.Fatalf("expected *ExtractionFailure, got %v", err)
			}
			if ef.Stage != tc.stage {
				t.Fatalf("expected stage %q, got %q", tc.stage, ef.Stage)
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Fatalf("expected %v in chain, got %v", tc.is, err)
			}
		})
	}
}

func TestRasterOCR_SerialisesEngine(t *testing.T) {
	engine := &fakeEngine{frags: []string{"ok"}}
	o := NewRasterOCR(fakeRasterizer{img: []byte{1}}, engine, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = o.Extract(context.Background(), doc)
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&engine.maxActive); got != 1 {
		t.Fatalf("expected engine calls to be serialised, saw %d concurrent", got)
	}
}
