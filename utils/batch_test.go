package utils

import (
	"context"
	"errors"
	"testing"
)

func TestBatchQuery(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		items  []int
		config *BatchConfig
	}{
		{
			name:   "empty items",
			items:  []int{},
			config: DefaultBatchConfig(),
		},
		{
			name:   "single item",
			items:  []int{1},
			config: DefaultBatchConfig(),
		},
		{
			name:  "multiple items",
			items: []int{1, 2, 3, 4, 5},
			config: &BatchConfig{
				BatchSize:   2,
				Concurrency: 2,
			},
		},
		{
			name:   "nil config uses defaults",
			items:  []int{1, 2, 3},
			config: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := BatchQuery(ctx, tt.items, func(ctx context.Context, item int, index int) (int, error) {
				return item * 2, nil
			}, tt.config)
			if err != nil {
				t.Fatalf("BatchQuery: %v", err)
			}
			if result.Total != len(tt.items) {
				t.Errorf("Total = %d, want %d", result.Total, len(tt.items))
			}
			if result.Success != len(tt.items) || result.Failed != 0 {
				t.Errorf("Success/Failed = %d/%d, want %d/0", result.Success, result.Failed, len(tt.items))
			}
		})
	}
}

func TestBatchQueryPartialFailure(t *testing.T) {
	ctx := context.Background()
	failErr := errors.New("boom")

	result, err := BatchQuery(ctx, []int{1, 2, 3, 4}, func(ctx context.Context, item int, index int) (int, error) {
		if item%2 == 0 {
			return 0, failErr
		}
		return item, nil
	}, &BatchConfig{BatchSize: 2, Concurrency: 2})
	if err != nil {
		t.Fatalf("BatchQuery: %v", err)
	}

	// 单项失败不中断整个批次
	if result.Success != 2 || result.Failed != 2 {
		t.Errorf("Success/Failed = %d/%d, want 2/2", result.Success, result.Failed)
	}
	for _, be := range result.Errors {
		if !errors.Is(be.Error, failErr) {
			t.Errorf("Errors[%d] = %v, want %v", be.Index, be.Error, failErr)
		}
	}
}

func TestBatchQueryProgress(t *testing.T) {
	ctx := context.Background()
	calls := 0

	_, err := BatchQuery(ctx, []int{1, 2, 3, 4, 5}, func(ctx context.Context, item int, index int) (int, error) {
		return item, nil
	}, &BatchConfig{
		BatchSize:   2,
		Concurrency: 2,
		OnProgress: func(progress BatchProgress) {
			calls++
			if progress.Total != 5 {
				t.Errorf("OnProgress: Total = %d, want 5", progress.Total)
			}
		},
	})
	if err != nil {
		t.Fatalf("BatchQuery: %v", err)
	}
	if calls != 5 {
		t.Errorf("progress callback calls = %d, want 5", calls)
	}
}

func TestBatchQueryCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := BatchQuery(ctx, []int{1, 2, 3}, func(ctx context.Context, item int, index int) (int, error) {
		return item, nil
	}, DefaultBatchConfig())
	if err == nil {
		t.Fatal("BatchQuery on cancelled context expected error")
	}
	if result == nil {
		t.Fatal("result should carry partial state even on cancellation")
	}
}

func TestParallelExecute(t *testing.T) {
	ctx := context.Background()

	// 结果顺序与输入一致
	results, err := ParallelExecute(ctx, []int{1, 2, 3, 4, 5}, func(ctx context.Context, item int) (int, error) {
		return item * 10, nil
	}, 3)
	if err != nil {
		t.Fatalf("ParallelExecute: %v", err)
	}
	for i, r := range results {
		if r != (i+1)*10 {
			t.Errorf("results[%d] = %d, want %d", i, r, (i+1)*10)
		}
	}
}

func TestParallelExecuteFailFast(t *testing.T) {
	ctx := context.Background()
	failErr := errors.New("boom")

	_, err := ParallelExecute(ctx, []int{1, 2, 3}, func(ctx context.Context, item int) (int, error) {
		if item == 2 {
			return 0, failErr
		}
		return item, nil
	}, 2)
	if !errors.Is(err, failErr) {
		t.Errorf("ParallelExecute error = %v, want %v", err, failErr)
	}
}

func TestBatchArray(t *testing.T) {
	tests := []struct {
		name      string
		input     []int
		batchSize int
		want      int // 批次数
	}{
		{name: "even split", input: []int{1, 2, 3, 4}, batchSize: 2, want: 2},
		{name: "remainder", input: []int{1, 2, 3, 4, 5}, batchSize: 2, want: 3},
		{name: "oversized batch", input: []int{1, 2}, batchSize: 10, want: 1},
		{name: "zero batch size", input: []int{1, 2, 3}, batchSize: 0, want: 1},
		{name: "empty input", input: []int{}, batchSize: 2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batches := BatchArray(tt.input, tt.batchSize)
			if tt.name == "zero batch size" {
				// 非法批量大小退化为单批
				if len(batches) != 1 {
					t.Errorf("batches = %d, want 1", len(batches))
				}
				return
			}
			if len(batches) != tt.want {
				t.Errorf("batches = %d, want %d", len(batches), tt.want)
			}
			total := 0
			for _, b := range batches {
				total += len(b)
			}
			if total != len(tt.input) {
				t.Errorf("total elements = %d, want %d", total, len(tt.input))
			}
		})
	}
}
