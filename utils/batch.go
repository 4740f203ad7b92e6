package utils

import (
	"context"
	"fmt"
	"sync"
)

// BatchConfig 批量操作配置
type BatchConfig struct {
	// BatchSize 批量大小
	BatchSize int
	// Concurrency 并发数量
	Concurrency int
	// OnProgress 进度回调函数
	OnProgress func(progress BatchProgress)
}

// BatchProgress 批量操作进度
type BatchProgress struct {
	// Completed 已完成数量
	Completed int
	// Total 总数量
	Total int
	// Success 成功数量
	Success int
	// Failed 失败数量
	Failed int
}

// DefaultBatchConfig 返回默认批量配置
func DefaultBatchConfig() *BatchConfig {
	return &BatchConfig{
		BatchSize:   50,
		Concurrency: 5,
	}
}

// BatchError 批量操作错误
type BatchError struct {
	// Index 项目索引
	Index int
	// Error 错误信息
	Error error
}

// BatchQueryResult 批量查询结果
type BatchQueryResult[T any] struct {
	// Results 成功的结果
	Results []T
	// Errors 失败的项目
	Errors []BatchError
	// Total 总数量
	Total int
	// Success 成功数量
	Success int
	// Failed 失败数量
	Failed int
}

// BatchQuery 批量查询
//
// 对一组输入分批并发调用查询函数，收集成功与失败的结果。
// 单项失败不会中断整个批次。
func BatchQuery[T any, R any](
	ctx context.Context,
	items []T,
	queryFn func(ctx context.Context, item T, index int) (R, error),
	config *BatchConfig,
) (*BatchQueryResult[R], error) {
	if config == nil {
		config = DefaultBatchConfig()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 5
	}

	result := &BatchQueryResult[R]{Total: len(items)}
	completed := 0
	var mu sync.Mutex

	record := func(idx int, r R, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			result.Errors = append(result.Errors, BatchError{Index: idx, Error: err})
			result.Failed++
		} else {
			result.Results = append(result.Results, r)
			result.Success++
		}
		completed++
		if config.OnProgress != nil {
			config.OnProgress(BatchProgress{
				Completed: completed,
				Total:     len(items),
				Success:   result.Success,
				Failed:    result.Failed,
			})
		}
	}

	// 分批处理，批内并发受信号量限制
	for start := 0; start < len(items); start += config.BatchSize {
		end := start + config.BatchSize
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		sem := make(chan struct{}, config.Concurrency)
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int, item T) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				if err := ctx.Err(); err != nil {
					var zero R
					record(idx, zero, err)
					return
				}
				r, err := queryFn(ctx, item, idx)
				record(idx, r, err)
			}(i, items[i])
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return result, err
		}
	}

	return result, nil
}

// ParallelExecute 并行执行多个操作
//
// 对一组输入并发执行操作函数，限制并发数量。结果顺序与输入一致；
// 任何一项失败整体返回错误。
func ParallelExecute[T any, R any](
	ctx context.Context,
	items []T,
	executeFn func(ctx context.Context, item T) (R, error),
	concurrency int,
) ([]R, error) {
	if concurrency <= 0 {
		concurrency = 5
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for i, item := range items {
		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = executeFn(ctx, it)
		}(i, item)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("parallel execute failed: %w", err)
		}
	}
	return results, nil
}

// BatchArray 将数组按固定大小分批
func BatchArray[T any](array []T, batchSize int) [][]T {
	if batchSize <= 0 {
		return [][]T{array}
	}
	batches := make([][]T, 0, (len(array)+batchSize-1)/batchSize)
	for i := 0; i < len(array); i += batchSize {
		end := i + batchSize
		if end > len(array) {
			end = len(array)
		}
		batches = append(batches, array[i:end])
	}
	return batches
}
