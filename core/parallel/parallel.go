// Package parallel は読み取り専用の行単位処理をCPUコア数に応じて分割実行する。
// 分割された各範囲は互いに独立でなければならない。
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize は items 個の要素を最大 runtime.NumCPU() 個の連続範囲に分割し、
// 各範囲 [start, end) に対して fn を並列に呼び出す。全ての呼び出しが終わるまで戻らない。
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	workers := runtime.NumCPU()
	if workers > items {
		workers = items
	}
	chunk := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunk {
		end := min(start+chunk, items)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold は items が threshold を超える場合のみ並列化する。
// それ以下では呼び出し元のゴルーチンで fn(0, items) を実行する。
func ParallelizeWithThreshold(items, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}
