package lwb

import (
	"runtime"
	"sync"
)

//Task is one unit of work executed by a Pool worker.
type Task interface {
	Run()
}

//Pool is a fixed set of workers draining a task channel.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
}

//NewPool starts workersNum workers; a non-positive count uses one worker per
//logical CPU.
func NewPool(workersNum int) *Pool {
	if workersNum < 1 {
		workersNum = runtime.NumCPU()
	}
	pool := &Pool{tasks: make(chan Task, workersNum)}
	for i := 0; i < workersNum; i++ {
		pool.wg.Add(1)
		go func() {
			defer pool.wg.Done()
			for task := range pool.tasks {
				task.Run()
			}
		}()
	}
	return pool
}

//AddTask queues one task. Blocks while all workers are busy and the queue is
//full.
func (pool *Pool) AddTask(task Task) {
	pool.tasks <- task
}

//Close tells the workers that no more tasks are coming.
func (pool *Pool) Close() {
	close(pool.tasks)
}

//WaitAll blocks until every queued task has finished. Call Close first.
func (pool *Pool) WaitAll() {
	pool.wg.Wait()
}

//chunkTask runs the body of a ParallelFor over one contiguous chunk.
type chunkTask struct {
	thread, start, stop int
	body                func(thread, start, stop int)
}

func (task *chunkTask) Run() {
	task.body(task.thread, task.start, task.stop)
}

//ParallelFor splits the half interval [begin, end) into numThreads contiguous
//chunks and runs body on each of them concurrently. Chunks are disjoint, so
//bodies writing to per-row output slots need no synchronization. With
//numThreads <= 1 the whole range runs inline on the calling goroutine.
func ParallelFor(begin, end, numThreads int, body func(thread, start, stop int)) {
	if end <= begin {
		return
	}
	if numThreads <= 1 {
		body(0, begin, end)
		return
	}
	chunk := (end - begin + numThreads - 1) / numThreads
	pool := NewPool(numThreads)
	for i := 0; i < numThreads; i++ {
		start := begin + i*chunk
		stop := start + chunk
		if stop > end {
			stop = end
		}
		if start >= stop {
			break
		}
		pool.AddTask(&chunkTask{thread: i, start: start, stop: stop, body: body})
	}
	pool.Close()
	pool.WaitAll()
}
