package wbl

import "sync"

//Task is a unit of work executed by the pool.
type Task interface {
	Run()
}

//Pool distributes tasks over a fixed number of worker goroutines.
type Pool struct {
	tasks chan Task
	wg    sync.WaitGroup
}

//NewPool starts threadsNum workers draining the task channel.
func NewPool(threadsNum int) *Pool {
	pool := &Pool{tasks: make(chan Task)}
	pool.wg.Add(threadsNum)
	for i := 0; i < threadsNum; i++ {
		go func() {
			defer pool.wg.Done()
			for task := range pool.tasks {
				task.Run()
			}
		}()
	}
	return pool
}

//AddTask queues one task.
func (pool *Pool) AddTask(task Task) {
	pool.tasks <- task
}

//Close signals that no further tasks will arrive.
func (pool *Pool) Close() {
	close(pool.tasks)
}

//WaitAll blocks until every queued task has run.
func (pool *Pool) WaitAll() {
	pool.wg.Wait()
}

//TaskBestBasis runs one single-signal search and stores the outcome at its
//slot of the shared result slices. Slots are disjoint per task, so no
//locking is needed.
type TaskBestBasis struct {
	trees  []*BasisTree
	errs   []error
	ind    int
	search func(int) (*BasisTree, error)
}

func (task *TaskBestBasis) Run() {
	task.trees[task.ind], task.errs[task.ind] = task.search(task.ind)
}
