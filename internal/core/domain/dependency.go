package domain

// DependencyEdge says WaitingTaskID cannot complete before BlockingTaskID.
type DependencyEdge struct {
	BlockingTaskID string
	WaitingTaskID  string
}

// TaskDependencies is the two directed views of a task's edges.
type TaskDependencies struct {
	Blocking   []TaskRef
	WaitingFor []TaskRef
}
