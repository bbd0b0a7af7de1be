package domain

const (
	EventTaskUpdated             = "task_updated"
	EventTaskDependenciesUpdated = "task_dependencies_updated"
	EventCommentAdded            = "comment_added"
)

// BroadcastEvent is the JSON body relayed to connected clients.
type BroadcastEvent struct {
	Event     string `json:"event"`
	TaskID    string `json:"taskId"`
	UpdatedBy string `json:"updatedBy"`
}

// PostCommitEvent bundles the asynchronous side effects of a committed write.
type PostCommitEvent struct {
	Pushes    []PushJob
	Broadcast *BroadcastEvent
}
