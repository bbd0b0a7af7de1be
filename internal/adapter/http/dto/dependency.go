package dto

type DependencyRequest struct {
	BlockingTaskID string `json:"blockingTaskId"`
	WaitingTaskID  string `json:"waitingTaskId"`
}

type DependenciesResponse struct {
	Blocking   []TaskRefItem `json:"blocking"`
	WaitingFor []TaskRefItem `json:"waitingFor"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
