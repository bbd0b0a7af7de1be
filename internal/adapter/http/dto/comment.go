package dto

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=65535"`
}

type CommentItem struct {
	ID        string `json:"id"`
	TaskID    string `json:"taskId"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}
