package dto

type CreateItemInput struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// UpdateItemInput はPUTによる全置換。descriptionを省略するとクリアされる
type UpdateItemInput struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}
