package dto

type CreateMasterDataRequest struct {
	Type string `json:"type" binding:"required"`
	Name string `json:"name" binding:"required"`
}
