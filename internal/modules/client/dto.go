package client

type CreateClientRequest struct {
	CompanyName    string  `json:"company_name" binding:"required"`
	INN            string  `json:"inn"`
	DirectorName   string  `json:"director_name"`
	AccessType     string  `json:"access_type" binding:"required,oneof=public private"`
	Note           string  `json:"note"`
	GrantedUserIDs []int64 `json:"granted_user_ids"`
}

type UpdateClientRequest struct {
	CompanyName    *string  `json:"company_name"`
	INN            *string  `json:"inn"`
	DirectorName   *string  `json:"director_name"`
	AccessType     *string  `json:"access_type"`
	Note           *string  `json:"note"`
	GrantedUserIDs *[]int64 `json:"granted_user_ids"`
}

type ListRequest struct {
	Skip  int `form:"skip"`
	Limit int `form:"limit"`
}
