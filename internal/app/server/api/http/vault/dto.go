package vault

import "credvault/internal/model"

type existsOutput struct {
	Body existsResponse
}

type existsResponse struct {
	Exists bool `json:"exists" doc:"Whether a vault has been created"`
}

type unlockInput struct {
	Body unlockRequest
}

type unlockRequest struct {
	Password string `json:"password" doc:"Master password"`
}

type createInput struct {
	Body createRequest
}

type createRequest struct {
	Password       string         `json:"password" doc:"Master password"`
	Settings       model.Settings `json:"settings"`
	ServiceTypeIDs []string       `json:"serviceTypeIds" doc:"Ids of default service types to seed"`
}

type vaultOutput struct {
	Body *model.Vault
}

type typesOutput struct {
	Body []model.ServiceType
}

type settingsInput struct {
	Body model.Settings
}

type passwordInput struct {
	Body passwordRequest
}

type passwordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
