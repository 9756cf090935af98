package model

// NumberPlaceholder is substituted with the running number in bulk templates.
const NumberPlaceholder = "%n%"

type BulkAccountConfig struct {
	Count        int      `json:"count"`
	NameTemplate string   `json:"nameTemplate"`
	StartNumber  int      `json:"startNumber"`
	Tags         []string `json:"tags"`
	Notes        string   `json:"notes"`
}

type ServiceLinkConfig struct {
	ServiceTypeID string   `json:"serviceTypeId"`
	NameTemplate  string   `json:"nameTemplate"`
	Tags          []string `json:"tags"`
}

// BulkCreateRequest asks the backend to create Count accounts and,
// when LinkServices is set, one service per ServiceConfigs entry for each of them.
type BulkCreateRequest struct {
	AccountConfig  BulkAccountConfig   `json:"accountConfig"`
	LinkServices   bool                `json:"linkServices"`
	ServiceConfigs []ServiceLinkConfig `json:"serviceConfigs"`
}
