package health

type Input struct{}

type Output struct {
	Body Response
}

// Response is the health payload. Storage stays empty for in-memory and
// file storages.
type Response struct {
	Status  string `json:"status" example:"OK" doc:"Server status"`
	Storage string `json:"storage,omitempty" example:"OK" doc:"Vault storage status, set only when the storage can be pinged"`
}
