package httpgateway

import "credvault/internal/model"

// The server validates request bodies against their schema, where arrays and
// objects may not be null. These helpers replace nil with empty values.

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func wireServiceType(st model.ServiceType) model.ServiceType {
	st.Fields = orEmpty(st.Fields)
	return st
}

func wireService(s model.Service) model.Service {
	if s.Data == nil {
		s.Data = map[string]string{}
	}
	s.Tags = orEmpty(s.Tags)
	return s
}

func wireAccount(a model.Account) model.Account {
	a.Tags = orEmpty(a.Tags)
	a.LinkedServices = orEmpty(a.LinkedServices)
	return a
}

func wireBulk(req model.BulkCreateRequest) model.BulkCreateRequest {
	req.AccountConfig.Tags = orEmpty(req.AccountConfig.Tags)
	configs := make([]model.ServiceLinkConfig, len(req.ServiceConfigs))
	for i, sc := range req.ServiceConfigs {
		sc.Tags = orEmpty(sc.Tags)
		configs[i] = sc
	}
	req.ServiceConfigs = configs
	return req
}
