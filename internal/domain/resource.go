package domain

// Status tags a Resource.
type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Resource is one emission of a single-item fetch.
type Resource struct {
	Status  Status `json:"status"`
	Data    *Movie `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func Loading() Resource {
	return Resource{Status: StatusLoading}
}

func Success(m Movie) Resource {
	return Resource{Status: StatusSuccess, Data: &m}
}

func Failure(message string) Resource {
	return Resource{Status: StatusError, Message: message}
}
