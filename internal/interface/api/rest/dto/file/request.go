package file

type (
	UploadURLRequest struct {
		Name        string `json:"name"`
		ContentType string `json:"content_type"`
	}
	// CreateRequest records an object uploaded through an upload URL.
	CreateRequest struct {
		Path        string `json:"path"`
		Name        string `json:"name"`
		ContentType string `json:"content_type"`
		Size        int64  `json:"size"`
	}
	RenameRequest struct {
		Name string `json:"name"`
	}
)
