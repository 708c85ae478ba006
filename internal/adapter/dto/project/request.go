package project

// LineRequest represents one line in a scene edit
type LineRequest struct {
	Characters []string `json:"characters" validate:"required,min=1,dive,required"`
	Line       string   `json:"line"`
	Sung       bool     `json:"sung,omitempty"`
}

// SceneRequest represents the body of an add or replace scene request.
// The title comes from the path.
type SceneRequest struct {
	Lines []LineRequest `json:"lines" validate:"dive"`
}

// SetVisibilityRequest represents a public/private toggle
type SetVisibilityRequest struct {
	Visibility string `json:"visibility" validate:"required,oneof=private public"`
}

// ShareRequest represents an admin share grant
type ShareRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ListProjectsRequest represents the listing query
type ListProjectsRequest struct {
	Source string `query:"source" validate:"omitempty,oneof=user public shared local"`
}
