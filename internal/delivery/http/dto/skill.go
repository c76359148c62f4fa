package dto

type SkillResponse struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type ExtractRequest struct {
	Text string `json:"text"`
}

type ExtractResponse struct {
	Skills []string `json:"skills"`
}

type CompareRequest struct {
	ResumeText   string `json:"resume_text"`
	RequiredText string `json:"required_text"`
}
