package dto

type GeneratorBackend string

const (
	GeneratorVertex GeneratorBackend = "vertex"
	GeneratorGemini GeneratorBackend = "gemini"
)

type VertexGenerateRequest struct {
	Model            string
	System           string
	UserMessage      string
	ResponseMIMEType string
	Temperature      *float32
	MaxOutputTokens  *int32
}

type VertexGenerateResponse struct {
	Text         string
	FinishReason string
	Raw          any
}
