package gemini

import (
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// TextRequest is one structured text-generation call.
type TextRequest struct {
	SystemInstruction string
	UserText          string
	Schema            *genai.Schema
	Temperature       float32
}

// Image is an inline image part returned by the image model.
type Image struct {
	MimeType string
	Data     string
}

func (i Image) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MimeType, i.Data)
}
