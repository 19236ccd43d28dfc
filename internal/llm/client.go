package llm

import (
	"context"
	"io"
)

// LLMClient sends one prompt and returns the model's text reply.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// jsonInstruction is the system prompt for every provider. Recognizers parse
// the reply as a JSON object.
const jsonInstruction = "You extract entities from text about books. Reply with a single JSON object and nothing else."

// maxReplyTokens bounds one entity-extraction reply.
const maxReplyTokens = 1024

// Close releases whatever the client holds open. Clients without resources
// are left alone.
func Close(client LLMClient) error {
	if c, ok := client.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
