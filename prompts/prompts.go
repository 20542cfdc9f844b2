package prompts

import (
	"bytes"
	"context"
	"embed"
	"text/template"

	"chatdoc/llm"

	"github.com/SaiNageswarS/go-collection-boot/async"
)

//go:embed templates/*
var templatesFS embed.FS

func loadPrompt(templatePath string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(templatesFS, templatePath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

// RouterSystemPrompt renders the system prompt of the routing agent, listing
// the document tools it may call.
func RouterSystemPrompt(documentNames []string) (string, error) {
	return loadPrompt("templates/router_system.md", map[string]any{
		"DOCUMENT_NAMES": documentNames,
	})
}

// GenerateAnswer produces the grounded answer of one document tool from the
// passages retrieval found.
func GenerateAnswer(ctx context.Context, client llm.LLMClient, documentName, question, passagesJson string) <-chan async.Result[string] {
	return async.Go(func() (string, error) {
		systemPrompt, err := loadPrompt("templates/generate_answer_system.md", map[string]string{
			"DOCUMENT_NAME": documentName,
		})
		if err != nil {
			return "", err
		}

		userPrompt, err := loadPrompt("templates/generate_answer_user.md", map[string]string{
			"QUESTION":      question,
			"PASSAGES_JSON": passagesJson,
		})
		if err != nil {
			return "", err
		}

		messages := []llm.Message{
			{
				Role:    "user",
				Content: userPrompt,
			},
		}

		var response string
		err = client.GenerateInference(ctx, messages, func(chunk string) error {
			response += chunk
			return nil
		},
			llm.WithMaxTokens(4096),
			llm.WithTemperature(0.3),
			llm.WithSystemPrompt(systemPrompt),
		)

		return response, err
	})
}
